package transport

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production endpoint of the DQF API.
const DefaultBaseURL = "https://dqf-api.taus.net/v3"

// Config contains configuration for the HTTP transport. It is usually built
// from the api block of the CLI configuration file.
type Config struct {
	// BaseURL is the API root, without trailing slash.
	BaseURL string `json:"baseUrl"`

	// APIKey identifies the integrating application. Sent as the "apiKey" header.
	APIKey string `json:"-"`

	// TLSVerify controls TLS certificate verification.
	TLSVerify *bool `json:"tlsVerify,omitempty"`

	// Timeout for a single HTTP attempt.
	Timeout time.Duration `json:"timeout,omitempty"`

	// MaxRetries for network errors and 5xx responses.
	MaxRetries int `json:"maxRetries,omitempty"`

	// RetryDelay is the initial backoff interval.
	RetryDelay time.Duration `json:"retryDelay,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		BaseURL:    DefaultBaseURL,
		TLSVerify:  &tlsVerify,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
	}
}

// applyDefaults fills zero fields from DefaultConfig.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
	if c.TLSVerify == nil {
		c.TLSVerify = defaults.TLSVerify
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = defaults.RetryDelay
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https scheme, got: %q", parsedURL.Scheme)
	}

	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", c.Timeout)
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got: %d", c.MaxRetries)
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be non-negative, got: %v", c.RetryDelay)
	}

	return nil
}

// NewHTTPClient creates a configured HTTP client.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}

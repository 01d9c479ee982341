// Package config loads the dqf CLI configuration from an HCL file and the
// environment.
//
// Example configuration:
//
//	api {
//	  base_url    = "https://dqf-api.taus.net/v3"
//	  timeout     = "30s"
//	  max_retries = 3
//	}
//
//	session {
//	  generic_email = "pm@example.com"
//	}
//
//	attributes {
//	  cache_path = "/var/cache/dqf/attributes.json"
//	}
//
//	sync {
//	  batch_limit = 100
//	}
//
//	log {
//	  level = "info"
//	  file  = "/var/log/dqf.log"
//	}
//
// Secrets are read from DQF_API_KEY and DQF_SESSION_ID, which override the
// file.
package config

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/matecat/go-dqf/pkg/attributes/s3snapshot"
	"github.com/matecat/go-dqf/pkg/repository"
	"github.com/matecat/go-dqf/pkg/session"
	"github.com/matecat/go-dqf/pkg/transport"
)

// Config is the top-level configuration.
type Config struct {
	API        *API            `hcl:"api,block"`
	Session    *session.Static `hcl:"session,block"`
	Attributes *Attributes     `hcl:"attributes,block"`
	Sync       *Sync           `hcl:"sync,block"`
	Log        *Log            `hcl:"log,block"`
}

// API configures the HTTP transport.
type API struct {
	BaseURL    string `hcl:"base_url,optional"`
	APIKey     string `hcl:"api_key,optional"`
	Timeout    string `hcl:"timeout,optional"`
	MaxRetries *int   `hcl:"max_retries,optional"`
	RetryDelay string `hcl:"retry_delay,optional"`
	TLSVerify  *bool  `hcl:"tls_verify,optional"`
}

// Attributes configures where the attribute snapshot is kept.
type Attributes struct {
	// CachePath is the local snapshot file.
	CachePath string `hcl:"cache_path,optional"`

	// S3 shares the snapshot through a bucket instead of a local file.
	S3 *s3snapshot.Config `hcl:"s3,block"`
}

// Sync configures batch submissions.
type Sync struct {
	BatchLimit int `hcl:"batch_limit,optional"`
}

// Log configures CLI logging.
type Log struct {
	Level      string `hcl:"level,optional"`
	File       string `hcl:"file,optional"`
	MaxSizeMB  int    `hcl:"max_size_mb,optional"`
	MaxBackups int    `hcl:"max_backups,optional"`
	MaxAgeDays int    `hcl:"max_age_days,optional"`
}

// DefaultCachePath is the attribute snapshot file used when none is configured.
const DefaultCachePath = "dqf-attributes.json"

// env holds the environment overrides.
type env struct {
	BaseURL      string `env:"DQF_BASE_URL"`
	APIKey       string `env:"DQF_API_KEY"`
	SessionID    string `env:"DQF_SESSION_ID"`
	GenericEmail string `env:"DQF_GENERIC_EMAIL"`
	LogLevel     string `env:"DQF_LOG_LEVEL"`
}

// NewConfig loads the configuration file at path, applies environment
// overrides and defaults, and validates the result. An empty path loads the
// environment and defaults only.
func NewConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := hclsimple.DecodeFile(path, nil, cfg); err != nil {
			return nil, fmt.Errorf("error decoding config file: %w", err)
		}
	}

	cfg.SetDefaults()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults allocates missing blocks and fills optional fields.
func (c *Config) SetDefaults() {
	if c.API == nil {
		c.API = &API{}
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = transport.DefaultBaseURL
	}
	if c.Session == nil {
		c.Session = &session.Static{}
	}
	if c.Attributes == nil {
		c.Attributes = &Attributes{}
	}
	if c.Attributes.CachePath == "" {
		c.Attributes.CachePath = DefaultCachePath
	}
	if c.Attributes.S3 != nil {
		c.Attributes.S3.SetDefaults()
	}
	if c.Sync == nil {
		c.Sync = &Sync{}
	}
	if c.Sync.BatchLimit == 0 {
		c.Sync.BatchLimit = repository.DefaultBatchLimit
	}
	if c.Log == nil {
		c.Log = &Log{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 100
	}
}

func (c *Config) applyEnv() error {
	var e env
	if err := cleanenv.ReadEnv(&e); err != nil {
		return fmt.Errorf("error reading environment: %w", err)
	}
	if e.BaseURL != "" {
		c.API.BaseURL = e.BaseURL
	}
	if e.APIKey != "" {
		c.API.APIKey = e.APIKey
	}
	if e.SessionID != "" {
		c.Session.ID = e.SessionID
	}
	if e.GenericEmail != "" {
		c.Session.Email = e.GenericEmail
	}
	if e.LogLevel != "" {
		c.Log.Level = e.LogLevel
	}
	return nil
}

// Validate reports every problem found across blocks.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validation.ValidateStruct(c.API,
		validation.Field(&c.API.BaseURL, validation.Required),
		validation.Field(&c.API.Timeout, validation.By(isDuration)),
		validation.Field(&c.API.RetryDelay, validation.By(isDuration)),
		validation.Field(&c.API.MaxRetries, validation.Min(0)),
	); err != nil {
		result = multierror.Append(result, fmt.Errorf("api: %w", err))
	}

	if s3 := c.Attributes.S3; s3 != nil {
		if err := s3.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("attributes.s3: %w", err))
		}
	}

	if err := validation.ValidateStruct(c.Sync,
		validation.Field(&c.Sync.BatchLimit, validation.Min(1)),
	); err != nil {
		result = multierror.Append(result, fmt.Errorf("sync: %w", err))
	}

	if err := validation.ValidateStruct(c.Log,
		validation.Field(&c.Log.Level, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.Log.MaxSizeMB, validation.Min(1)),
		validation.Field(&c.Log.MaxBackups, validation.Min(0)),
		validation.Field(&c.Log.MaxAgeDays, validation.Min(0)),
	); err != nil {
		result = multierror.Append(result, fmt.Errorf("log: %w", err))
	}

	return result.ErrorOrNil()
}

func isDuration(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.ParseDuration(s); err != nil {
		return fmt.Errorf("must be a duration such as \"30s\"")
	}
	return nil
}

// TransportConfig converts the api block. The API key is required to talk to
// the service, so it is checked here rather than in Validate.
func (c *Config) TransportConfig() (*transport.Config, error) {
	tc := transport.DefaultConfig()
	tc.BaseURL = c.API.BaseURL
	tc.APIKey = c.API.APIKey
	if c.API.TLSVerify != nil {
		tc.TLSVerify = c.API.TLSVerify
	}
	if c.API.MaxRetries != nil {
		tc.MaxRetries = *c.API.MaxRetries
	}
	if c.API.Timeout != "" {
		d, err := time.ParseDuration(c.API.Timeout)
		if err != nil {
			return nil, fmt.Errorf("api.timeout: %w", err)
		}
		tc.Timeout = d
	}
	if c.API.RetryDelay != "" {
		d, err := time.ParseDuration(c.API.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("api.retry_delay: %w", err)
		}
		tc.RetryDelay = d
	}
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	return tc, nil
}

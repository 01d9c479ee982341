package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
)

// Client implements Transport over HTTP.
type Client struct {
	config *Config
	client *http.Client
	logger hclog.Logger
}

var _ Transport = (*Client)(nil)

// NewClient validates cfg and returns a client. A nil logger disables logging.
func NewClient(cfg *Config, logger hclog.Logger) (*Client, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transport config: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Client{
		config: cfg,
		client: cfg.NewHTTPClient(),
		logger: logger.Named("transport"),
	}, nil
}

// Invoke implements Transport.
func (c *Client) Invoke(ctx context.Context, req *Request) (*Response, error) {
	op, ok := Lookup(req.Operation)
	if !ok {
		return nil, fmt.Errorf("unknown operation %q", req.Operation)
	}
	path, err := op.Expand(req.PathParams)
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + path

	var body []byte
	if req.Body != nil {
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to marshal request body: %w", op.Name, err)
		}
	}

	var (
		resp     *Response
		attempts int
	)
	attempt := func() error {
		attempts++
		r, err := c.do(ctx, op, endpoint, req.Headers, body)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.config.RetryDelay
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.config.MaxRetries)), ctx)

	notify := func(err error, delay time.Duration) {
		c.logger.Warn("retrying request",
			"operation", op.Name,
			"attempt", attempts,
			"delay", delay,
			"error", err,
		)
	}

	if err := backoff.RetryNotify(attempt, policy, notify); err != nil {
		return nil, fmt.Errorf("%s: request failed after %d attempts: %w", op.Name, attempts, err)
	}

	c.logger.Debug("request completed",
		"operation", op.Name,
		"method", op.Method,
		"path", path,
		"status", resp.StatusCode,
	)
	return resp, nil
}

// do performs a single attempt. Retryable failures are returned as plain
// errors, everything else as backoff.Permanent.
func (c *Client) do(ctx context.Context, op Operation, endpoint string, h Headers, body []byte) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, op.Method, endpoint, bodyReader)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("apiKey", c.config.APIKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if h.SessionID != "" {
		httpReq.Header.Set("sessionId", h.SessionID)
	}
	if h.ProjectKey != "" {
		httpReq.Header.Set("projectKey", h.ProjectKey)
	}
	if h.Email != "" {
		httpReq.Header.Set("email", h.Email)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode >= 500 {
		return nil, fmt.Errorf("server error (status %d): %s", httpResp.StatusCode, string(respBody))
	}

	payload, err := decodePayload(respBody)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode response (status %d): %w", httpResp.StatusCode, err))
	}

	return &Response{StatusCode: httpResp.StatusCode, Payload: payload}, nil
}

func decodePayload(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	return map[string]any{"data": v}, nil
}

// Package s3snapshot stores the attribute snapshot in an S3-compatible bucket,
// so a fleet of workers can share one authoritative list.
package s3snapshot

import (
	"fmt"
)

// DefaultKey is the object key used when none is configured.
const DefaultKey = "dqf/basic-attributes.json"

// Config contains configuration for the S3 snapshot store.
type Config struct {
	Endpoint  string `hcl:"endpoint,optional"`   // S3 endpoint URL; empty for AWS
	Region    string `hcl:"region"`              // AWS region (e.g., "eu-west-1")
	Bucket    string `hcl:"bucket"`              // S3 bucket name
	Key       string `hcl:"key,optional"`        // Object key of the snapshot
	AccessKey string `hcl:"access_key,optional"` // Access key ID
	SecretKey string `hcl:"secret_key,optional"` // Secret access key

	RequestTimeoutSeconds int  `hcl:"request_timeout_seconds,optional"` // Request timeout (default: 30)
	InsecureSkipVerify    bool `hcl:"insecure_skip_verify,optional"`    // Skip TLS verification (testing only)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("access_key and secret_key must be set together")
	}
	return nil
}

// SetDefaults sets default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Key == "" {
		c.Key = DefaultKey
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = 30
	}
}

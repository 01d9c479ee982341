package s3snapshot

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashicorp/go-hclog"

	"github.com/matecat/go-dqf/pkg/attributes"
)

// objectAPI is the subset of the S3 client used by Store.
type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store is an attributes.SnapshotStore backed by one S3 object.
type Store struct {
	client objectAPI
	cfg    *Config
	logger hclog.Logger
}

var _ attributes.SnapshotStore = (*Store)(nil)

// New creates a store from cfg.
func New(cfg *Config, logger hclog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid S3 snapshot configuration: %w", err)
	}
	cfg.SetDefaults()

	awsCfg, err := createAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// MinIO and other S3-compatible services
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newWithClient(client, cfg, logger), nil
}

func newWithClient(client objectAPI, cfg *Config, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	cfg.SetDefaults()
	return &Store{
		client: client,
		cfg:    cfg,
		logger: logger.Named("s3-snapshot"),
	}
}

func createAWSConfig(cfg *Config) (aws.Config, error) {
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify,
			},
		},
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithHTTPClient(httpClient),
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	return config.LoadDefaultConfig(context.Background(), opts...)
}

// FetchAll downloads and decodes the snapshot.
func (s *Store) FetchAll(ctx context.Context) ([]attributes.Record, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.cfg.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot s3://%s/%s: %w", s.cfg.Bucket, s.cfg.Key, err)
	}
	defer out.Body.Close()

	records, err := attributes.DecodeSnapshot(out.Body)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("attribute snapshot downloaded",
		"bucket", s.cfg.Bucket,
		"key", s.cfg.Key,
		"records", len(records))
	return records, nil
}

// Store encodes and uploads the snapshot.
func (s *Store) Store(ctx context.Context, records []attributes.Record) error {
	var buf bytes.Buffer
	if err := attributes.EncodeSnapshot(&buf, records); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(s.cfg.Key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put snapshot s3://%s/%s: %w", s.cfg.Bucket, s.cfg.Key, err)
	}

	s.logger.Info("attribute snapshot uploaded",
		"bucket", s.cfg.Bucket,
		"key", s.cfg.Key,
		"records", len(records))
	return nil
}

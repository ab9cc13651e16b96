// Package s3 implements blob storage backed by Amazon S3 or S3-compatible
// services such as MinIO.
//
// This file contains the main types, configuration, constructor, and helper
// methods for the S3 blob store implementation.
package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/marmos91/dittodrive/pkg/blob"
)

// Config contains configuration for the S3 blob store.
type Config struct {
	// Endpoint overrides the S3 endpoint (MinIO, localstack). Empty for AWS.
	Endpoint string

	// Region is the AWS region.
	Region string

	// Bucket is the bucket holding drive payloads. It must already exist;
	// the store does not create it.
	Bucket string

	// AccessKeyID and SecretAccessKey are static credentials.
	AccessKeyID     string
	SecretAccessKey string

	// ForcePathStyle addresses the bucket as a path component rather than a
	// subdomain. Required by MinIO.
	ForcePathStyle bool

	// KeyPrefix is an optional prefix for all object keys.
	// Example: "dittodrive/" results in keys like "dittodrive/alice/docs/..."
	KeyPrefix string

	// MaxRetries is the maximum number of retry attempts for transient
	// errors (default: 3).
	MaxRetries uint

	// InitialBackoff is the initial backoff duration before first retry
	// (default: 100ms). Subsequent retries use exponential backoff up to
	// MaxBackoff.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration between retries
	// (default: 2s).
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff
	// (default: 2.0). Each retry waits:
	// min(InitialBackoff * (BackoffMultiplier ^ attempt), MaxBackoff)
	BackoffMultiplier float64

	// Metrics is an optional metrics collector.
	Metrics blob.Metrics
}

// retryConfig holds retry settings for S3 operations.
type retryConfig struct {
	maxRetries        uint
	initialBackoff    time.Duration
	maxBackoff        time.Duration
	backoffMultiplier float64
}

// S3Store implements blob.Store using Amazon S3 or S3-compatible storage.
//
// Object keys come from the resolver and mirror the drive structure
// ("<owner_id>/<path parts>"), which keeps the bucket human-readable and
// lets payloads be located without the metadata database.
//
// Thread safety: safe for concurrent use by multiple goroutines. Concurrent
// writes to the same key are last-write-wins, matching S3 semantics.
type S3Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	keyPrefix string
	retry     retryConfig
	metrics   blob.Metrics
}

// NewClientFromConfig creates an S3 client from configuration parameters.
// This is a helper function for creating S3 clients from YAML configuration.
func NewClientFromConfig(ctx context.Context, cfg Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token (empty for static credentials)
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return client, nil
}

// New creates a new S3-backed blob store and verifies bucket access.
// The bucket must already exist.
func New(ctx context.Context, cfg Config) (*S3Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	client, err := NewClientFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewWithClient(ctx, client, cfg)
}

// NewWithClient creates an S3 blob store around an existing client. Useful
// for tests and callers that configure the client themselves.
func NewWithClient(ctx context.Context, client *s3.Client, cfg Config) (*S3Store, error) {
	if client == nil {
		return nil, fmt.Errorf("S3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	// Verify bucket access up front so misconfiguration surfaces at start,
	// not on the first upload.
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	initialBackoff := cfg.InitialBackoff
	if initialBackoff == 0 {
		initialBackoff = 100 * time.Millisecond
	}
	maxBackoff := cfg.MaxBackoff
	if maxBackoff == 0 {
		maxBackoff = 2 * time.Second
	}
	backoffMultiplier := cfg.BackoffMultiplier
	if backoffMultiplier == 0 {
		backoffMultiplier = 2.0
	}

	return &S3Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
		metrics:   cfg.Metrics,
		retry: retryConfig{
			maxRetries:        maxRetries,
			initialBackoff:    initialBackoff,
			maxBackoff:        maxBackoff,
			backoffMultiplier: backoffMultiplier,
		},
	}, nil
}

// objectKey returns the full S3 object key for a resolver key.
func (s *S3Store) objectKey(key string) string {
	if s.keyPrefix != "" {
		return s.keyPrefix + key
	}
	return key
}

// Healthcheck verifies the bucket is still reachable. Readiness probes call
// this on every check, so it stays a single HeadBucket round trip.
func (s *S3Store) Healthcheck(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	}); err != nil {
		return fmt.Errorf("bucket %q not reachable: %w", s.bucket, err)
	}
	return nil
}

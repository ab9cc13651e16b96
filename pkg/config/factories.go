package config

import (
	"context"
	"fmt"

	"github.com/marmos91/dittodrive/pkg/blob"
	"github.com/marmos91/dittodrive/pkg/blob/memory"
	"github.com/marmos91/dittodrive/pkg/blob/s3"
	"github.com/marmos91/dittodrive/pkg/drive/cache"
	"github.com/marmos91/dittodrive/pkg/drive/store"
	"github.com/marmos91/dittodrive/pkg/metrics"
)

// CreateStore creates the metadata store from configuration.
//
// Supported types:
//   - "sqlite": single-node deployments (default)
//   - "postgres": HA-capable deployments
func CreateStore(cfg DatabaseConfig) (*store.GORMStore, error) {
	s, err := store.New(cfg.StoreConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata store: %w", err)
	}
	return s, nil
}

// CreateBlobStore creates the object store from configuration.
//
// Supported types:
//   - "s3": Amazon S3 or S3-compatible storage such as MinIO (default)
//   - "memory": in-process storage, for tests and local development only
//
// The S3 store reports operation metrics when the metrics registry is
// enabled.
func CreateBlobStore(ctx context.Context, cfg BlobConfig) (blob.Store, error) {
	switch cfg.Type {
	case "s3":
		s3Store, err := s3.New(ctx, s3.Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			ForcePathStyle:  cfg.S3.ForcePathStyle,
			KeyPrefix:       cfg.S3.KeyPrefix,
			MaxRetries:      cfg.S3.MaxRetries,
			InitialBackoff:  cfg.S3.InitialBackoff,
			MaxBackoff:      cfg.S3.MaxBackoff,
			Metrics:         metrics.NewBlobMetrics(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 blob store: %w", err)
		}
		return s3Store, nil

	case "memory":
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown blob store type: %q", cfg.Type)
	}
}

// CreateQueryCache creates the listing cache from configuration.
//
// The cache reports hit/miss/invalidation counters when the metrics
// registry is enabled.
func CreateQueryCache(cfg CacheConfig) (cache.QueryCache, error) {
	c, err := cache.New(cfg.QueryCacheConfig(), metrics.NewCacheRecorder())
	if err != nil {
		return nil, fmt.Errorf("failed to create query cache: %w", err)
	}
	return c, nil
}

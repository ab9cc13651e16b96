package config

import (
	"strings"
	"time"

	"github.com/marmos91/dittodrive/pkg/api/auth"
	"github.com/marmos91/dittodrive/pkg/drive/cache"
)

// ApplyDefaults fills every unset field after file and environment loading.
// Only zero values are touched; anything the operator set explicitly stays.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyShutdownTimeoutDefaults(cfg)
	applyDatabaseDefaults(&cfg.Database)
	applyBlobDefaults(&cfg.Blob)
	applyCacheDefaults(&cfg.Cache)
	applyMetricsDefaults(&cfg.Metrics)
	cfg.Server.ApplyDefaults()
	applyAuthDefaults(&cfg.Auth)
	cfg.Sharing.ApplyDefaults()
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Level comparisons downstream assume uppercase.
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// Tracing stays opt-in; only the endpoint and sample rate get defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317" // OTLP gRPC
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
	applyProfilingDefaults(&cfg.Profiling)
}

func applyProfilingDefaults(cfg *ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{
			"cpu",
			"alloc_objects",
			"alloc_space",
			"inuse_objects",
			"inuse_space",
			"goroutines",
		}
	}
}

func applyShutdownTimeoutDefaults(cfg *Config) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

// applyDatabaseDefaults sets metadata database defaults.
// The SQLite path default is left to the store layer, which resolves the
// XDG location at connect time.
func applyDatabaseDefaults(cfg *DatabaseConfig) {
	if cfg.Type == "" {
		cfg.Type = "sqlite"
	}
	if cfg.Type == "postgres" {
		if cfg.Postgres.Port == 0 {
			cfg.Postgres.Port = 5432
		}
		if cfg.Postgres.SSLMode == "" {
			cfg.Postgres.SSLMode = "disable"
		}
		if cfg.Postgres.MaxOpenConns == 0 {
			cfg.Postgres.MaxOpenConns = 25
		}
		if cfg.Postgres.MaxIdleConns == 0 {
			cfg.Postgres.MaxIdleConns = 5
		}
	}
}

// applyBlobDefaults sets object store defaults.
func applyBlobDefaults(cfg *BlobConfig) {
	if cfg.Type == "" {
		cfg.Type = "s3"
	}
	if cfg.S3.Region == "" {
		cfg.S3.Region = "us-east-1"
	}
	if cfg.S3.MaxRetries == 0 {
		cfg.S3.MaxRetries = 3
	}
	if cfg.S3.InitialBackoff == 0 {
		cfg.S3.InitialBackoff = 100 * time.Millisecond
	}
	if cfg.S3.MaxBackoff == 0 {
		cfg.S3.MaxBackoff = 2 * time.Second
	}
}

// applyCacheDefaults sets query cache defaults.
func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.Backend == "" {
		cfg.Backend = string(cache.BackendTypeMemory)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = cache.DefaultTTL
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	// Enabled defaults to false (opt-in for metrics)
	// Port defaults to 9090 if metrics are enabled
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// applyAuthDefaults sets bearer token defaults.
// The secret has no default: it must come from the config file or from
// the DITTODRIVE_JWT_SECRET environment variable.
func applyAuthDefaults(cfg *auth.Config) {
	if cfg.Issuer == "" {
		cfg.Issuer = "dittodrive"
	}
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = 24 * time.Hour
	}
}

// GetDefaultConfig builds a fully defaulted Config, used by the sample
// config writer and by tests.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Database: DatabaseConfig{
			Type: "sqlite", // Default to SQLite for single-node
		},
		Blob: BlobConfig{
			Type: "s3",
			S3: S3Config{
				// Placeholder bucket for the sample config; deployments
				// point this at their own bucket.
				Bucket: "dittodrive",
			},
		},
	}

	ApplyDefaults(cfg)
	return cfg
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/marmos91/dittodrive/pkg/api"
	"github.com/marmos91/dittodrive/pkg/api/auth"
	"github.com/marmos91/dittodrive/pkg/drive/cache"
	"github.com/marmos91/dittodrive/pkg/drive/sharing"
	"github.com/marmos91/dittodrive/pkg/drive/store"
)

// Config is the static server configuration: logging, tracing, the two
// stores, the query cache, and the API and auth settings. Dynamic state
// (nodes, grants, trash, activity) lives in the metadata database and is
// managed through the REST API.
//
// Sources, highest precedence first: environment (DITTODRIVE_*), the
// config file, built-in defaults.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry tracing and Pyroscope profiling.
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// ShutdownTimeout bounds the graceful-shutdown drain on SIGTERM.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	// Database configures the metadata database (SQLite or PostgreSQL).
	// This is the persistent store for nodes, grants and the activity log.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Blob configures the object store holding file payloads.
	Blob BlobConfig `mapstructure:"blob" yaml:"blob"`

	// Cache configures the listing/search page cache.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	// Metrics configures the standalone Prometheus listener.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Server configures the REST API listener.
	Server api.Config `mapstructure:"server" yaml:"server"`

	// Auth contains JWT bearer token configuration.
	// The signing secret can also come from DITTODRIVE_JWT_SECRET,
	// which takes precedence over the config file.
	Auth auth.Config `mapstructure:"auth" yaml:"auth"`

	// Sharing bounds the lifetime of signed download links
	Sharing sharing.Config `mapstructure:"sharing" yaml:"sharing"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum level emitted: DEBUG, INFO, WARN or ERROR
	// (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format is "text" or "json".
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output is "stdout", "stderr" or a file path. A file path is what
	// makes 'dittodrive logs' usable.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig configures trace export to an OTLP collector (Jaeger,
// Tempo, any OTLP receiver). Tracing is opt-in.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the collector's host:port; defaults to the standard
	// OTLP gRPC port on localhost.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure disables TLS on the collector connection.
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate is the fraction of traces exported, 0.0 to 1.0.
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`

	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig configures continuous profiling against a Pyroscope
// server. Opt-in.
type ProfilingConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the Pyroscope server URL.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// ProfileTypes selects what to collect: cpu, alloc_objects,
	// alloc_space, inuse_objects, inuse_space, goroutines, mutex_count,
	// mutex_duration, block_count, block_duration.
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// MetricsConfig configures the Prometheus listener. When disabled the
// no-op metrics implementations are used and nothing is collected.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port serves /metrics; defaults to 9090.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// DatabaseConfig configures the metadata database.
type DatabaseConfig struct {
	// Type selects the database backend
	// Valid values: sqlite (single-node, default), postgres (HA-capable)
	Type string `mapstructure:"type" validate:"omitempty,oneof=sqlite postgres" yaml:"type"`

	// SQLite contains SQLite-specific settings
	SQLite SQLiteConfig `mapstructure:"sqlite" yaml:"sqlite"`

	// Postgres contains PostgreSQL-specific settings
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the path to the SQLite database file
	// Default: $XDG_CONFIG_HOME/dittodrive/metadata.db
	Path string `mapstructure:"path" yaml:"path"`
}

// PostgresConfig contains PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host         string `mapstructure:"host" yaml:"host"`
	Port         int    `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
	Database     string `mapstructure:"database" yaml:"database"`
	User         string `mapstructure:"user" yaml:"user"`
	Password     string `mapstructure:"password" yaml:"password,omitempty"`
	SSLMode      string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-ca verify-full" yaml:"ssl_mode"`
	SSLRootCert  string `mapstructure:"ssl_root_cert" yaml:"ssl_root_cert,omitempty"`
	MaxOpenConns int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
}

// StoreConfig converts the config-file representation into the metadata
// store's own configuration type.
func (c DatabaseConfig) StoreConfig() *store.Config {
	return &store.Config{
		Type: store.DatabaseType(c.Type),
		SQLite: store.SQLiteConfig{
			Path: c.SQLite.Path,
		},
		Postgres: store.PostgresConfig{
			Host:         c.Postgres.Host,
			Port:         c.Postgres.Port,
			Database:     c.Postgres.Database,
			User:         c.Postgres.User,
			Password:     c.Postgres.Password,
			SSLMode:      c.Postgres.SSLMode,
			SSLRootCert:  c.Postgres.SSLRootCert,
			MaxOpenConns: c.Postgres.MaxOpenConns,
			MaxIdleConns: c.Postgres.MaxIdleConns,
		},
	}
}

// BlobConfig configures the object store holding file payloads.
type BlobConfig struct {
	// Type selects the blob store backend
	// Valid values: s3 (default), memory (testing only, contents are lost on restart)
	Type string `mapstructure:"type" validate:"omitempty,oneof=s3 memory" yaml:"type"`

	// S3 contains S3-specific settings, used when Type is "s3"
	S3 S3Config `mapstructure:"s3" yaml:"s3"`
}

// S3Config contains S3 blob store configuration.
// Works with AWS S3 and S3-compatible services such as MinIO.
type S3Config struct {
	// Endpoint overrides the S3 endpoint (MinIO, localstack). Empty for AWS.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`

	// Region is the AWS region
	Region string `mapstructure:"region" yaml:"region"`

	// Bucket is the bucket holding drive payloads. It must already exist.
	Bucket string `mapstructure:"bucket" yaml:"bucket"`

	// AccessKeyID and SecretAccessKey are static credentials
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key,omitempty"`

	// ForcePathStyle addresses the bucket as a path component rather than
	// a subdomain. Required by MinIO.
	ForcePathStyle bool `mapstructure:"force_path_style" yaml:"force_path_style"`

	// KeyPrefix is an optional prefix for all object keys
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix,omitempty"`

	// MaxRetries is the maximum number of retry attempts for transient errors
	// Default: 3
	MaxRetries uint `mapstructure:"max_retries" yaml:"max_retries"`

	// InitialBackoff is the backoff before the first retry
	// Default: 100ms
	InitialBackoff time.Duration `mapstructure:"initial_backoff" yaml:"initial_backoff"`

	// MaxBackoff caps the backoff between retries
	// Default: 2s
	MaxBackoff time.Duration `mapstructure:"max_backoff" yaml:"max_backoff"`
}

// CacheConfig configures the listing query cache.
type CacheConfig struct {
	// Backend selects the cache backend
	// Valid values: memory (default), badger (persists across restarts)
	Backend string `mapstructure:"backend" validate:"omitempty,oneof=memory badger" yaml:"backend"`

	// TTL is how long cached pages stay fresh
	// Default: 5m
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`

	// Path is the badger database directory. Ignored by the memory backend.
	// Default: $XDG_CACHE_HOME/dittodrive/querycache
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

// QueryCacheConfig converts the config-file representation into the query
// cache's own configuration type.
func (c CacheConfig) QueryCacheConfig() *cache.Config {
	return &cache.Config{
		Backend: cache.BackendType(c.Backend),
		TTL:     c.TTL,
		Path:    c.Path,
	}
}

// Load reads configuration from the file at configPath (or the default
// location when empty), overlays DITTODRIVE_* environment variables, fills
// defaults and validates the result. A missing file is not an error; the
// defaults are returned.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		return GetDefaultConfig(), nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for commands that require an existing config file.
// A missing file produces an error telling the user how to create one.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  dittodrive init\n\n"+
				"Or specify a custom config file:\n"+
				"  dittodrive <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s\n\n"+
				"Please create the configuration file:\n"+
				"  dittodrive init --config %s",
				configPath, configPath)
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML. The file is written 0600: it may
// hold the JWT signing secret and S3 credentials.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	// DITTODRIVE_LOGGING_LEVEL=DEBUG maps onto logging.level.
	v.SetEnvPrefix("DITTODRIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// readConfigFile reads the config file, reporting whether one was found.
// Absence is not an error; viper reports it two different ways depending
// on whether the path was explicit.
func readConfigFile(v *viper.Viper) (bool, error) {
	err := v.ReadInConfig()
	if err == nil {
		return true, nil
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return false, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to read config file: %w", err)
}

func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
	)
}

// durationDecodeHook lets config files write durations as "30s", "5m",
// "1h". Bare numbers are taken as nanoseconds; YAML hands them over as
// int, int64 or float64 depending on the value.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir resolves the config directory: $XDG_CONFIG_HOME/dittodrive,
// falling back to ~/.config/dittodrive, then to the working directory.
func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dittodrive")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "dittodrive")
}

// GetDefaultConfigPath returns the default config file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the default
// location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir exposes the config directory for the init command.
func GetConfigDir() string {
	return getConfigDir()
}

package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackendType defines the supported cache backends.
type BackendType string

const (
	// BackendTypeMemory keeps pages in process memory (default).
	BackendTypeMemory BackendType = "memory"

	// BackendTypeBadger keeps pages in a BadgerDB database on disk.
	BackendTypeBadger BackendType = "badger"
)

// Config contains query cache configuration.
type Config struct {
	// Backend selects the cache backend.
	Backend BackendType

	// TTL is how long pages stay fresh.
	TTL time.Duration

	// Path is the badger database directory. Ignored by the memory backend.
	// Default: $XDG_CACHE_HOME/dittodrive/querycache
	Path string
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendTypeMemory
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.Backend == BackendTypeBadger && c.Path == "" {
		cacheDir := os.Getenv("XDG_CACHE_HOME")
		if cacheDir == "" {
			homeDir, _ := os.UserHomeDir()
			cacheDir = filepath.Join(homeDir, ".cache")
		}
		c.Path = filepath.Join(cacheDir, "dittodrive", "querycache")
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendTypeMemory:
	case BackendTypeBadger:
		if c.Path == "" {
			return fmt.Errorf("badger cache path is required")
		}
	default:
		return fmt.Errorf("unsupported cache backend: %s", c.Backend)
	}
	return nil
}

// New creates a query cache based on the configuration.
func New(config *Config, recorder Recorder) (QueryCache, error) {
	if config == nil {
		config = &Config{}
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}

	switch config.Backend {
	case BackendTypeMemory:
		return NewMemoryCache(config.TTL, recorder), nil

	case BackendTypeBadger:
		if err := os.MkdirAll(config.Path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		return NewBadgerCache(config.Path, config.TTL, recorder)

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", config.Backend)
	}
}

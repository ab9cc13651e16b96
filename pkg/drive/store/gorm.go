package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// DatabaseType selects the metadata database backend.
type DatabaseType string

const (
	// DatabaseTypeSQLite is the single-node default.
	DatabaseTypeSQLite DatabaseType = "sqlite"

	// DatabaseTypePostgres serves multi-replica deployments.
	DatabaseTypePostgres DatabaseType = "postgres"
)

// SQLiteConfig holds the SQLite backend settings.
type SQLiteConfig struct {
	// Path to the database file; defaults to
	// $XDG_CONFIG_HOME/dittodrive/metadata.db.
	Path string
}

// PostgresConfig holds the PostgreSQL backend settings.
type PostgresConfig struct {
	Host         string
	Port         int
	Database     string
	User         string
	Password     string
	SSLMode      string // one of disable, require, verify-ca, verify-full
	SSLRootCert  string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN returns the PostgreSQL connection string.
func (c *PostgresConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		c.Host, c.Port, c.User, c.Password, c.Database)

	if c.SSLMode != "" {
		dsn += fmt.Sprintf(" sslmode=%s", c.SSLMode)
	}
	if c.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", c.SSLRootCert)
	}

	return dsn
}

// Config contains database configuration.
type Config struct {
	Type     DatabaseType
	SQLite   SQLiteConfig
	Postgres PostgresConfig
}

// ApplyDefaults fills unset fields for the selected backend.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = DatabaseTypeSQLite
	}

	if c.Type == DatabaseTypeSQLite && c.SQLite.Path == "" {
		configDir := os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			homeDir, _ := os.UserHomeDir()
			configDir = filepath.Join(homeDir, ".config")
		}
		c.SQLite.Path = filepath.Join(configDir, "dittodrive", "metadata.db")
	}

	if c.Type == DatabaseTypePostgres {
		if c.Postgres.Port == 0 {
			c.Postgres.Port = 5432
		}
		if c.Postgres.SSLMode == "" {
			c.Postgres.SSLMode = "disable"
		}
		if c.Postgres.MaxOpenConns == 0 {
			c.Postgres.MaxOpenConns = 25
		}
		if c.Postgres.MaxIdleConns == 0 {
			c.Postgres.MaxIdleConns = 5
		}
	}
}

// Validate rejects configurations the selected backend cannot open.
func (c *Config) Validate() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required")
		}
	case DatabaseTypePostgres:
		if c.Postgres.Host == "" {
			return fmt.Errorf("postgres host is required")
		}
		if c.Postgres.Database == "" {
			return fmt.Errorf("postgres database is required")
		}
		if c.Postgres.User == "" {
			return fmt.Errorf("postgres user is required")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// GORMStore is the metadata store over GORM; the same code serves the
// SQLite and PostgreSQL dialects.
type GORMStore struct {
	db     *gorm.DB
	config *Config
}

// New opens the configured database and migrates the schema.
func New(config *Config) (*GORMStore, error) {
	if config == nil {
		config = &Config{}
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	var dialector gorm.Dialector
	switch config.Type {
	case DatabaseTypeSQLite:
		if err := os.MkdirAll(filepath.Dir(config.SQLite.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		// WAL allows readers alongside the single writer; busy_timeout
		// waits out short lock contention instead of failing.
		dialector = sqlite.Open(config.SQLite.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")

	case DatabaseTypePostgres:
		dialector = postgres.Open(config.Postgres.DSN())

	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if config.Type == DatabaseTypePostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying database: %w", err)
		}
		sqlDB.SetMaxOpenConns(config.Postgres.MaxOpenConns)
		sqlDB.SetMaxIdleConns(config.Postgres.MaxIdleConns)
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to run database migration: %w", err)
	}

	// Post-migration: live-path uniqueness holds among non-deleted nodes
	// only, which AutoMigrate cannot express. The partial index is the
	// authority for path collisions; trashed nodes do not occupy their path.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_nodes_owner_live_path ON nodes (owner_id, path) WHERE is_deleted = FALSE",
	).Error; err != nil {
		return nil, fmt.Errorf("failed to create live path index: %w", err)
	}

	return &GORMStore{
		db:     db,
		config: config,
	}, nil
}

// DB exposes the underlying GORM handle for tests and ad hoc queries.
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}

// Ping verifies database connectivity.
func (s *GORMStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fault.Unavailable("database handle unavailable")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return classifyError(err)
	}
	return nil
}

// Close releases the underlying database connection.
func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isUniqueConstraintError recognizes unique violations from either
// dialect; the message text is the only signal the pure-Go SQLite driver
// exposes.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// isConnectionError checks if the error indicates an unreachable backend.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "database is locked")
}

// classifyError maps driver errors onto the fault taxonomy. Faults pass
// through unchanged so refs assigned close to the query survive.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var f *fault.Fault
	if errors.As(err, &f) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fault.Timeout("database query")
	case isUniqueConstraintError(err):
		return fault.Conflict("resource already exists", "")
	case isConnectionError(err):
		return fault.Unavailable("database unreachable")
	default:
		return err
	}
}

// convertNotFoundError converts gorm.ErrRecordNotFound to a NotFound fault
// for the named resource; other errors go through classifyError.
func convertNotFoundError(err error, resource, ref string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fault.NotFound(resource, ref)
	}
	return classifyError(err)
}

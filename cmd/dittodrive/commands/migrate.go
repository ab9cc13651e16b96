package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run database migrations for the metadata database.

This command applies pending database migrations to the configured metadata
database (SQLite or PostgreSQL). It is required after upgrading DittoDrive
when schema changes have been made.

Examples:
  # Run migrations with default config
  dittodrive migrate

  # Run migrations with custom config
  dittodrive migrate --config /etc/dittodrive/config.yaml`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	logger.Info("Running database migrations", "type", cfg.Database.Type)

	// Creating the store triggers auto-migration
	driveStore, err := config.CreateStore(cfg.Database)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer func() { _ = driveStore.Close() }()

	// Verify the migration worked by pinging the database
	if err := driveStore.Ping(context.Background()); err != nil {
		return fmt.Errorf("migration verification failed: %w", err)
	}

	fmt.Printf("Migrations completed successfully (database type: %s)\n", cfg.Database.Type)
	return nil
}

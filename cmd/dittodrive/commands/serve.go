package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/internal/telemetry"
	"github.com/marmos91/dittodrive/pkg/api"
	"github.com/marmos91/dittodrive/pkg/config"
	"github.com/marmos91/dittodrive/pkg/drive/access"
	"github.com/marmos91/dittodrive/pkg/drive/lifecycle"
	"github.com/marmos91/dittodrive/pkg/drive/sharing"
	"github.com/marmos91/dittodrive/pkg/metrics"

	// Blank import registers the prometheus collectors.
	_ "github.com/marmos91/dittodrive/pkg/metrics/prometheus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the DittoDrive server",
	Long: `Start the DittoDrive server with the specified configuration.

The server runs in the foreground and stops gracefully on SIGINT/SIGTERM.
Pass --config to point at a specific configuration file; without it the
server reads the default location at $XDG_CONFIG_HOME/dittodrive/config.yaml.

Examples:
  # Start with default config location
  dittodrive serve

  # Start with custom config file
  dittodrive serve --config /etc/dittodrive/config.yaml

  # Start with environment variable overrides
  DITTODRIVE_LOGGING_LEVEL=DEBUG dittodrive serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Cancelling this context drives the graceful shutdown below.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "dittodrive",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "dittodrive",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	fmt.Println("DittoDrive - Cloud drive metadata server")
	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	} else {
		logger.Info("Profiling disabled")
	}

	// The registry must exist before the stores are built so their
	// instrumentation sees metrics.IsEnabled() == true.
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metricsServer = metrics.NewServer(metrics.ServerConfig{Port: cfg.Metrics.Port})
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	} else {
		logger.Info("Metrics collection disabled")
	}

	// Metadata store (runs auto-migration on startup)
	driveStore, err := config.CreateStore(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize metadata store: %w", err)
	}
	defer func() { _ = driveStore.Close() }()
	logger.Info("Metadata store ready", "type", cfg.Database.Type)

	// Object store holding file payloads
	blobs, err := config.CreateBlobStore(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}
	logger.Info("Blob store ready", "type", cfg.Blob.Type)

	// Listing query cache
	queryCache, err := config.CreateQueryCache(cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to initialize query cache: %w", err)
	}
	defer func() { _ = queryCache.Close() }()
	logger.Info("Query cache ready", "backend", cfg.Cache.Backend, "ttl", cfg.Cache.TTL)

	// Domain services
	accessSvc := access.New(driveStore)
	driveSvc := lifecycle.New(driveStore, accessSvc, queryCache, blobs)
	shareSvc := sharing.New(driveStore, accessSvc, blobs, cfg.Sharing)

	// REST API server
	apiServer, err := api.NewServer(cfg.Server, cfg.Auth, api.Services{
		Drive:  driveSvc,
		Access: accessSvc,
		Shares: shareSvc,
	}, driveStore, blobs)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}
	logger.Info("API server configured", "port", cfg.Server.Port)

	// Start servers in the background
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(ctx)
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				logger.Error("Metrics server error", "error", err)
			}
		}()
	}

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		// Wait for the server to drain, bounded by the shutdown timeout
		select {
		case err := <-serverDone:
			if err != nil {
				logger.Error("Server shutdown error", "error", err)
				return err
			}
		case <-time.After(cfg.ShutdownTimeout):
			return fmt.Errorf("graceful shutdown timed out after %s", cfg.ShutdownTimeout)
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		cancel()
		if err != nil {
			logger.Error("Server error", "error", err)
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}

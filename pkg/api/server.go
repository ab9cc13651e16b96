// Package api exposes the drive over a REST API: folders, files, listings,
// trash, grants, share links and the activity feed, plus unauthenticated
// health probes.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/api/auth"
	"github.com/marmos91/dittodrive/pkg/api/handlers"
	"github.com/marmos91/dittodrive/pkg/blob"
)

// Server provides the HTTP server for the REST API.
//
// The server is created in a stopped state; Start() begins serving and blocks
// until the context is cancelled. Shutdown is graceful with a bounded drain.
type Server struct {
	server       *http.Server
	tokens       *auth.TokenService
	config       Config
	shutdownOnce sync.Once
}

// NewServer creates a new API HTTP server.
//
// The token service is created internally from authConfig. The JWT secret
// must be at least 32 characters, configured via authConfig.Secret or the
// DITTODRIVE_JWT_SECRET environment variable.
//
// Parameters:
//   - config: HTTP server configuration (port, timeouts)
//   - authConfig: bearer token validation settings
//   - svc: the domain services the API exposes
//   - store: metadata store surface for the readiness probe
//   - blobs: blob backend, probed for readiness when it supports healthchecks
//
// Returns a configured but not yet started Server, or an error if the token
// configuration is invalid.
func NewServer(config Config, authConfig auth.Config, svc Services, store handlers.Pinger, blobs blob.Store) (*Server, error) {
	config.ApplyDefaults()

	// Resolve the secret here so the env var wins over the config file.
	secret := authConfig.GetSecret()
	if len(secret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters; set via %s env var or config", auth.EnvJWTSecret)
	}

	tokens, err := auth.NewTokenService(auth.Config{
		Secret:        secret,
		Issuer:        authConfig.Issuer,
		TokenDuration: authConfig.TokenDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	router := NewRouter(svc, tokens, store, blobs, config.RequestTimeout)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		server: server,
		tokens: tokens,
		config: config,
	}, nil
}

// Start serves until ctx is cancelled or the listener fails. Cancellation
// triggers a graceful shutdown bounded at five seconds; a nil return means
// the server drained cleanly.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "port", s.config.Port)
		logger.Debug("API endpoints available",
			"health", fmt.Sprintf("http://localhost:%d/health", s.config.Port),
			"ready", fmt.Sprintf("http://localhost:%d/health/ready", s.config.Port),
			"api", fmt.Sprintf("http://localhost:%d/api/v1", s.config.Port),
		)
		err := s.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("API server shutdown signal received")
		// The incoming ctx is already cancelled; drain on a fresh one.
		drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(drainCtx)
	case err := <-errChan:
		return fmt.Errorf("API server failed: %w", err)
	}
}

// Stop drains in-flight requests. Safe to call more than once and
// concurrently with Start.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("API server shutdown initiated")
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
			logger.Error("API server shutdown error", "error", err)
		} else {
			logger.Info("API server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port reports the configured listen port.
func (s *Server) Port() int {
	return s.config.Port
}

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/internal/telemetry"
	"github.com/marmos91/dittodrive/pkg/api/auth"
	"github.com/marmos91/dittodrive/pkg/api/handlers"
	apiMiddleware "github.com/marmos91/dittodrive/pkg/api/middleware"
	"github.com/marmos91/dittodrive/pkg/blob"
	"github.com/marmos91/dittodrive/pkg/metrics"
	"github.com/marmos91/dittodrive/pkg/drive/access"
	"github.com/marmos91/dittodrive/pkg/drive/lifecycle"
	"github.com/marmos91/dittodrive/pkg/drive/sharing"
)

// Services bundles the domain services the API exposes.
type Services struct {
	// Drive handles node lifecycle: create, list, search, rename, move,
	// trash, restore, purge and the activity feed.
	Drive *lifecycle.Service

	// Access manages sharing grants.
	Access *access.Service

	// Shares issues signed download links.
	Shares *sharing.Service
}

// NewRouter assembles the chi router: request id and client IP extraction,
// metrics, tracing, structured request logging, panic recovery and a
// per-request timeout, in that order.
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - POST /api/v1/folders - Create a folder
//   - POST /api/v1/files - Upload a file (multipart)
//   - GET /api/v1/nodes - List folder contents
//   - GET /api/v1/nodes/search - Search by name
//   - GET /api/v1/nodes/{id} - Node details
//   - PATCH /api/v1/nodes/{id} - Rename or move
//   - DELETE /api/v1/nodes/{id} - Move to trash
//   - POST /api/v1/nodes/{id}/grants - Set a grant
//   - GET /api/v1/nodes/{id}/grants - List grants
//   - DELETE /api/v1/nodes/{id}/grants/{granteeID} - Revoke a grant
//   - POST /api/v1/nodes/{id}/share - Create a signed download link
//   - GET /api/v1/trash - List trash
//   - POST /api/v1/trash/{id}/restore - Restore from trash
//   - DELETE /api/v1/trash/{id} - Purge permanently
//   - GET /api/v1/activity - Activity feed
//
// All /api/v1 routes require a bearer token.
func NewRouter(svc Services, tokens *auth.TokenService, store handlers.Pinger, blobs blob.Store, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	// Order matters: metrics and tracing wrap logging, recovery wraps the timeout.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metrics.HTTPMiddleware())
	r.Use(requestTracer)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	// Probes stay unauthenticated.
	healthHandler := handlers.NewHealthHandler(store, blobs)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	nodeHandler := handlers.NewNodeHandler(svc.Drive)
	trashHandler := handlers.NewTrashHandler(svc.Drive)
	grantHandler := handlers.NewGrantHandler(svc.Access)
	shareHandler := handlers.NewShareHandler(svc.Shares)
	activityHandler := handlers.NewActivityHandler(svc.Drive)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiMiddleware.Auth(tokens))

		r.Post("/folders", nodeHandler.CreateFolder)
		r.Post("/files", nodeHandler.UploadFile)

		r.Route("/nodes", func(r chi.Router) {
			r.Get("/", nodeHandler.List)
			r.Get("/search", nodeHandler.Search)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", nodeHandler.Get)
				r.Patch("/", nodeHandler.Update)
				r.Delete("/", nodeHandler.Delete)

				r.Route("/grants", func(r chi.Router) {
					r.Post("/", grantHandler.Set)
					r.Get("/", grantHandler.List)
					r.Delete("/{granteeID}", grantHandler.Revoke)
				})

				r.Post("/share", shareHandler.Create)
			})
		})

		r.Route("/trash", func(r chi.Router) {
			r.Get("/", trashHandler.List)
			r.Post("/{id}/restore", trashHandler.Restore)
			r.Delete("/{id}", trashHandler.Purge)
		})

		r.Get("/activity", activityHandler.List)
	})

	return r
}

// isHealthPath reports whether path targets a probe endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// requestTracer starts a span per API request. Downstream operations (store,
// cache, blob) attach their spans to it through the request context.
// Healthcheck requests are not traced.
func requestTracer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isHealthPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ctx, span := telemetry.StartSpan(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithAttributes(telemetry.ClientAddr(r.RemoteAddr)))
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger installs a request-scoped LogContext (request id, client IP)
// that the auth middleware and domain services enrich, then logs the request
// start at DEBUG and its completion at INFO with status, bytes and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		lc := logger.NewLogContext(r.RemoteAddr).WithRequestID(requestID)
		ctx := logger.WithContext(r.Context(), lc)

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		duration := time.Since(start)

		logArgs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		}

		// Probe traffic logs at DEBUG so liveness polling does not flood INFO.
		if isHealthPath(r.URL.Path) {
			logger.Debug("API request completed", logArgs...)
		} else {
			logger.Info("API request completed", logArgs...)
		}
	})
}

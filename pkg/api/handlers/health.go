package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/marmos91/dittodrive/pkg/blob"
)

// Pinger is the store surface the readiness probe depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker is implemented by blob backends that can verify connectivity.
type Checker interface {
	Healthcheck(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and provide:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Can the server reach its store and blob backend?
type HealthHandler struct {
	store Pinger
	blobs blob.Store
}

// NewHealthHandler creates a new health handler.
//
// store and blobs may be nil, in which case readiness reports unhealthy.
func NewHealthHandler(store Pinger, blobs blob.Store) *HealthHandler {
	return &HealthHandler{store: store, blobs: blobs}
}

// Liveness handles GET /health - simple liveness probe.
//
// Returns 200 OK if the server process is running. This endpoint is designed
// for Kubernetes liveness probes and should always succeed as long as the
// HTTP server is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "dittodrive",
	}))
}

// Readiness handles GET /health/ready - readiness probe.
//
// Returns 200 OK when the metadata store answers a ping and the blob backend,
// if it exposes a healthcheck, is reachable. Returns 503 Service Unavailable
// otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.store == nil || h.blobs == nil {
		WriteJSON(w, http.StatusServiceUnavailable, unhealthyResponse("server not fully initialized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, unhealthyResponse("store unreachable: "+err.Error()))
		return
	}

	blobStatus := "unchecked"
	if checker, ok := h.blobs.(Checker); ok {
		if err := checker.Healthcheck(ctx); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, unhealthyResponse("blob backend unreachable: "+err.Error()))
			return
		}
		blobStatus = "healthy"
	}

	WriteJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"store": "healthy",
		"blobs": blobStatus,
	}))
}

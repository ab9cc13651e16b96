package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/dittodrive/pkg/api/auth"
	"github.com/marmos91/dittodrive/pkg/drive/sharing"
)

// ShareHandler handles share link endpoints.
type ShareHandler struct {
	shares *sharing.Service
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(shares *sharing.Service) *ShareHandler {
	return &ShareHandler{shares: shares}
}

// CreateLinkRequest is the request body for POST /api/v1/nodes/{id}/share.
type CreateLinkRequest struct {
	// TTLSeconds is the link lifetime in seconds. Zero or absent means the
	// configured default.
	TTLSeconds int64 `json:"ttl_seconds,omitempty"`
}

// Create handles POST /api/v1/nodes/{id}/share.
// Returns a signed, time-limited download link for the node. The body is
// optional; an empty body requests the default lifetime.
func (h *ShareHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if r.ContentLength != 0 {
		if !decodeJSONBody(w, r, &req) {
			return
		}
	}

	principal := auth.PrincipalFromContext(r.Context())
	link, err := h.shares.CreateLink(r.Context(), principal, chi.URLParam(r, "id"), time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSONCreated(w, link)
}

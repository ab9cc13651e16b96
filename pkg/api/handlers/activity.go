package handlers

import (
	"net/http"

	"github.com/marmos91/dittodrive/pkg/api/auth"
	"github.com/marmos91/dittodrive/pkg/drive/lifecycle"
)

// ActivityHandler serves the caller's activity feed.
type ActivityHandler struct {
	drive *lifecycle.Service
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(drive *lifecycle.Service) *ActivityHandler {
	return &ActivityHandler{drive: drive}
}

// List handles GET /api/v1/activity.
// Returns the caller's recorded actions, most recent first.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	result, err := h.drive.Activity(r.Context(), principal, pageFromQuery(r))
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSONOK(w, result)
}

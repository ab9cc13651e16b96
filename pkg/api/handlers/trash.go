package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/dittodrive/pkg/api/auth"
	"github.com/marmos91/dittodrive/pkg/drive/lifecycle"
)

// TrashHandler handles trash listing, restore and purge endpoints.
type TrashHandler struct {
	drive *lifecycle.Service
}

// NewTrashHandler creates a new TrashHandler.
func NewTrashHandler(drive *lifecycle.Service) *TrashHandler {
	return &TrashHandler{drive: drive}
}

// List handles GET /api/v1/trash.
// Lists the caller's trashed nodes, most recently deleted first.
func (h *TrashHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	result, err := h.drive.ListTrash(r.Context(), principal, pageFromQuery(r))
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSONOK(w, result)
}

// Restore handles POST /api/v1/trash/{id}/restore.
// Brings the node back to its original path and returns it.
func (h *TrashHandler) Restore(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	nodeID := chi.URLParam(r, "id")

	if err := h.drive.Restore(r.Context(), principal, nodeID); err != nil {
		WriteFault(w, err)
		return
	}

	node, err := h.drive.Get(r.Context(), principal, nodeID)
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSONOK(w, node)
}

// Purge handles DELETE /api/v1/trash/{id}.
// Permanently removes the node and its backing object.
func (h *TrashHandler) Purge(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if err := h.drive.Purge(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		WriteFault(w, err)
		return
	}

	WriteNoContent(w)
}

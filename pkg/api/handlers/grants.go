package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/dittodrive/pkg/api/auth"
	"github.com/marmos91/dittodrive/pkg/drive/access"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// GrantHandler handles node sharing grants. All operations are owner-only;
// the access service enforces that.
type GrantHandler struct {
	access *access.Service
}

// NewGrantHandler creates a new GrantHandler.
func NewGrantHandler(access *access.Service) *GrantHandler {
	return &GrantHandler{access: access}
}

// SetGrantRequest is the request body for POST /api/v1/nodes/{id}/grants.
type SetGrantRequest struct {
	GranteeID string `json:"grantee_id"`
	Role      string `json:"role"`
}

// Set handles POST /api/v1/nodes/{id}/grants.
// Creates or updates the grantee's role on the node.
func (h *GrantHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetGrantRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	grant, err := h.access.Grant(r.Context(), principal, chi.URLParam(r, "id"), req.GranteeID, models.Role(req.Role))
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSONOK(w, grant)
}

// List handles GET /api/v1/nodes/{id}/grants.
func (h *GrantHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	grants, err := h.access.ListGrants(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSONOK(w, grants)
}

// Revoke handles DELETE /api/v1/nodes/{id}/grants/{granteeID}.
func (h *GrantHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if err := h.access.Revoke(r.Context(), principal, chi.URLParam(r, "id"), chi.URLParam(r, "granteeID")); err != nil {
		WriteFault(w, err)
		return
	}

	WriteNoContent(w)
}

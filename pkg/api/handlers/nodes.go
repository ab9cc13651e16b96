package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/dittodrive/pkg/api/auth"
	"github.com/marmos91/dittodrive/pkg/drive/lifecycle"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing; larger
// file parts spill to temporary files.
const maxUploadMemory = 32 << 20

// NodeHandler handles folder, file and node endpoints.
type NodeHandler struct {
	drive *lifecycle.Service
}

// NewNodeHandler creates a new NodeHandler.
func NewNodeHandler(drive *lifecycle.Service) *NodeHandler {
	return &NodeHandler{drive: drive}
}

// CreateFolderRequest is the request body for POST /api/v1/folders.
type CreateFolderRequest struct {
	Name       string `json:"name"`
	ParentPath string `json:"parent_path,omitempty"`
}

// UpdateNodeRequest is the request body for PATCH /api/v1/nodes/{id}.
// Exactly one of Name (rename) or ParentPath (move) must be set.
type UpdateNodeRequest struct {
	Name       *string `json:"name,omitempty"`
	ParentPath *string `json:"parent_path,omitempty"`
}

// CreateFolder handles POST /api/v1/folders.
// Creates a folder under parent_path (the drive root when empty).
func (h *NodeHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	node, err := h.drive.CreateFolder(r.Context(), principal, req.ParentPath, req.Name)
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSONCreated(w, node)
}

// UploadFile handles POST /api/v1/files.
//
// The request is multipart/form-data with a "file" part carrying the content
// and an optional "parent_path" field naming the destination folder. The
// node name is the uploaded filename.
func (h *NodeHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		BadRequest(w, "Invalid multipart request")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		BadRequest(w, `A "file" part is required`)
		return
	}
	defer file.Close()

	principal := auth.PrincipalFromContext(r.Context())
	node, err := h.drive.CreateFile(r.Context(), principal,
		r.FormValue("parent_path"),
		header.Filename,
		file,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSONCreated(w, node)
}

// List handles GET /api/v1/nodes.
// Lists the caller's live nodes under ?parent_path= (the root when absent).
func (h *NodeHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	result, err := h.drive.List(r.Context(), principal, r.URL.Query().Get("parent_path"), pageFromQuery(r))
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSONOK(w, result)
}

// Search handles GET /api/v1/nodes/search.
// Searches the caller's live nodes by name substring (?q=).
func (h *NodeHandler) Search(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	result, err := h.drive.Search(r.Context(), principal, r.URL.Query().Get("q"), pageFromQuery(r))
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSONOK(w, result)
}

// Get handles GET /api/v1/nodes/{id}.
func (h *NodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	node, err := h.drive.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSONOK(w, node)
}

// Update handles PATCH /api/v1/nodes/{id}.
//
// {"name": ...} renames the node, {"parent_path": ...} moves it. Rename and
// move are separate operations, so the two fields are mutually exclusive.
func (h *NodeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateNodeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Name == nil && req.ParentPath == nil {
		BadRequest(w, `Provide "name" to rename or "parent_path" to move`)
		return
	}
	if req.Name != nil && req.ParentPath != nil {
		BadRequest(w, `"name" and "parent_path" are mutually exclusive`)
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	nodeID := chi.URLParam(r, "id")

	var (
		node *models.Node
		err  error
	)
	if req.Name != nil {
		node, err = h.drive.Rename(r.Context(), principal, nodeID, *req.Name)
	} else {
		node, err = h.drive.Move(r.Context(), principal, nodeID, *req.ParentPath)
	}
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSONOK(w, node)
}

// Delete handles DELETE /api/v1/nodes/{id} - moves the node to the trash.
func (h *NodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if err := h.drive.SoftDelete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		WriteFault(w, err)
		return
	}

	WriteNoContent(w)
}

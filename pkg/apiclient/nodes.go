package apiclient

import (
	"io"
	"time"
)

// Node is a file or folder in the drive.
type Node struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner_id"`
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	Kind       string     `json:"kind"`
	ParentPath string     `json:"parent_path"`
	IsDeleted  bool       `json:"is_deleted"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	Size       int64      `json:"size"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsFolder returns true if the node is a folder.
func (n *Node) IsFolder() bool {
	return n.Kind == "folder"
}

// Page is one page of results together with pagination totals.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
}

// CreateFolderRequest is the request to create a folder.
type CreateFolderRequest struct {
	Name       string `json:"name"`
	ParentPath string `json:"parent_path,omitempty"`
}

// UpdateNodeRequest renames or moves a node. Exactly one field is set.
type UpdateNodeRequest struct {
	Name       *string `json:"name,omitempty"`
	ParentPath *string `json:"parent_path,omitempty"`
}

// ListNodes returns one page of the caller's live nodes under parentPath.
// An empty parentPath lists the drive root. Zero page values mean server
// defaults.
func (c *Client) ListNodes(parentPath string, page, pageSize int) (*Page[Node], error) {
	q := pageQuery(page, pageSize)
	if parentPath != "" {
		q.Set("parent_path", parentPath)
	}
	return listPage[Node](c, withQuery("/api/v1/nodes", q))
}

// SearchNodes returns live nodes whose name contains the query, across all
// folders the caller owns or was granted.
func (c *Client) SearchNodes(query string, page, pageSize int) (*Page[Node], error) {
	q := pageQuery(page, pageSize)
	q.Set("q", query)
	return listPage[Node](c, withQuery("/api/v1/nodes/search", q))
}

// GetNode returns a node by id.
func (c *Client) GetNode(id string) (*Node, error) {
	return getResource[Node](c, resourcePath("/api/v1/nodes/%s", id))
}

// CreateFolder creates a folder under parentPath.
func (c *Client) CreateFolder(name, parentPath string) (*Node, error) {
	req := CreateFolderRequest{Name: name, ParentPath: parentPath}
	return createResource[Node](c, "/api/v1/folders", req)
}

// UploadFile uploads content as a new file under parentPath.
func (c *Client) UploadFile(parentPath, filename string, content io.Reader) (*Node, error) {
	fields := map[string]string{"parent_path": parentPath}
	var node Node
	if err := c.upload("/api/v1/files", fields, filename, content, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// RenameNode renames a node in place.
func (c *Client) RenameNode(id, name string) (*Node, error) {
	req := UpdateNodeRequest{Name: &name}
	return patchResource[Node](c, resourcePath("/api/v1/nodes/%s", id), req)
}

// MoveNode moves a node under a different parent folder.
func (c *Client) MoveNode(id, parentPath string) (*Node, error) {
	req := UpdateNodeRequest{ParentPath: &parentPath}
	return patchResource[Node](c, resourcePath("/api/v1/nodes/%s", id), req)
}

// DeleteNode moves a node to the trash. Only the owner may delete.
func (c *Client) DeleteNode(id string) error {
	return deleteResource(c, resourcePath("/api/v1/nodes/%s", id))
}

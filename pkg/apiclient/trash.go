package apiclient

import "fmt"

// ListTrash returns one page of the caller's trashed nodes, most recently
// deleted first.
func (c *Client) ListTrash(page, pageSize int) (*Page[Node], error) {
	return listPage[Node](c, withQuery("/api/v1/trash", pageQuery(page, pageSize)))
}

// RestoreNode brings a trashed node back to its original path and returns
// the restored node. Restoring fails with a conflict if a live node has
// taken the path in the meantime.
func (c *Client) RestoreNode(id string) (*Node, error) {
	var node Node
	if err := c.post(fmt.Sprintf("/api/v1/trash/%s/restore", id), nil, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// PurgeNode permanently removes a trashed node and its stored content.
// There is no way back after a purge.
func (c *Client) PurgeNode(id string) error {
	return deleteResource(c, resourcePath("/api/v1/trash/%s", id))
}

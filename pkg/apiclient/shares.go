package apiclient

import (
	"time"
)

// ShareLink is a signed download URL together with its expiry.
type ShareLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateShareLinkRequest is the request to create a share link.
type CreateShareLinkRequest struct {
	TTLSeconds int64 `json:"ttl_seconds,omitempty"`
}

// CreateShareLink issues a signed download link for a node. A zero ttl
// means the server's default lifetime.
func (c *Client) CreateShareLink(nodeID string, ttl time.Duration) (*ShareLink, error) {
	req := CreateShareLinkRequest{TTLSeconds: int64(ttl / time.Second)}
	return createResource[ShareLink](c, resourcePath("/api/v1/nodes/%s/share", nodeID), req)
}

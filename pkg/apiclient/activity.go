package apiclient

import "time"

// ActivityEntry is one row of the caller's activity feed.
type ActivityEntry struct {
	ID          string    `json:"id"`
	PrincipalID string    `json:"principal_id"`
	Action      string    `json:"action"`
	NodeID      string    `json:"node_id,omitempty"`
	Path        string    `json:"path,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListActivity returns one page of the caller's activity feed, most recent
// first.
func (c *Client) ListActivity(page, pageSize int) (*Page[ActivityEntry], error) {
	return listPage[ActivityEntry](c, withQuery("/api/v1/activity", pageQuery(page, pageSize)))
}

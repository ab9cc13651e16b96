package apiclient

import (
	"fmt"
	"time"
)

// Grant gives a principal a role on a single node.
type Grant struct {
	ID        string    `json:"id"`
	NodeID    string    `json:"node_id"`
	GranteeID string    `json:"grantee_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetGrantRequest is the request to grant or change a role.
type SetGrantRequest struct {
	GranteeID string `json:"grantee_id"`
	Role      string `json:"role"`
}

// SetGrant grants granteeID the given role on a node, or changes the role
// if a grant already exists. Only the node's owner may grant.
func (c *Client) SetGrant(nodeID, granteeID, role string) (*Grant, error) {
	req := SetGrantRequest{GranteeID: granteeID, Role: role}
	var grant Grant
	if err := c.post(fmt.Sprintf("/api/v1/nodes/%s/grants", nodeID), req, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// ListGrants returns all grants on a node.
func (c *Client) ListGrants(nodeID string) ([]Grant, error) {
	var grants []Grant
	if err := c.get(fmt.Sprintf("/api/v1/nodes/%s/grants", nodeID), &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

// RevokeGrant removes granteeID's grant on a node.
func (c *Client) RevokeGrant(nodeID, granteeID string) error {
	return c.delete(fmt.Sprintf("/api/v1/nodes/%s/grants/%s", nodeID, granteeID), nil)
}

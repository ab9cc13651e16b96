package models

import (
	"time"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
)

// Grant gives a principal a role on a single node.
//
// At most one grant exists per (node, grantee) pair; writing a grant for an
// existing pair updates the role in place. The node's owner needs no grant,
// ownership always implies the owner role.
type Grant struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	NodeID    string    `gorm:"not null;size:36;uniqueIndex:idx_grants_node_grantee" json:"node_id"`
	GranteeID string    `gorm:"not null;size:36;uniqueIndex:idx_grants_node_grantee" json:"grantee_id"`
	Role      string    `gorm:"not null;size:16" json:"role"` // viewer, editor, owner
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Grant.
func (Grant) TableName() string {
	return "grants"
}

// GetRole returns the grant's role as a Role type.
func (g *Grant) GetRole() Role {
	return Role(g.Role)
}

// Validate checks if the grant has valid configuration.
func (g *Grant) Validate() error {
	if g.NodeID == "" {
		return fault.InvalidInput("node id must not be empty")
	}
	if g.GranteeID == "" {
		return fault.InvalidInput("grantee id must not be empty")
	}
	if !g.GetRole().IsValid() {
		return fault.InvalidInput("role must be viewer, editor or owner")
	}
	return nil
}

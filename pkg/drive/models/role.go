package models

// Role represents the access level a principal has on a node.
//
// Roles are hierarchical:
//   - viewer: Read-only access (list, download, share links)
//   - editor: Viewer plus rename and move
//   - owner: Full access including trash, restore and grant management
type Role string

const (
	// RoleViewer allows reading node metadata and creating share links.
	RoleViewer Role = "viewer"

	// RoleEditor allows everything a viewer can do plus rename and move.
	RoleEditor Role = "editor"

	// RoleOwner allows full access including trash, restore and grants.
	RoleOwner Role = "owner"
)

// Level returns the numeric level of the role for comparison.
// Higher values indicate more permissive access.
//
// Returns:
//   - 0: invalid role
//   - 1: viewer
//   - 2: editor
//   - 3: owner
func (r Role) Level() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleEditor:
		return 2
	case RoleOwner:
		return 3
	default:
		return 0
	}
}

// Meets returns true if this role satisfies the required role.
func (r Role) Meets(required Role) bool {
	return r.Level() >= required.Level()
}

// CanView returns true if this role allows read access.
func (r Role) CanView() bool {
	return r.Meets(RoleViewer)
}

// CanEdit returns true if this role allows rename and move.
func (r Role) CanEdit() bool {
	return r.Meets(RoleEditor)
}

// CanManage returns true if this role allows trash, restore and grant
// management.
func (r Role) CanManage() bool {
	return r.Meets(RoleOwner)
}

// IsValid returns true if this is a valid role value.
func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleEditor, RoleOwner:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string to a Role.
// The boolean is false if the string is not a valid role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}

// MaxRole returns the higher of two roles.
func MaxRole(a, b Role) Role {
	if a.Level() > b.Level() {
		return a
	}
	return b
}

// AllRoles returns all valid roles for display and validation.
func AllRoles() []Role {
	return []Role{RoleViewer, RoleEditor, RoleOwner}
}

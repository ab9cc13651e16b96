package models

// Principal is the opaque identity making a request. Authentication happens
// upstream; by the time a request reaches the drive the principal is
// established and trusted.
//
// Principals are not persisted here. Node.OwnerID and Grant.GranteeID refer
// to Principal.ID values minted by the identity provider.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IsZero returns true if the principal carries no identity.
func (p Principal) IsZero() bool {
	return p.ID == ""
}

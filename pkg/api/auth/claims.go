// Package auth validates the bearer tokens that identify API callers.
//
// DittoDrive does not manage users or sessions. Identity is established
// upstream and arrives as a signed HS256 JWT whose subject is the principal
// id. This package checks signature, expiry and issuer and extracts the
// acting principal; Generate exists for tests and development tooling.
package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Claims are the JWT claims DittoDrive understands.
//
// The registered subject claim carries the principal id. Email is
// informational and only travels into activity records.
type Claims struct {
	jwt.RegisteredClaims

	// Email is the principal's email address.
	Email string `json:"email,omitempty"`
}

// Principal returns the principal described by the claims.
func (c *Claims) Principal() models.Principal {
	return models.Principal{
		ID:    c.Subject,
		Email: c.Email,
	}
}

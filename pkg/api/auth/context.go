package auth

import (
	"context"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// principalKey is the key for the authenticated principal in context.Context
var principalKey = contextKey{}

// WithPrincipal returns a new context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, principal models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext returns the authenticated principal, or the zero
// Principal when the request never passed authentication middleware.
// Domain services reject the zero principal, so handlers can pass it along
// without checking.
func PrincipalFromContext(ctx context.Context) models.Principal {
	principal, _ := ctx.Value(principalKey).(models.Principal)
	return principal
}

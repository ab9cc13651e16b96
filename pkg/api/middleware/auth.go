// Package middleware provides HTTP middleware for the DittoDrive API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/api/auth"
	"github.com/marmos91/dittodrive/pkg/api/handlers"
)

// extractBearerToken extracts the token from a Bearer Authorization header.
// Returns the token string and true if successful, or empty string and false if not.
func extractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	return parts[1], true
}

// Auth validates Bearer tokens in the Authorization header.
// On success the principal is stored in the request context and stamped onto
// the request's logging context. Missing or invalid tokens yield a 401
// problem response.
func Auth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractBearerToken(r)
			if !ok {
				handlers.Unauthorized(w, "Authorization header required")
				return
			}

			claims, err := tokens.Validate(tokenString)
			if err != nil {
				handlers.Unauthorized(w, "Invalid or expired token")
				return
			}

			principal := claims.Principal()
			ctx := auth.WithPrincipal(r.Context(), principal)
			if lc := logger.FromContext(ctx); lc != nil {
				ctx = logger.WithContext(ctx, lc.WithPrincipal(principal.ID))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const PrincipalKey contextKey = "principal"

// Principal identifies the authenticated caller.
type Principal struct {
	UserID    string
	SessionID string
}

// Authenticator resolves a bearer credential (JWT or opaque session token)
// into a live principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

// Auth returns middleware that resolves the Bearer credential and injects the
// principal into context. Malformed or unknown credentials yield 401, never a
// 5xx.
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, `{"message":"missing or invalid authorization header"}`, http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")
			principal, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				http.Error(w, `{"message":"invalid or expired session"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext extracts the authenticated principal from the request
// context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*Principal)
	return p, ok
}

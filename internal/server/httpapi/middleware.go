package httpapi

import (
	"context"
	"net/http"
	"strings"

	"dropwatch/internal/server/auth"
)

type ctxKey int

const identityKey ctxKey = iota

// identityFrom returns the authenticated identity stored by authenticate.
func identityFrom(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey).(*auth.Identity)
	return id
}

// authenticate verifies the bearer token and stores the embedded identity in
// the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Missing authorization token")
			return
		}

		identity, err := auth.GetIdentityFromToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole rejects authenticated requests whose role is not in the list.
func (s *Server) requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFrom(r.Context())
			if identity == nil {
				writeError(w, http.StatusUnauthorized, "Missing authorization token")
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "Access denied")
		})
	}
}

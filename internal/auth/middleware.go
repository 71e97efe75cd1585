package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const (
	// IdentityKey is the context key for the resolved identity record.
	IdentityKey = contextKey("identity")
	// ClaimsKey is the context key for the verified token claims.
	ClaimsKey = contextKey("claims")
)

// Resolver looks up a live identity by id in a single role store. The record
// it returns must already have the password hash stripped.
type Resolver func(ctx context.Context, subjectID string) (interface{}, error)

// unauthorized writes the one response body every guard failure shares, so a
// caller cannot tell a malformed token from an expired one or an unknown
// subject.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"Unauthorized Access"}`))
}

// RequireRole creates a middleware gating routes behind a role-scoped bearer
// token check. The token subject is resolved against the single store the
// guard is bound to via resolve; a token issued for any other role is
// rejected even when its subject id exists there. On success the resolved
// identity and claims are attached to the request context.
func (i *TokenIssuer) RequireRole(role Role, resolve Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) < 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w)
				return
			}

			claims, err := i.Verify(parts[1])
			if err != nil {
				unauthorized(w)
				return
			}
			if claims.Role != role {
				unauthorized(w)
				return
			}

			identity, err := resolve(r.Context(), claims.Subject)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSelf rejects requests whose token subject differs from the {id}
// path parameter. It runs after RequireRole on owner-only mutation routes.
func RequireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(ClaimsKey).(*Claims)
		if !ok || claims.Subject != chi.URLParam(r, "id") {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext returns the verified claims attached by RequireRole.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

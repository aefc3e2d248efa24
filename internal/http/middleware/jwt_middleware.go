package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campusclubs/clubhub/internal/http/response"
	"github.com/campusclubs/clubhub/pkg/auth"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// RequireJWT authenticates the bearer token and, when roles are given,
// additionally requires the token's role to be one of them.
func RequireJWT(secret string, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "Missing or invalid authorization header")
				return
			}

			claims, err := auth.Parse(strings.TrimPrefix(authz, "Bearer "), secret)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired session token")
				return
			}

			if len(roles) > 0 && !hasRole(claims.Role, roles) {
				response.Forbidden(w, "Insufficient role")
				return
			}

			ctx := context.WithValue(r.Context(), CtxClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func hasRole(role string, allowed []string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Claims returns the authenticated claims, or nil outside RequireJWT.
func Claims(r *http.Request) *auth.Claims {
	v := r.Context().Value(CtxClaims)
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}

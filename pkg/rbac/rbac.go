// Package rbac restricts routes to user levels.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/kasir/pkg/apperr"
	"github.com/shashiranjanraj/kasir/pkg/middleware"
	"github.com/shashiranjanraj/kasir/pkg/response"
)

// HasRole allows only callers whose role is one of roles. It must run after
// middleware.Authenticate.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}
			if !allowed[role] {
				response.Error(w, apperr.Forbidden, "You are not allowed to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

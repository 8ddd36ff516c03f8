package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/pkg/apperr"
	"github.com/shashiranjanraj/kasir/pkg/auth"
	"github.com/shashiranjanraj/kasir/pkg/logger"
	"github.com/shashiranjanraj/kasir/pkg/response"
)

// Resolver maps a session token to the caller's identity. It returns an
// Unauthorized error for invalid, expired or revoked tokens.
type Resolver func(ctx context.Context, token string) (auth.Identity, error)

// Authenticate rejects requests without a valid session and stores the
// resolved identity in the request context. The token is read from the
// session cookie first, then from an "Authorization: Bearer" header.
func Authenticate(resolve Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			id, err := resolve(r.Context(), token)
			if err != nil {
				kind := apperr.KindOf(err)
				if kind == apperr.Internal {
					logger.WithCtx(r.Context()).Error("auth: resolve session", "error", err)
				}
				response.Error(w, kind, apperr.PublicMessage(err))
				return
			}

			log := logger.WithCtx(r.Context()).With("user_id", id.UserID)
			ctx := logger.InjectLogger(auth.WithIdentity(r.Context(), id), log)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts the raw session token, or "".
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(config.SessionCookie()); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// UserIDFromCtx returns the authenticated user id of r.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := auth.IdentityFromCtx(r.Context())
	return id.UserID, ok
}

// RoleFromCtx returns the authenticated role of r.
func RoleFromCtx(r *http.Request) (string, bool) {
	id, ok := auth.IdentityFromCtx(r.Context())
	return id.Role, ok
}

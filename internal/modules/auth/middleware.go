package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/httpx"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"go.uber.org/zap"
)

type claimsKey struct{}

// ClaimsFromContext returns the verified token claims of the request.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

// Authenticate requires a valid bearer token and places the caller on the context.
func Authenticate(svc Service, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				httpx.Error(w, r, log, apperr.Unauthorized("Authentication required."))
				return
			}

			claims, err := svc.ParseToken(r.Context(), strings.TrimSpace(token))
			if err != nil {
				httpx.Error(w, r, log, err)
				return
			}
			actor, err := claims.Actor()
			if err != nil {
				httpx.Error(w, r, log, apperr.Unauthorized("Invalid token."))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			ctx = identity.WithActor(ctx, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(log *zap.Logger, roles ...identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := httpx.Actor(r)
			if err != nil {
				httpx.Error(w, r, log, err)
				return
			}
			if err := actor.Require(roles...); err != nil {
				httpx.Error(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

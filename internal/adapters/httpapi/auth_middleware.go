package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/session"
)

// DebugUserIDHeader selects the caller when the dev auth middleware is installed.
const DebugUserIDHeader = "X-Debug-User-Id"

// TokenVerifier checks a bearer token and returns its verified claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (session.Claims, error)
}

// NewAuthMiddleware enforces Authorization: Bearer <JWT> on every route but /healthz.
//
// The caller's identity is resolved from the verified payload through the
// session claim chains and stored in the request context.
func NewAuthMiddleware(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeError(w, r, http.StatusUnauthorized, CodeUnauthorized, "missing Authorization header", nil)
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				writeError(w, r, http.StatusUnauthorized, CodeUnauthorized, "malformed Authorization header", nil)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				writeError(w, r, http.StatusUnauthorized, CodeUnauthorized, "missing bearer token", nil)
				return
			}

			claims, err := v.Verify(r.Context(), raw)
			if err != nil {
				log.Debug().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("bearer token rejected")
				writeError(w, r, http.StatusUnauthorized, CodeUnauthorized, "invalid token", nil)
				return
			}
			uid, ok := claims.UserID()
			if !ok || uid == 0 {
				writeError(w, r, http.StatusUnauthorized, CodeUnauthorized, "token carries no user id", nil)
				return
			}
			email, _ := claims.Email()

			id := Identity{UserID: domain.UserID(uid), Email: email}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// NewDevAuthMiddleware is a local/dev-only auth shim.
//
// It takes the caller's numeric user id from X-Debug-User-Id and falls back to
// defaultUserID when the header is absent. A zero default makes the header
// mandatory. Do NOT use this in production deployments.
func NewDevAuthMiddleware(defaultUserID domain.UserID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			uid := defaultUserID
			if h := strings.TrimSpace(r.Header.Get(DebugUserIDHeader)); h != "" {
				n, err := strconv.ParseInt(h, 10, 64)
				if err != nil || n == 0 {
					writeError(w, r, http.StatusUnauthorized, CodeUnauthorized, "malformed "+DebugUserIDHeader, nil)
					return
				}
				uid = domain.UserID(n)
			}
			if uid == 0 {
				writeError(w, r, http.StatusUnauthorized, CodeUnauthorized, "missing user (set "+DebugUserIDHeader+")", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), Identity{UserID: uid})))
		})
	}
}

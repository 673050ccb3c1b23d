package handler

import (
	"net/http"
	"strings"

	"github.com/atelierhq/studio-bfa-go/internal/infra/auth"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminKeyHeader carries the operator key for batch write routes.
const AdminKeyHeader = "X-Admin-Key"

// ForwardBearerMiddleware stores the caller's bearer token on the request
// context so backend calls can be made on the user's behalf.
func ForwardBearerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && strings.TrimSpace(parts[1]) != "" {
			r = r.WithContext(auth.WithBearer(r.Context(), strings.TrimSpace(parts[1])))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireBearerMiddleware rejects requests that carry no bearer token.
// Routes behind it always call the backend with the caller's own rights.
func RequireBearerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.BearerFromContext(r.Context()) == "" {
			writeError(w, http.StatusUnauthorized, "bearer token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminKeyMiddleware guards a route with X-Admin-Key checked against a bcrypt
// hash. With no hash configured the route is disabled. An accepted request
// may use the service credentials.
func AdminKeyMiddleware(hash string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hash == "" {
				writeError(w, http.StatusServiceUnavailable, "admin routes are disabled")
				return
			}

			key := r.Header.Get(AdminKeyHeader)
			if key == "" {
				logger.Warn("admin: missing key",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "admin key required")
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
				logger.Warn("admin: invalid key",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusForbidden, "invalid admin key")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.AsService(r.Context())))
		})
	}
}

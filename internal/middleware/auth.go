// Package middleware contains HTTP middleware for the Snagbook server.
//
// Middleware functions follow the standard Go pattern of wrapping http.Handler.
// They are designed to be composed using a middleware stack approach.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mwhitfield/snagbook/internal/auth"
)

// =============================================================================
// API Authentication
// =============================================================================

// AuthMiddleware enforces HTTP basic auth against the configured operator
// credentials on every wrapped route.
type AuthMiddleware struct {
	verifier *auth.Verifier
	logger   *slog.Logger
}

// NewAuthMiddleware creates the basic-auth middleware.
func NewAuthMiddleware(verifier *auth.Verifier, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// Handler returns middleware that rejects requests without valid
// credentials. Failures never say which of the two fields was wrong.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			m.unauthorized(w)
			return
		}

		if err := m.verifier.Verify(user, pass); err != nil {
			m.logger.Warn("rejected request with bad credentials",
				"path", r.URL.Path,
				"ip", getClientIP(r),
			)
			m.unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// unauthorized sends a 401 response with WWW-Authenticate header.
func (m *AuthMiddleware) unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="snagbook"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// Package middleware provides HTTP middleware for the platform API.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/flowmatic-labs/platform/internal/app/domain/user"
	"github.com/flowmatic-labs/platform/pkg/logger"
)

type contextKey string

const (
	userKey    contextKey = "authenticated-user"
	sessionKey contextKey = "authenticated-session"
)

// Authenticator validates a bearer token and resolves it to the account and
// session it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (user.User, user.Session, error)
}

// AuthMiddleware authenticates requests with a bearer token.
type AuthMiddleware struct {
	auth Authenticator
	log  *logger.Logger
}

// NewAuthMiddleware creates the authentication middleware.
func NewAuthMiddleware(auth Authenticator, log *logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.NewDefault("auth-middleware")
	}
	return &AuthMiddleware{auth: auth, log: log}
}

// Handler rejects requests without a valid bearer token and stores the
// authenticated user in the request context.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w, "missing Authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(w, "invalid Authorization header format")
			return
		}

		u, sess, err := m.auth.Authenticate(r.Context(), parts[1])
		if err != nil {
			m.log.WithError(err).
				WithField("path", r.URL.Path).
				Warn("authentication failed")
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := WithUser(r.Context(), u)
		ctx = WithSession(ctx, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom returns the authenticated user stored in the context.
func UserFrom(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userKey).(user.User)
	return u, ok
}

// WithSession stores the authenticated session in the context.
func WithSession(ctx context.Context, s user.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom returns the session the request authenticated with.
func SessionFrom(ctx context.Context) (user.Session, bool) {
	s, ok := ctx.Value(sessionKey).(user.Session)
	return s, ok
}

// RequireAdmin rejects requests whose authenticated user is not an admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFrom(r.Context())
		if !ok {
			unauthorized(w, "authentication required")
			return
		}
		if !u.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeJSONError(w, http.StatusUnauthorized, msg)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

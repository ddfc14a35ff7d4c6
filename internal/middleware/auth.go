// file: internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/config"
	"github.com/githubscientist/jp-backend/internal/contextutils"
	"github.com/githubscientist/jp-backend/internal/response"
	"github.com/githubscientist/jp-backend/internal/services"
)

// Auth guards routes behind the session cookie.
type Auth struct {
	auth   services.AuthService
	config *config.AuthConfig
	logger *zap.Logger
}

// NewAuth creates the auth middleware
func NewAuth(auth services.AuthService, cfg *config.AuthConfig, logger *zap.Logger) *Auth {
	return &Auth{auth: auth, config: cfg, logger: logger}
}

// token reads the session token from the cookie, falling back to a
// bearer header for non-browser clients.
func (a *Auth) token(r *http.Request) string {
	if cookie, err := r.Cookie(a.config.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func (a *Auth) resolveUser(r *http.Request) (*http.Request, error) {
	token := a.token(r)
	if token == "" {
		return nil, services.NewAuthError("authentication required")
	}

	userID, err := a.auth.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := a.auth.GetSessionUser(r.Context(), userID)
	if err != nil {
		return nil, err
	}

	return r.WithContext(contextutils.WithUser(r.Context(), user)), nil
}

// Protect rejects requests without a valid session.
func (a *Auth) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed, err := a.resolveUser(r)
		if err != nil {
			response.GetBuilder(r.Context()).Error(w, r, err)
			return
		}
		next.ServeHTTP(w, authed)
	})
}

// Optional attaches the user when a valid session is present but lets
// anonymous requests through.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authed, err := a.resolveUser(r); err == nil {
			r = authed
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles rejects authenticated users whose role is not listed.
// It must run after Protect.
func (a *Auth) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := contextutils.GetUser(r.Context())
			if user == nil {
				response.GetBuilder(r.Context()).Error(w, r,
					services.NewAuthError("authentication required"))
				return
			}
			if !allowed[user.Role] {
				response.GetBuilder(r.Context()).Error(w, r,
					services.NewForbiddenError("insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

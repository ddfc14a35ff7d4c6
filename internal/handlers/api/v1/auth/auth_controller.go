// file: internal/handlers/api/v1/auth/auth_controller.go
package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/config"
	"github.com/githubscientist/jp-backend/internal/contextutils"
	"github.com/githubscientist/jp-backend/internal/response"
	"github.com/githubscientist/jp-backend/internal/services"
)

type AuthController struct {
	services *services.ServiceCollection
	config   *config.AuthConfig
	logger   *zap.Logger
	builder  *response.Builder
}

// NewAuthController creates a new auth controller
func NewAuthController(services *services.ServiceCollection, cfg *config.AuthConfig, logger *zap.Logger, builder *response.Builder) *AuthController {
	return &AuthController{
		services: services,
		config:   cfg,
		logger:   logger,
		builder:  builder,
	}
}

func (c *AuthController) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.config.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.config.TokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   c.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *AuthController) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register handles POST /api/auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	user, token, err := c.services.Auth.Register(r.Context(), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}

	c.setSessionCookie(w, token)
	c.builder.Created(w, r, "registration successful", response.Envelope{"user": user})
}

// Login handles POST /api/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	user, token, err := c.services.Auth.Login(r.Context(), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}

	c.setSessionCookie(w, token)
	c.builder.SuccessMessage(w, r, "login successful", response.Envelope{"user": user})
}

// Logout handles POST /api/auth/logout
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c.clearSessionCookie(w)
	c.builder.SuccessMessage(w, r, "logged out", nil)
}

// Me handles GET /api/auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user := contextutils.GetUser(r.Context())
	if user == nil {
		c.builder.Error(w, r, services.NewAuthError("authentication required"))
		return
	}
	c.builder.Success(w, r, response.Envelope{"user": user})
}

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/config"
	"github.com/githubscientist/jp-backend/internal/contextutils"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/response"
	"github.com/githubscientist/jp-backend/internal/services"
)

// mockAuthService is a simplified mock implementation for testing.
type mockAuthService struct {
	registerFn func(ctx context.Context, req *services.RegisterRequest) (*models.User, string, error)
	loginFn    func(ctx context.Context, req *services.LoginRequest) (*models.User, string, error)
}

func (m *mockAuthService) Register(ctx context.Context, req *services.RegisterRequest) (*models.User, string, error) {
	return m.registerFn(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req *services.LoginRequest) (*models.User, string, error) {
	return m.loginFn(ctx, req)
}

func (m *mockAuthService) VerifyToken(token string) (int64, error) {
	panic("not used")
}

func (m *mockAuthService) GetSessionUser(ctx context.Context, id int64) (*models.User, error) {
	panic("not used")
}

func newTestController(auth services.AuthService) *AuthController {
	cfg := &config.AuthConfig{
		CookieName:  "token",
		TokenExpiry: time.Hour,
	}
	builder := response.NewBuilder(zap.NewNop())
	return NewAuthController(&services.ServiceCollection{Auth: auth}, cfg, zap.NewNop(), builder)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	return nil
}

func TestRegisterSetsSessionCookie(t *testing.T) {
	service := &mockAuthService{
		registerFn: func(ctx context.Context, req *services.RegisterRequest) (*models.User, string, error) {
			return &models.User{ID: 1, Name: req.Name, Email: req.Email}, "issued-token", nil
		},
	}
	controller := newTestController(service)

	payload := `{"name":"Jane","email":"jane@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	controller.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie, "a session cookie should be set")
	assert.Equal(t, "issued-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "registration successful", body["message"])
	user := body["user"].(map[string]interface{})
	assert.NotContains(t, user, "passwordHash")
}

func TestRegisterConflict(t *testing.T) {
	service := &mockAuthService{
		registerFn: func(ctx context.Context, req *services.RegisterRequest) (*models.User, string, error) {
			return nil, "", services.NewConflictError("user with this email already exists")
		},
	}
	controller := newTestController(service)

	payload := `{"name":"Jane","email":"jane@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	controller.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, sessionCookie(t, rec), "no cookie on failure")
}

func TestLoginSetsSessionCookie(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, req *services.LoginRequest) (*models.User, string, error) {
			return &models.User{ID: 1, Email: req.Email}, "issued-token", nil
		},
	}
	controller := newTestController(service)

	payload := `{"email":"jane@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	controller.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "issued-token", cookie.Value)
}

func TestLoginInvalidCredentials(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, req *services.LoginRequest) (*models.User, string, error) {
			return nil, "", services.NewAuthError("invalid credentials")
		},
	}
	controller := newTestController(service)

	payload := `{"email":"jane@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	controller.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsSessionCookie(t *testing.T) {
	controller := newTestController(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	controller.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge, "cookie should expire immediately")
}

func TestMe(t *testing.T) {
	controller := newTestController(&mockAuthService{})

	user := &models.User{ID: 11, Name: "Jane"}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(contextutils.WithUser(req.Context(), user))

	rec := httptest.NewRecorder()
	controller.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	got := body["user"].(map[string]interface{})
	assert.Equal(t, "Jane", got["name"])
}

func TestMeUnauthenticated(t *testing.T) {
	controller := newTestController(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	controller.Me(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

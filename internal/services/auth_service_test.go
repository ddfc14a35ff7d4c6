package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/githubscientist/jp-backend/internal/cache"
	"github.com/githubscientist/jp-backend/internal/config"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/repositories"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:    "test-secret-do-not-use",
		TokenExpiry:  time.Hour,
		CookieName:   "token",
		BCryptCost:   bcrypt.MinCost,
		UserCacheTTL: time.Minute,
	}
}

func testCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.New(&config.CacheConfig{Provider: "memory"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRegister(t *testing.T) {
	var created *models.User
	users := &mockUserRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			user.ID = 1
			created = user
			return nil
		},
	}
	service := NewAuthService(users, testCache(t), testAuthConfig(), zap.NewNop())

	user, token, err := service.Register(context.Background(), &RegisterRequest{
		Name:     "  Jane Doe  ",
		Email:    "Jane@Example.COM",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "jane@example.com", user.Email, "email should be normalized")
	assert.Equal(t, models.RoleJobseeker, user.Role, "role should default to jobseeker")
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NotEmpty(t, token)

	// The token round-trips back to the new user's ID.
	id, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &mockUserRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			return repositories.ErrDuplicate
		},
	}
	service := NewAuthService(users, testCache(t), testAuthConfig(), zap.NewNop())

	_, _, err := service.Register(context.Background(), &RegisterRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "secret123",
	})
	assert.True(t, IsConflictError(err), "expected a conflict error, got %v", err)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	created := false
	users := &mockUserRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			created = true
			return nil
		},
	}
	service := NewAuthService(users, testCache(t), testAuthConfig(), zap.NewNop())

	_, _, err := service.Register(context.Background(), &RegisterRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "secret123",
		Role:     models.RoleAdmin,
	})
	require.True(t, IsValidationError(err), "expected a validation error, got %v", err)
	assert.False(t, created, "no account should be created for an admin registration")
}

func TestRegisterValidation(t *testing.T) {
	service := NewAuthService(&mockUserRepo{}, testCache(t), testAuthConfig(), zap.NewNop())

	_, _, err := service.Register(context.Background(), &RegisterRequest{
		Name:     "Jane",
		Email:    "not-an-email",
		Password: "short",
	})
	require.True(t, IsValidationError(err), "expected a validation error, got %v", err)

	serviceErr := GetServiceError(err)
	assert.NotEmpty(t, serviceErr.Fields, "field errors should name the offending fields")
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	lastLoginUpdated := false
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:           5,
				Email:        email,
				PasswordHash: string(hash),
				Role:         models.RoleEmployer,
				IsActive:     true,
			}, nil
		},
		updateLastLoginFn: func(ctx context.Context, id int64) error {
			lastLoginUpdated = true
			return nil
		},
	}
	service := NewAuthService(users, testCache(t), testAuthConfig(), zap.NewNop())

	user, token, err := service.Login(context.Background(), &LoginRequest{
		Email:    "jane@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.NotEmpty(t, token)
	assert.True(t, lastLoginUpdated)
}

func TestLoginInvalidCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	missing := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return nil, repositories.ErrNotFound
		},
	}
	wrongPassword := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 5, PasswordHash: string(hash), IsActive: true}, nil
		},
	}

	// Unknown email and wrong password must be indistinguishable.
	var messages []string
	for _, users := range []*mockUserRepo{missing, wrongPassword} {
		service := NewAuthService(users, testCache(t), testAuthConfig(), zap.NewNop())
		_, _, err := service.Login(context.Background(), &LoginRequest{
			Email:    "jane@example.com",
			Password: "wrong-password",
		})
		require.True(t, IsAuthError(err), "expected an auth error, got %v", err)
		messages = append(messages, GetServiceError(err).Message)
	}
	assert.Equal(t, messages[0], messages[1])
}

func TestLoginDeactivatedAccount(t *testing.T) {
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 5, IsActive: false}, nil
		},
	}
	service := NewAuthService(users, testCache(t), testAuthConfig(), zap.NewNop())

	_, _, err := service.Login(context.Background(), &LoginRequest{
		Email:    "jane@example.com",
		Password: "secret123",
	})
	assert.True(t, IsAuthError(err), "expected an auth error, got %v", err)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	service := NewAuthService(&mockUserRepo{}, testCache(t), testAuthConfig(), zap.NewNop())

	for _, token := range []string{"", "not.a.token", "eyJhbGciOiJIUzI1NiJ9.e30."} {
		_, err := service.VerifyToken(token)
		assert.True(t, IsAuthError(err), "token %q: expected an auth error, got %v", token, err)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	users := &mockUserRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			user.ID = 1
			return nil
		},
	}
	issuer := NewAuthService(users, testCache(t), testAuthConfig(), zap.NewNop())
	_, token, err := issuer.Register(context.Background(), &RegisterRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	otherConfig := testAuthConfig()
	otherConfig.JWTSecret = "a-different-secret"
	verifier := NewAuthService(users, testCache(t), otherConfig, zap.NewNop())

	_, err = verifier.VerifyToken(token)
	assert.True(t, IsAuthError(err), "expected an auth error, got %v", err)
}

func TestGetSessionUser(t *testing.T) {
	lookups := 0
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.User, error) {
			lookups++
			return &models.User{ID: id, Name: "Jane", IsActive: true}, nil
		},
	}
	service := NewAuthService(users, testCache(t), testAuthConfig(), zap.NewNop())

	first, err := service.GetSessionUser(context.Background(), 5)
	require.NoError(t, err)
	second, err := service.GetSessionUser(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, 1, lookups, "second lookup should be served from the cache")
}

func TestGetSessionUserDeactivated(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, IsActive: false}, nil
		},
	}
	service := NewAuthService(users, testCache(t), testAuthConfig(), zap.NewNop())

	_, err := service.GetSessionUser(context.Background(), 5)
	assert.True(t, IsAuthError(err), "expected an auth error, got %v", err)
}

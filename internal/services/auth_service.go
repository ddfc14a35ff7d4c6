// file: internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/githubscientist/jp-backend/internal/cache"
	"github.com/githubscientist/jp-backend/internal/config"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/repositories"
)

type authService struct {
	users  repositories.UserRepository
	cache  cache.Cache
	config *config.AuthConfig
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, cache cache.Cache, cfg *config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{
		users:  users,
		cache:  cache,
		config: cfg,
		logger: logger,
	}
}

func userCacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// Register creates an account and returns it with a session token.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, string, error) {
	if err := validateRequest(req); err != nil {
		return nil, "", err
	}

	role := req.Role
	if role == "" {
		role = models.RoleJobseeker
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, "", NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", NewConflictError("user with this email already exists")
		}
		return nil, "", NewInternalError("failed to create user", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", NewInternalError("failed to generate token", err)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role),
	)
	return user, token, nil
}

// Login authenticates by email and password. Wrong email and wrong
// password return the same error.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*models.User, string, error) {
	if err := validateRequest(req); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", NewAuthError("invalid credentials")
		}
		return nil, "", NewInternalError("failed to look up user", err)
	}

	if !user.IsActive {
		return nil, "", NewAuthError("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", NewAuthError("invalid credentials")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to update last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", NewInternalError("failed to generate token", err)
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return user, token, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenExpiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyToken parses and validates a session token, returning the
// user ID it was issued for.
func (s *authService) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(s.config.JWTSecret), nil
		})
	if err != nil {
		return 0, NewAuthError("invalid or expired token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, NewAuthError("invalid or expired token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, NewAuthError("invalid token subject")
	}
	return userID, nil
}

// GetSessionUser loads the user behind a verified token, via the
// cache when possible. Deactivated accounts are rejected.
func (s *authService) GetSessionUser(ctx context.Context, id int64) (*models.User, error) {
	var cached models.User
	if err := s.cache.Get(ctx, userCacheKey(id), &cached); err == nil {
		if !cached.IsActive {
			return nil, NewAuthError("account is deactivated")
		}
		return &cached, nil
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewAuthError("user no longer exists")
		}
		return nil, NewInternalError("failed to load session user", err)
	}

	if !user.IsActive {
		return nil, NewAuthError("account is deactivated")
	}

	if err := s.cache.Set(ctx, userCacheKey(id), user, s.config.UserCacheTTL); err != nil {
		s.logger.Warn("Failed to cache session user", zap.Int64("user_id", id), zap.Error(err))
	}
	return user, nil
}

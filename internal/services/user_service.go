// file: internal/services/user_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/cache"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/repositories"
)

type userService struct {
	users  repositories.UserRepository
	jobs   repositories.JobRepository
	cache  cache.Cache
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, jobs repositories.JobRepository, cache cache.Cache, logger *zap.Logger) UserService {
	return &userService{
		users:  users,
		jobs:   jobs,
		cache:  cache,
		logger: logger,
	}
}

func (s *userService) invalidateUser(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, userCacheKey(id)); err != nil {
		s.logger.Warn("Failed to invalidate user cache", zap.Int64("user_id", id), zap.Error(err))
	}
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewInternalError("failed to get profile", err)
	}
	return user, nil
}

// UpdateProfile patches the allow-listed profile fields. Anything
// outside the allow list (role, email, password, activation) is
// untouchable from this path.
func (s *userService) UpdateProfile(ctx context.Context, actingUser *models.User, req *UpdateProfileRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, actingUser.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewInternalError("failed to get user", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewValidationError("name cannot be empty", nil)
		}
		user.Name = name
	}

	if p := req.Profile; p != nil {
		if p.Bio != nil {
			user.Profile.Bio = p.Bio
		}
		if p.Skills != nil {
			user.Profile.Skills = p.Skills
		}
		if p.Experience != nil {
			user.Profile.Experience = p.Experience
		}
		if p.Education != nil {
			user.Profile.Education = p.Education
		}
		if p.Location != nil {
			user.Profile.Location = p.Location
		}
		if p.Website != nil {
			user.Profile.Website = p.Website
		}
		if p.Linkedin != nil {
			user.Profile.Linkedin = p.Linkedin
		}
		if p.Github != nil {
			user.Profile.Github = p.Github
		}
	}

	if c := req.Company; c != nil {
		if c.Name != nil {
			user.Company.Name = c.Name
		}
		if c.Description != nil {
			user.Company.Description = c.Description
		}
		if c.Website != nil {
			user.Company.Website = c.Website
		}
		if c.Location != nil {
			user.Company.Location = c.Location
		}
		if c.Industry != nil {
			user.Company.Industry = c.Industry
		}
		if c.Size != nil {
			user.Company.Size = c.Size
		}
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, NewInternalError("failed to update profile", err)
	}

	s.invalidateUser(ctx, user.ID)
	return user, nil
}

func (s *userService) SetResume(ctx context.Context, actingUser *models.User, url string) (*models.User, error) {
	return s.setProfileURL(ctx, actingUser, func(u *models.User) { u.Profile.Resume = &url })
}

func (s *userService) SetProfilePicture(ctx context.Context, actingUser *models.User, url string) (*models.User, error) {
	return s.setProfileURL(ctx, actingUser, func(u *models.User) { u.Profile.ProfilePicture = &url })
}

func (s *userService) SetCompanyLogo(ctx context.Context, actingUser *models.User, url string) (*models.User, error) {
	return s.setProfileURL(ctx, actingUser, func(u *models.User) { u.Company.Logo = &url })
}

func (s *userService) setProfileURL(ctx context.Context, actingUser *models.User, apply func(*models.User)) (*models.User, error) {
	user, err := s.users.GetByID(ctx, actingUser.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewInternalError("failed to get user", err)
	}

	apply(user)
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, NewInternalError("failed to update profile", err)
	}

	s.invalidateUser(ctx, user.ID)
	return user, nil
}

// ===============================
// FAVORITES
// ===============================

func (s *userService) AddFavorite(ctx context.Context, actingUser *models.User, jobID int64) error {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewNotFoundError("job not found")
		}
		return NewInternalError("failed to get job", err)
	}

	if err := s.users.AddFavorite(ctx, actingUser.ID, jobID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return NewConflictError("job is already in favorites")
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return NewNotFoundError("job not found")
		}
		return NewInternalError("failed to add favorite", err)
	}
	return nil
}

// RemoveFavorite is idempotent. Removing an absent favorite succeeds.
func (s *userService) RemoveFavorite(ctx context.Context, actingUser *models.User, jobID int64) error {
	if err := s.users.RemoveFavorite(ctx, actingUser.ID, jobID); err != nil {
		return NewInternalError("failed to remove favorite", err)
	}
	return nil
}

func (s *userService) ListFavorites(ctx context.Context, actingUser *models.User, page models.Pagination) (*models.Page[models.Job], error) {
	page.Normalize()
	favorites, err := s.users.ListFavorites(ctx, actingUser.ID, page)
	if err != nil {
		return nil, NewInternalError("failed to list favorites", err)
	}
	return favorites, nil
}

// DeleteAccount removes the acting user's own record. Their posted
// jobs are not cascaded; accounts with live postings must remove them
// first.
func (s *userService) DeleteAccount(ctx context.Context, actingUser *models.User) error {
	if err := s.users.Delete(ctx, actingUser.ID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return NewNotFoundError("user not found")
		case errors.Is(err, repositories.ErrLastAdmin):
			return NewConflictError("cannot delete the last active admin account")
		case errors.Is(err, repositories.ErrHasDependents):
			return NewConflictError("delete your job postings before deleting your account")
		default:
			return NewInternalError("failed to delete account", err)
		}
	}

	s.invalidateUser(ctx, actingUser.ID)
	s.logger.Info("User deleted own account", zap.Int64("user_id", actingUser.ID))
	return nil
}

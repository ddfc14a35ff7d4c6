// file: internal/services/admin_service.go
package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/cache"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/repositories"
)

const (
	adminStatsCacheKey  = "admin:stats"
	adminStatsCacheTTL  = 5 * time.Minute
	recentActivityDays  = 30
	registrationMonths  = 6
	categoryBucketLimit = 10
)

type adminService struct {
	users        repositories.UserRepository
	jobs         repositories.JobRepository
	applications repositories.ApplicationRepository
	cache        cache.Cache
	logger       *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	users repositories.UserRepository,
	jobs repositories.JobRepository,
	applications repositories.ApplicationRepository,
	cache cache.Cache,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		users:        users,
		jobs:         jobs,
		applications: applications,
		cache:        cache,
		logger:       logger,
	}
}

func (s *adminService) reload(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewInternalError("failed to load user", err)
	}
	return user, nil
}

func (s *adminService) invalidateUser(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, userCacheKey(id)); err != nil {
		s.logger.Warn("Failed to invalidate user cache", zap.Int64("user_id", id), zap.Error(err))
	}
}

func (s *adminService) ListUsers(ctx context.Context, filter models.UserFilter, page models.Pagination) (*models.Page[models.User], error) {
	page.Normalize()
	result, err := s.users.List(ctx, filter, page)
	if err != nil {
		return nil, NewInternalError("failed to list users", err)
	}
	return result, nil
}

func (s *adminService) GetUser(ctx context.Context, id int64) (*models.User, *models.UserActivity, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, NewNotFoundError("user not found")
		}
		return nil, nil, NewInternalError("failed to get user", err)
	}

	activity, err := s.users.Activity(ctx, id)
	if err != nil {
		return nil, nil, NewInternalError("failed to get user activity", err)
	}
	return user, activity, nil
}

// UpdateRole changes a user's role. Demoting the last active admin
// is rejected.
func (s *adminService) UpdateRole(ctx context.Context, id int64, role string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, NewValidationError("invalid role: "+role, nil)
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, NewNotFoundError("user not found")
		case errors.Is(err, repositories.ErrLastAdmin):
			return nil, NewConflictError("cannot demote the last active admin")
		default:
			return nil, NewInternalError("failed to update role", err)
		}
	}

	s.invalidateUser(ctx, id)
	s.logger.Info("User role updated", zap.Int64("user_id", id), zap.String("role", role))
	return s.reload(ctx, id)
}

// SetUserActive toggles activation. Deactivating the last active
// admin is rejected.
func (s *adminService) SetUserActive(ctx context.Context, id int64, active bool) (*models.User, error) {
	if err := s.users.SetActive(ctx, id, active); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, NewNotFoundError("user not found")
		case errors.Is(err, repositories.ErrLastAdmin):
			return nil, NewConflictError("cannot deactivate the last active admin")
		default:
			return nil, NewInternalError("failed to update activation", err)
		}
	}

	s.invalidateUser(ctx, id)
	s.logger.Info("User activation updated", zap.Int64("user_id", id), zap.Bool("active", active))
	return s.reload(ctx, id)
}

// DeleteUser removes a user and cascades to their applications, their
// jobs' applications and their jobs. Self-deletion through the admin
// surface and deleting the last active admin are rejected.
func (s *adminService) DeleteUser(ctx context.Context, actingUser *models.User, id int64) error {
	if actingUser.ID == id {
		return NewConflictError("use account deletion to remove your own account")
	}

	if err := s.users.DeleteCascade(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return NewNotFoundError("user not found")
		case errors.Is(err, repositories.ErrLastAdmin):
			return NewConflictError("cannot delete the last active admin")
		default:
			return NewInternalError("failed to delete user", err)
		}
	}

	s.invalidateUser(ctx, id)
	s.logger.Info("User deleted by admin",
		zap.Int64("user_id", id),
		zap.Int64("deleted_by", actingUser.ID),
	)
	return nil
}

func (s *adminService) ListJobs(ctx context.Context, filter models.AdminJobFilter, page models.Pagination) (*models.Page[models.Job], error) {
	page.Normalize()
	result, err := s.jobs.AdminList(ctx, filter, page)
	if err != nil {
		return nil, NewInternalError("failed to list jobs", err)
	}
	return result, nil
}

func (s *adminService) ListApplications(ctx context.Context, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error) {
	page.Normalize()
	result, err := s.applications.ListAll(ctx, filter, page)
	if err != nil {
		return nil, NewInternalError("failed to list applications", err)
	}
	return result, nil
}

// Stats assembles the platform dashboard, cached briefly.
func (s *adminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	var cached models.AdminStats
	if err := s.cache.Get(ctx, adminStatsCacheKey, &cached); err == nil {
		return &cached, nil
	}

	overview, err := s.users.Overview(ctx)
	if err != nil {
		return nil, NewInternalError("failed to get overview", err)
	}

	recent, err := s.users.RecentActivity(ctx, recentActivityDays)
	if err != nil {
		return nil, NewInternalError("failed to get recent activity", err)
	}

	byStatus, err := s.applications.StatusDistribution(ctx)
	if err != nil {
		return nil, NewInternalError("failed to get application distribution", err)
	}

	byCategory, err := s.jobs.CategoryDistribution(ctx, categoryBucketLimit)
	if err != nil {
		return nil, NewInternalError("failed to get category distribution", err)
	}

	monthly, err := s.users.MonthlyRegistrations(ctx, registrationMonths)
	if err != nil {
		return nil, NewInternalError("failed to get monthly registrations", err)
	}

	stats := &models.AdminStats{
		Overview:             *overview,
		RecentActivity:       *recent,
		ApplicationsByStatus: byStatus,
		JobsByCategory:       byCategory,
		MonthlyRegistrations: monthly,
	}

	if err := s.cache.Set(ctx, adminStatsCacheKey, stats, adminStatsCacheTTL); err != nil {
		s.logger.Warn("Failed to cache admin stats", zap.Error(err))
	}
	return stats, nil
}

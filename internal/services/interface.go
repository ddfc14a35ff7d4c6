// file: internal/services/interfaces.go
package services

import (
	"context"

	"github.com/githubscientist/jp-backend/internal/models"
)

// AuthService handles registration, login and session tokens.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req *LoginRequest) (*models.User, string, error)
	VerifyToken(token string) (int64, error)
	GetSessionUser(ctx context.Context, id int64) (*models.User, error)
}

// UserService handles profiles, uploads and favorites.
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, actingUser *models.User, req *UpdateProfileRequest) (*models.User, error)
	SetResume(ctx context.Context, actingUser *models.User, url string) (*models.User, error)
	SetProfilePicture(ctx context.Context, actingUser *models.User, url string) (*models.User, error)
	SetCompanyLogo(ctx context.Context, actingUser *models.User, url string) (*models.User, error)
	AddFavorite(ctx context.Context, actingUser *models.User, jobID int64) error
	RemoveFavorite(ctx context.Context, actingUser *models.User, jobID int64) error
	ListFavorites(ctx context.Context, actingUser *models.User, page models.Pagination) (*models.Page[models.Job], error)
	DeleteAccount(ctx context.Context, actingUser *models.User) error
}

// JobService handles the public board and employer job management.
type JobService interface {
	List(ctx context.Context, filter models.JobFilter, page models.Pagination) (*models.Page[models.Job], error)
	Search(ctx context.Context, query string, location *string, page models.Pagination) (*models.Page[models.Job], error)
	Stats(ctx context.Context) (*models.JobStats, error)
	Get(ctx context.Context, id int64, actingUser *models.User) (*models.Job, error)
	Create(ctx context.Context, actingUser *models.User, req *CreateJobRequest) (*models.Job, error)
	Update(ctx context.Context, actingUser *models.User, id int64, req *UpdateJobRequest) (*models.Job, error)
	Delete(ctx context.Context, actingUser *models.User, id int64) error
	MyJobs(ctx context.Context, actingUser *models.User, page models.Pagination) (*models.Page[models.Job], error)
}

// ApplicationService handles the application lifecycle.
type ApplicationService interface {
	Apply(ctx context.Context, actingUser *models.User, req *ApplyRequest) (*models.Application, error)
	MyApplications(ctx context.Context, actingUser *models.User, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error)
	ListForJob(ctx context.Context, actingUser *models.User, jobID int64, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error)
	Get(ctx context.Context, actingUser *models.User, id int64) (*models.Application, error)
	UpdateStatus(ctx context.Context, actingUser *models.User, id int64, req *UpdateApplicationStatusRequest) (*models.Application, error)
	Withdraw(ctx context.Context, actingUser *models.User, id int64) error
}

// AdminService handles platform administration.
type AdminService interface {
	ListUsers(ctx context.Context, filter models.UserFilter, page models.Pagination) (*models.Page[models.User], error)
	GetUser(ctx context.Context, id int64) (*models.User, *models.UserActivity, error)
	UpdateRole(ctx context.Context, id int64, role string) (*models.User, error)
	SetUserActive(ctx context.Context, id int64, active bool) (*models.User, error)
	DeleteUser(ctx context.Context, actingUser *models.User, id int64) error
	ListJobs(ctx context.Context, filter models.AdminJobFilter, page models.Pagination) (*models.Page[models.Job], error)
	ListApplications(ctx context.Context, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error)
	Stats(ctx context.Context) (*models.AdminStats, error)
}

// ServiceCollection bundles every service for dependency injection.
type ServiceCollection struct {
	Auth        AuthService
	User        UserService
	Job         JobService
	Application ApplicationService
	Admin       AdminService
}

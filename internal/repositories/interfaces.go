// file: internal/repositories/interfaces.go
package repositories

import (
	"context"

	"github.com/githubscientist/jp-backend/internal/models"
)

// UserRepository manages user accounts and favorites.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id int64) error
	UpdateRole(ctx context.Context, id int64, role string) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	DeleteCascade(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.UserFilter, page models.Pagination) (*models.Page[models.User], error)

	AddFavorite(ctx context.Context, userID, jobID int64) error
	RemoveFavorite(ctx context.Context, userID, jobID int64) error
	ListFavorites(ctx context.Context, userID int64, page models.Pagination) (*models.Page[models.Job], error)
	IsFavorite(ctx context.Context, userID, jobID int64) (bool, error)

	Activity(ctx context.Context, id int64) (*models.UserActivity, error)
	Overview(ctx context.Context) (*models.AdminOverview, error)
	RecentActivity(ctx context.Context, days int) (*models.AdminRecentActivity, error)
	MonthlyRegistrations(ctx context.Context, months int) ([]models.MonthCount, error)
}

// JobRepository manages job postings.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	DeleteCascade(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.JobFilter, page models.Pagination) (*models.Page[models.Job], error)
	Search(ctx context.Context, query string, location *string, page models.Pagination) (*models.Page[models.Job], error)
	ListByEmployer(ctx context.Context, employerID int64, page models.Pagination) (*models.Page[models.Job], error)
	AdminList(ctx context.Context, filter models.AdminJobFilter, page models.Pagination) (*models.Page[models.Job], error)
	IncrementViews(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.JobStats, error)
	CategoryDistribution(ctx context.Context, limit int) ([]models.CategoryCount, error)
}

// ApplicationRepository manages job applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	Exists(ctx context.Context, jobID, applicantID int64) (bool, error)
	ListByApplicant(ctx context.Context, applicantID int64, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error)
	ListByJob(ctx context.Context, jobID int64, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error)
	ListAll(ctx context.Context, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error)
	UpdateStatus(ctx context.Context, id int64, params UpdateStatusParams) error
	Delete(ctx context.Context, id int64) error
	StatusDistribution(ctx context.Context) ([]models.StatusCount, error)
}

// UpdateStatusParams carries the employer review mutation.
type UpdateStatusParams struct {
	Status     string
	ReviewerID int64
	Notes      *string
	Rating     *int16
	Interview  *models.Interview
}

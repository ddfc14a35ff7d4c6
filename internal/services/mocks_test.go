package services

import (
	"context"

	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/repositories"
)

// Function-field mocks so each test overrides only what it needs.

type mockUserRepo struct {
	createFn           func(ctx context.Context, user *models.User) error
	getByIDFn          func(ctx context.Context, id int64) (*models.User, error)
	getByEmailFn       func(ctx context.Context, email string) (*models.User, error)
	updateProfileFn    func(ctx context.Context, user *models.User) error
	updateLastLoginFn  func(ctx context.Context, id int64) error
	updateRoleFn       func(ctx context.Context, id int64, role string) error
	setActiveFn        func(ctx context.Context, id int64, active bool) error
	deleteFn           func(ctx context.Context, id int64) error
	deleteCascadeFn    func(ctx context.Context, id int64) error
	addFavoriteFn      func(ctx context.Context, userID, jobID int64) error
	removeFavoriteFn   func(ctx context.Context, userID, jobID int64) error
	listFavoritesFn    func(ctx context.Context, userID int64, page models.Pagination) (*models.Page[models.Job], error)
	isFavoriteFn       func(ctx context.Context, userID, jobID int64) (bool, error)
	listFn             func(ctx context.Context, filter models.UserFilter, page models.Pagination) (*models.Page[models.User], error)
	activityFn         func(ctx context.Context, id int64) (*models.UserActivity, error)
	overviewFn         func(ctx context.Context) (*models.AdminOverview, error)
	recentActivityFn   func(ctx context.Context, days int) (*models.AdminRecentActivity, error)
	monthlyFn          func(ctx context.Context, months int) ([]models.MonthCount, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.getByEmailFn(ctx, email)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	return m.updateProfileFn(ctx, user)
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	if m.updateLastLoginFn == nil {
		return nil
	}
	return m.updateLastLoginFn(ctx, id)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id int64, role string) error {
	return m.updateRoleFn(ctx, id, role)
}

func (m *mockUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return m.setActiveFn(ctx, id, active)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *mockUserRepo) DeleteCascade(ctx context.Context, id int64) error {
	return m.deleteCascadeFn(ctx, id)
}

func (m *mockUserRepo) AddFavorite(ctx context.Context, userID, jobID int64) error {
	return m.addFavoriteFn(ctx, userID, jobID)
}

func (m *mockUserRepo) RemoveFavorite(ctx context.Context, userID, jobID int64) error {
	return m.removeFavoriteFn(ctx, userID, jobID)
}

func (m *mockUserRepo) ListFavorites(ctx context.Context, userID int64, page models.Pagination) (*models.Page[models.Job], error) {
	return m.listFavoritesFn(ctx, userID, page)
}

func (m *mockUserRepo) IsFavorite(ctx context.Context, userID, jobID int64) (bool, error) {
	if m.isFavoriteFn == nil {
		return false, nil
	}
	return m.isFavoriteFn(ctx, userID, jobID)
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter, page models.Pagination) (*models.Page[models.User], error) {
	return m.listFn(ctx, filter, page)
}

func (m *mockUserRepo) Activity(ctx context.Context, id int64) (*models.UserActivity, error) {
	return m.activityFn(ctx, id)
}

func (m *mockUserRepo) Overview(ctx context.Context) (*models.AdminOverview, error) {
	return m.overviewFn(ctx)
}

func (m *mockUserRepo) RecentActivity(ctx context.Context, days int) (*models.AdminRecentActivity, error) {
	return m.recentActivityFn(ctx, days)
}

func (m *mockUserRepo) MonthlyRegistrations(ctx context.Context, months int) ([]models.MonthCount, error) {
	return m.monthlyFn(ctx, months)
}

type mockJobRepo struct {
	createFn         func(ctx context.Context, job *models.Job) error
	getByIDFn        func(ctx context.Context, id int64) (*models.Job, error)
	updateFn         func(ctx context.Context, job *models.Job) error
	deleteCascadeFn  func(ctx context.Context, id int64) error
	listFn           func(ctx context.Context, filter models.JobFilter, page models.Pagination) (*models.Page[models.Job], error)
	searchFn         func(ctx context.Context, query string, location *string, page models.Pagination) (*models.Page[models.Job], error)
	listByEmployerFn func(ctx context.Context, employerID int64, page models.Pagination) (*models.Page[models.Job], error)
	adminListFn      func(ctx context.Context, filter models.AdminJobFilter, page models.Pagination) (*models.Page[models.Job], error)
	incrementViewsFn func(ctx context.Context, id int64) error
	statsFn          func(ctx context.Context) (*models.JobStats, error)
	categoriesFn     func(ctx context.Context, limit int) ([]models.CategoryCount, error)
}

func (m *mockJobRepo) Create(ctx context.Context, job *models.Job) error {
	return m.createFn(ctx, job)
}

func (m *mockJobRepo) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockJobRepo) Update(ctx context.Context, job *models.Job) error {
	return m.updateFn(ctx, job)
}

func (m *mockJobRepo) DeleteCascade(ctx context.Context, id int64) error {
	return m.deleteCascadeFn(ctx, id)
}

func (m *mockJobRepo) List(ctx context.Context, filter models.JobFilter, page models.Pagination) (*models.Page[models.Job], error) {
	return m.listFn(ctx, filter, page)
}

func (m *mockJobRepo) Search(ctx context.Context, query string, location *string, page models.Pagination) (*models.Page[models.Job], error) {
	return m.searchFn(ctx, query, location, page)
}

func (m *mockJobRepo) ListByEmployer(ctx context.Context, employerID int64, page models.Pagination) (*models.Page[models.Job], error) {
	return m.listByEmployerFn(ctx, employerID, page)
}

func (m *mockJobRepo) AdminList(ctx context.Context, filter models.AdminJobFilter, page models.Pagination) (*models.Page[models.Job], error) {
	return m.adminListFn(ctx, filter, page)
}

func (m *mockJobRepo) IncrementViews(ctx context.Context, id int64) error {
	if m.incrementViewsFn == nil {
		return nil
	}
	return m.incrementViewsFn(ctx, id)
}

func (m *mockJobRepo) Stats(ctx context.Context) (*models.JobStats, error) {
	return m.statsFn(ctx)
}

func (m *mockJobRepo) CategoryDistribution(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	return m.categoriesFn(ctx, limit)
}

type mockApplicationRepo struct {
	createFn       func(ctx context.Context, app *models.Application) error
	getByIDFn      func(ctx context.Context, id int64) (*models.Application, error)
	existsFn       func(ctx context.Context, jobID, applicantID int64) (bool, error)
	byApplicantFn  func(ctx context.Context, applicantID int64, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error)
	byJobFn        func(ctx context.Context, jobID int64, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error)
	allFn          func(ctx context.Context, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error)
	updateStatusFn func(ctx context.Context, id int64, params repositories.UpdateStatusParams) error
	deleteFn       func(ctx context.Context, id int64) error
	distributionFn func(ctx context.Context) ([]models.StatusCount, error)
}

func (m *mockApplicationRepo) Create(ctx context.Context, app *models.Application) error {
	return m.createFn(ctx, app)
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockApplicationRepo) Exists(ctx context.Context, jobID, applicantID int64) (bool, error) {
	return m.existsFn(ctx, jobID, applicantID)
}

func (m *mockApplicationRepo) ListByApplicant(ctx context.Context, applicantID int64, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error) {
	return m.byApplicantFn(ctx, applicantID, filter, page)
}

func (m *mockApplicationRepo) ListByJob(ctx context.Context, jobID int64, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error) {
	return m.byJobFn(ctx, jobID, filter, page)
}

func (m *mockApplicationRepo) ListAll(ctx context.Context, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error) {
	return m.allFn(ctx, filter, page)
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, id int64, params repositories.UpdateStatusParams) error {
	return m.updateStatusFn(ctx, id, params)
}

func (m *mockApplicationRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *mockApplicationRepo) StatusDistribution(ctx context.Context) ([]models.StatusCount, error) {
	return m.distributionFn(ctx)
}

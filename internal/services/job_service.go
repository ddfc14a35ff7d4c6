// file: internal/services/job_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/cache"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/repositories"
)

const (
	jobStatsCacheKey = "jobs:stats"
	jobStatsCacheTTL = 5 * time.Minute
)

type jobService struct {
	jobs   repositories.JobRepository
	users  repositories.UserRepository
	cache  cache.Cache
	logger *zap.Logger
}

// NewJobService creates a new job service
func NewJobService(jobs repositories.JobRepository, users repositories.UserRepository, cache cache.Cache, logger *zap.Logger) JobService {
	return &jobService{
		jobs:   jobs,
		users:  users,
		cache:  cache,
		logger: logger,
	}
}

// List returns active jobs matching the filter.
func (s *jobService) List(ctx context.Context, filter models.JobFilter, page models.Pagination) (*models.Page[models.Job], error) {
	page.Normalize()
	result, err := s.jobs.List(ctx, filter, page)
	if err != nil {
		return nil, NewInternalError("failed to list jobs", err)
	}
	return result, nil
}

// Search runs a ranked full-text search over active jobs.
func (s *jobService) Search(ctx context.Context, query string, location *string, page models.Pagination) (*models.Page[models.Job], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewValidationError("search query is required", nil)
	}

	page.Normalize()
	result, err := s.jobs.Search(ctx, query, location, page)
	if err != nil {
		return nil, NewInternalError("failed to search jobs", err)
	}
	return result, nil
}

// Stats returns board-wide aggregates, cached briefly.
func (s *jobService) Stats(ctx context.Context) (*models.JobStats, error) {
	var cached models.JobStats
	if err := s.cache.Get(ctx, jobStatsCacheKey, &cached); err == nil {
		return &cached, nil
	}

	stats, err := s.jobs.Stats(ctx)
	if err != nil {
		return nil, NewInternalError("failed to get job stats", err)
	}

	if err := s.cache.Set(ctx, jobStatsCacheKey, stats, jobStatsCacheTTL); err != nil {
		s.logger.Warn("Failed to cache job stats", zap.Error(err))
	}
	return stats, nil
}

// Get returns a job by ID and counts the view, unless the viewer owns
// the posting.
func (s *jobService) Get(ctx context.Context, id int64, actingUser *models.User) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("job not found")
		}
		return nil, NewInternalError("failed to get job", err)
	}

	if actingUser == nil || actingUser.ID != job.PostedBy {
		if err := s.jobs.IncrementViews(ctx, id); err != nil {
			s.logger.Warn("Failed to increment views", zap.Int64("job_id", id), zap.Error(err))
		} else {
			job.Views++
		}
	}

	if actingUser != nil {
		favorite, err := s.users.IsFavorite(ctx, actingUser.ID, id)
		if err != nil {
			s.logger.Warn("Failed to check favorite", zap.Int64("job_id", id), zap.Error(err))
		} else {
			job.IsFavorite = &favorite
		}
	}
	return job, nil
}

// Create posts a new job. The company name defaults to the acting
// user's stored company name when the payload omits it.
func (s *jobService) Create(ctx context.Context, actingUser *models.User, req *CreateJobRequest) (*models.Job, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	company := strings.TrimSpace(req.Company)
	if company == "" {
		if actingUser.Company.Name != nil {
			company = *actingUser.Company.Name
		}
		if company == "" {
			return nil, NewValidationError("company is required", nil)
		}
	}

	status := req.Status
	if status == "" {
		status = models.JobStatusActive
	}
	currency := req.Salary.Currency
	if currency == "" {
		currency = "USD"
	}

	job := &models.Job{
		PostedBy:        actingUser.ID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Requirements:    req.Requirements,
		Company:         company,
		Location:        req.Location,
		JobType:         req.JobType,
		Category:        req.Category,
		ExperienceLevel: req.ExperienceLevel,
		Salary: models.Salary{
			Min:      req.Salary.Min,
			Max:      req.Salary.Max,
			Currency: currency,
		},
		Skills:              orEmpty(req.Skills),
		Benefits:            orEmpty(req.Benefits),
		ApplicationDeadline: req.ApplicationDeadline,
		Status:              status,
		IsRemote:            req.IsRemote,
		Tags:                orEmpty(req.Tags),
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, NewInternalError("failed to create job", err)
	}

	s.logger.Info("Job created",
		zap.Int64("job_id", job.ID),
		zap.Int64("posted_by", actingUser.ID),
	)
	return job, nil
}

// Update patches a job. Only the owner or an admin may mutate it.
func (s *jobService) Update(ctx context.Context, actingUser *models.User, id int64, req *UpdateJobRequest) (*models.Job, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("job not found")
		}
		return nil, NewInternalError("failed to get job", err)
	}

	if !actingUser.CanManage(job.PostedBy) {
		return nil, NewForbiddenError("not authorized to update this job")
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = *req.Requirements
	}
	if req.Company != nil {
		job.Company = *req.Company
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.Category != nil {
		job.Category = *req.Category
	}
	if req.ExperienceLevel != nil {
		job.ExperienceLevel = *req.ExperienceLevel
	}
	if req.Salary != nil {
		currency := req.Salary.Currency
		if currency == "" {
			currency = job.Salary.Currency
		}
		job.Salary = models.Salary{Min: req.Salary.Min, Max: req.Salary.Max, Currency: currency}
	}
	if req.Skills != nil {
		job.Skills = req.Skills
	}
	if req.Benefits != nil {
		job.Benefits = req.Benefits
	}
	if req.ApplicationDeadline != nil {
		job.ApplicationDeadline = *req.ApplicationDeadline
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	if req.IsRemote != nil {
		job.IsRemote = *req.IsRemote
	}
	if req.Tags != nil {
		job.Tags = req.Tags
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("job not found")
		}
		return nil, NewInternalError("failed to update job", err)
	}
	return job, nil
}

// Delete removes a job and its applications. Only the owner or an
// admin may delete it.
func (s *jobService) Delete(ctx context.Context, actingUser *models.User, id int64) error {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewNotFoundError("job not found")
		}
		return NewInternalError("failed to get job", err)
	}

	if !actingUser.CanManage(job.PostedBy) {
		return NewForbiddenError("not authorized to delete this job")
	}

	if err := s.jobs.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewNotFoundError("job not found")
		}
		return NewInternalError("failed to delete job", err)
	}

	s.logger.Info("Job deleted",
		zap.Int64("job_id", id),
		zap.Int64("deleted_by", actingUser.ID),
	)
	return nil
}

// MyJobs lists the acting user's own postings regardless of status.
func (s *jobService) MyJobs(ctx context.Context, actingUser *models.User, page models.Pagination) (*models.Page[models.Job], error) {
	page.Normalize()
	result, err := s.jobs.ListByEmployer(ctx, actingUser.ID, page)
	if err != nil {
		return nil, NewInternalError("failed to list jobs", err)
	}
	return result, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

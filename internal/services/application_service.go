// file: internal/services/application_service.go
package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/repositories"
)

type applicationService struct {
	applications repositories.ApplicationRepository
	jobs         repositories.JobRepository
	logger       *zap.Logger
}

// NewApplicationService creates a new application service
func NewApplicationService(applications repositories.ApplicationRepository, jobs repositories.JobRepository, logger *zap.Logger) ApplicationService {
	return &applicationService{
		applications: applications,
		jobs:         jobs,
		logger:       logger,
	}
}

// Apply submits an application. The job must be active with an open
// deadline, the applicant must not own it or have applied before, and
// a resume is required.
func (s *applicationService) Apply(ctx context.Context, actingUser *models.User, req *ApplyRequest) (*models.Application, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("job not found")
		}
		return nil, NewInternalError("failed to get job", err)
	}

	if job.Status != models.JobStatusActive {
		return nil, NewInvalidStateError("job is no longer accepting applications")
	}
	if time.Now().After(job.ApplicationDeadline) {
		return nil, NewInvalidStateError("application deadline has passed")
	}
	if job.PostedBy == actingUser.ID {
		return nil, NewConflictError("cannot apply to your own job posting")
	}

	resume := req.Resume
	if resume == "" && actingUser.Profile.Resume != nil {
		resume = *actingUser.Profile.Resume
	}
	if resume == "" {
		return nil, NewValidationError("a resume is required to apply", nil)
	}

	exists, err := s.applications.Exists(ctx, req.JobID, actingUser.ID)
	if err != nil {
		return nil, NewInternalError("failed to check for existing application", err)
	}
	if exists {
		return nil, NewConflictError("you have already applied to this job")
	}

	app := &models.Application{
		JobID:       req.JobID,
		ApplicantID: actingUser.ID,
		CoverLetter: req.CoverLetter,
		Resume:      resume,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewConflictError("you have already applied to this job")
		}
		return nil, NewInternalError("failed to create application", err)
	}

	app.Job = &models.ApplicationJob{
		ID:       job.ID,
		Title:    job.Title,
		Company:  job.Company,
		Location: job.Location,
		PostedBy: job.PostedBy,
		Status:   job.Status,
	}
	app.Applicant = &models.Applicant{
		ID:    actingUser.ID,
		Name:  actingUser.Name,
		Email: actingUser.Email,
	}

	s.logger.Info("Application submitted",
		zap.Int64("application_id", app.ID),
		zap.Int64("job_id", job.ID),
		zap.Int64("applicant_id", actingUser.ID),
	)
	return app, nil
}

// MyApplications lists the acting user's submissions.
func (s *applicationService) MyApplications(ctx context.Context, actingUser *models.User, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error) {
	page.Normalize()
	result, err := s.applications.ListByApplicant(ctx, actingUser.ID, filter, page)
	if err != nil {
		return nil, NewInternalError("failed to list applications", err)
	}
	return result, nil
}

// ListForJob lists a job's applications for the job owner or an admin.
func (s *applicationService) ListForJob(ctx context.Context, actingUser *models.User, jobID int64, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("job not found")
		}
		return nil, NewInternalError("failed to get job", err)
	}

	if !actingUser.CanManage(job.PostedBy) {
		return nil, NewForbiddenError("not authorized to review applications for this job")
	}

	page.Normalize()
	result, err := s.applications.ListByJob(ctx, jobID, filter, page)
	if err != nil {
		return nil, NewInternalError("failed to list applications", err)
	}
	return result, nil
}

// Get returns an application visible to the applicant, the job owner,
// or an admin only.
func (s *applicationService) Get(ctx context.Context, actingUser *models.User, id int64) (*models.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("application not found")
		}
		return nil, NewInternalError("failed to get application", err)
	}

	if app.ApplicantID != actingUser.ID && !actingUser.CanManage(app.Job.PostedBy) {
		return nil, NewForbiddenError("not authorized to view this application")
	}
	return app, nil
}

// UpdateStatus records a review decision by the job owner or an admin.
func (s *applicationService) UpdateStatus(ctx context.Context, actingUser *models.User, id int64, req *UpdateApplicationStatusRequest) (*models.Application, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("application not found")
		}
		return nil, NewInternalError("failed to get application", err)
	}

	if !actingUser.CanManage(app.Job.PostedBy) {
		return nil, NewForbiddenError("not authorized to review this application")
	}

	params := repositories.UpdateStatusParams{
		Status:     req.Status,
		ReviewerID: actingUser.ID,
		Notes:      req.Notes,
		Rating:     req.Rating,
	}
	if iv := req.Interview; iv != nil {
		params.Interview = &models.Interview{
			Scheduled: true,
			Date:      iv.Date,
			Time:      iv.Time,
			Location:  iv.Location,
			Type:      iv.Type,
			Notes:     iv.Notes,
		}
	}

	if err := s.applications.UpdateStatus(ctx, id, params); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("application not found")
		}
		return nil, NewInternalError("failed to update application status", err)
	}

	updated, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to reload application", err)
	}

	s.logger.Info("Application status updated",
		zap.Int64("application_id", id),
		zap.String("status", req.Status),
		zap.Int64("reviewed_by", actingUser.ID),
	)
	return updated, nil
}

// Withdraw removes the acting user's own application unless its
// status is terminal.
func (s *applicationService) Withdraw(ctx context.Context, actingUser *models.User, id int64) error {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewNotFoundError("application not found")
		}
		return NewInternalError("failed to get application", err)
	}

	if app.ApplicantID != actingUser.ID {
		return NewForbiddenError("not authorized to withdraw this application")
	}
	if models.IsTerminalApplicationStatus(app.Status) {
		return NewInvalidStateError("cannot withdraw an application that has been " + app.Status)
	}

	if err := s.applications.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewNotFoundError("application not found")
		}
		return NewInternalError("failed to withdraw application", err)
	}

	s.logger.Info("Application withdrawn",
		zap.Int64("application_id", id),
		zap.Int64("applicant_id", actingUser.ID),
	)
	return nil
}

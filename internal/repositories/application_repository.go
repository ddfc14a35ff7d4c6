// file: internal/repositories/application_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/database"
	"github.com/githubscientist/jp-backend/internal/models"
)

type applicationRepository struct {
	*BaseRepository
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *database.Manager, logger *zap.Logger) ApplicationRepository {
	return &applicationRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const applicationColumns = `
	a.id, a.job_id, a.applicant_id, a.cover_letter, a.resume, a.status,
	a.applied_at, a.reviewed_at, a.reviewed_by, a.notes, a.rating,
	a.interview_scheduled, a.interview_date, a.interview_time,
	a.interview_location, a.interview_type, a.interview_notes,
	a.created_at, a.updated_at,
	j.title, j.company, j.location, j.posted_by, j.status,
	u.name, u.email`

func scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	var coverLetter sql.NullString
	var job models.ApplicationJob
	var applicant models.Applicant

	err := row.Scan(
		&app.ID, &app.JobID, &app.ApplicantID, &coverLetter, &app.Resume, &app.Status,
		&app.AppliedAt, &app.ReviewedAt, &app.ReviewedBy, &app.Notes, &app.Rating,
		&app.Interview.Scheduled, &app.Interview.Date, &app.Interview.Time,
		&app.Interview.Location, &app.Interview.Type, &app.Interview.Notes,
		&app.CreatedAt, &app.UpdatedAt,
		&job.Title, &job.Company, &job.Location, &job.PostedBy, &job.Status,
		&applicant.Name, &applicant.Email,
	)
	if err != nil {
		return nil, err
	}

	app.CoverLetter = coverLetter.String
	job.ID = app.JobID
	applicant.ID = app.ApplicantID
	app.Job = &job
	app.Applicant = &applicant
	return &app, nil
}

const applicationFrom = `
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN users u ON u.id = a.applicant_id`

// Create inserts the application and increments the job's counter in
// one transaction.
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO applications (job_id, applicant_id, cover_letter, resume)
			VALUES ($1, $2, NULLIF($3, ''), $4)
			RETURNING id, status, applied_at, created_at, updated_at`,
			app.JobID, app.ApplicantID, app.CoverLetter, app.Resume,
		).Scan(&app.ID, &app.Status, &app.AppliedAt, &app.CreatedAt, &app.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to create application: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE jobs SET applications_count = applications_count + 1 WHERE id = $1`,
			app.JobID)
		if err != nil {
			return fmt.Errorf("failed to increment application counter: %w", err)
		}
		return nil
	})
}

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + applicationFrom + ` WHERE a.id = $1`

	app, err := scanApplication(r.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

func (r *applicationRepository) Exists(ctx context.Context, jobID, applicantID int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = $1 AND applicant_id = $2)`,
		jobID, applicantID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}
	return exists, nil
}

func (r *applicationRepository) list(ctx context.Context, where string, args []interface{}, page models.Pagination) (*models.Page[models.Application], error) {
	var total int64
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) `+applicationFrom+` WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY a.applied_at DESC LIMIT $%d OFFSET $%d`,
		applicationColumns, applicationFrom, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return &models.Page[models.Application]{Items: apps, Total: total}, nil
}

func (r *applicationRepository) ListByApplicant(ctx context.Context, applicantID int64, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error) {
	where := "a.applicant_id = $1"
	args := []interface{}{applicantID}
	if filter.Status != nil {
		where += " AND a.status = $2"
		args = append(args, *filter.Status)
	}
	return r.list(ctx, where, args, page)
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID int64, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error) {
	where := "a.job_id = $1"
	args := []interface{}{jobID}
	if filter.Status != nil {
		where += " AND a.status = $2"
		args = append(args, *filter.Status)
	}
	return r.list(ctx, where, args, page)
}

func (r *applicationRepository) ListAll(ctx context.Context, filter models.ApplicationFilter, page models.Pagination) (*models.Page[models.Application], error) {
	where := "TRUE"
	args := []interface{}{}
	if filter.Status != nil {
		where += " AND a.status = $1"
		args = append(args, *filter.Status)
	}
	return r.list(ctx, where, args, page)
}

// UpdateStatus records the review decision, reviewer and timestamp,
// plus optional notes, rating and interview details.
func (r *applicationRepository) UpdateStatus(ctx context.Context, id int64, params UpdateStatusParams) error {
	query := `
		UPDATE applications SET
			status = $2,
			reviewed_by = $3,
			reviewed_at = CURRENT_TIMESTAMP,
			notes = COALESCE($4, notes),
			rating = COALESCE($5, rating),
			updated_at = CURRENT_TIMESTAMP`
	args := []interface{}{id, params.Status, params.ReviewerID, params.Notes, params.Rating}

	if iv := params.Interview; iv != nil {
		query += `,
			interview_scheduled = $6,
			interview_date = $7,
			interview_time = $8,
			interview_location = $9,
			interview_type = $10,
			interview_notes = $11`
		args = append(args, iv.Scheduled, iv.Date, iv.Time, iv.Location, iv.Type, iv.Notes)
	}
	query += ` WHERE id = $1`

	result, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete withdraws an application and decrements the job's counter,
// floored at zero, in one transaction.
func (r *applicationRepository) Delete(ctx context.Context, id int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		var jobID int64
		err := tx.QueryRowContext(ctx,
			`DELETE FROM applications WHERE id = $1 RETURNING job_id`, id).Scan(&jobID)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to delete application: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE jobs SET applications_count = GREATEST(applications_count - 1, 0) WHERE id = $1`,
			jobID)
		if err != nil {
			return fmt.Errorf("failed to decrement application counter: %w", err)
		}
		return nil
	})
}

func (r *applicationRepository) StatusDistribution(ctx context.Context) ([]models.StatusCount, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM applications
		GROUP BY status ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get status distribution: %w", err)
	}
	defer rows.Close()

	counts := []models.StatusCount{}
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// file: internal/repositories/job_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/database"
	"github.com/githubscientist/jp-backend/internal/models"
)

type jobRepository struct {
	*BaseRepository
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *database.Manager, logger *zap.Logger) JobRepository {
	return &jobRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const jobColumnsQualified = `
	j.id, j.posted_by, j.title, j.description, j.requirements, j.company,
	j.location, j.job_type, j.category, j.experience_level,
	j.salary_min, j.salary_max, j.salary_currency,
	j.skills, j.benefits, j.application_deadline, j.status,
	j.applications_count, j.views, j.is_remote, j.tags,
	j.created_at, j.updated_at`

// Sortable columns exposed to clients, mapped to real column names.
var jobSortColumns = map[string]string{
	"createdAt":           "created_at",
	"created_at":          "created_at",
	"title":               "title",
	"views":               "views",
	"applicationsCount":   "applications_count",
	"applications_count":  "applications_count",
	"salaryMin":           "salary_min",
	"salaryMax":           "salary_max",
	"applicationDeadline": "application_deadline",
}

func scanJob(row rowScanner, withPoster bool) (*models.Job, error) {
	var job models.Job
	dest := []interface{}{
		&job.ID, &job.PostedBy, &job.Title, &job.Description, &job.Requirements,
		&job.Company, &job.Location, &job.JobType, &job.Category,
		&job.ExperienceLevel,
		&job.Salary.Min, &job.Salary.Max, &job.Salary.Currency,
		pq.Array(&job.Skills), pq.Array(&job.Benefits),
		&job.ApplicationDeadline, &job.Status,
		&job.ApplicationsCount, &job.Views, &job.IsRemote, pq.Array(&job.Tags),
		&job.CreatedAt, &job.UpdatedAt,
	}

	var poster models.JobPoster
	if withPoster {
		dest = append(dest, &poster.Name, &poster.CompanyName, &poster.CompanyLogo)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if withPoster {
		poster.ID = job.PostedBy
		job.Poster = &poster
	}
	for _, s := range []*[]string{&job.Skills, &job.Benefits, &job.Tags} {
		if *s == nil {
			*s = []string{}
		}
	}
	return &job, nil
}

func collectJobsWithPoster(rows *sql.Rows) ([]models.Job, error) {
	jobs := []models.Job{}
	for rows.Next() {
		job, err := scanJob(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// ===============================
// CRUD
// ===============================

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (
			posted_by, title, description, requirements, company, location,
			job_type, category, experience_level,
			salary_min, salary_max, salary_currency,
			skills, benefits, application_deadline, status, is_remote, tags
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16, $17, $18
		)
		RETURNING id, applications_count, views, created_at, updated_at`

	err := r.QueryRowContext(ctx, query,
		job.PostedBy, job.Title, job.Description, job.Requirements,
		job.Company, job.Location, job.JobType, job.Category,
		job.ExperienceLevel,
		job.Salary.Min, job.Salary.Max, job.Salary.Currency,
		pq.Array(job.Skills), pq.Array(job.Benefits),
		job.ApplicationDeadline, job.Status, job.IsRemote, pq.Array(job.Tags),
	).Scan(&job.ID, &job.ApplicationsCount, &job.Views, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	query := `
		SELECT ` + jobColumnsQualified + `,
			u.name, u.company_name, u.company_logo
		FROM jobs j
		JOIN users u ON u.id = j.posted_by
		WHERE j.id = $1`

	job, err := scanJob(r.QueryRowContext(ctx, query, id), true)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs SET
			title = $2, description = $3, requirements = $4, company = $5,
			location = $6, job_type = $7, category = $8, experience_level = $9,
			salary_min = $10, salary_max = $11, salary_currency = $12,
			skills = $13, benefits = $14, application_deadline = $15,
			status = $16, is_remote = $17, tags = $18,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(ctx, query,
		job.ID, job.Title, job.Description, job.Requirements, job.Company,
		job.Location, job.JobType, job.Category, job.ExperienceLevel,
		job.Salary.Min, job.Salary.Max, job.Salary.Currency,
		pq.Array(job.Skills), pq.Array(job.Benefits), job.ApplicationDeadline,
		job.Status, job.IsRemote, pq.Array(job.Tags),
	).Scan(&job.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

// DeleteCascade removes a job and its applications in one transaction.
func (r *jobRepository) DeleteCascade(ctx context.Context, id int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE job_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete job applications: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete job: %w", err)
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// IncrementViews bumps the view counter with a single atomic update.
func (r *jobRepository) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.ExecContext(ctx,
		`UPDATE jobs SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// ===============================
// LISTING & SEARCH
// ===============================

func (r *jobRepository) List(ctx context.Context, filter models.JobFilter, page models.Pagination) (*models.Page[models.Job], error) {
	where := "j.status = 'active'"
	args := []interface{}{}
	argIndex := 1

	if filter.Location != nil {
		where += fmt.Sprintf(" AND j.location ILIKE $%d", argIndex)
		args = append(args, "%"+*filter.Location+"%")
		argIndex++
	}
	if filter.JobType != nil {
		where += fmt.Sprintf(" AND j.job_type = $%d", argIndex)
		args = append(args, *filter.JobType)
		argIndex++
	}
	if filter.Category != nil {
		where += fmt.Sprintf(" AND j.category = $%d", argIndex)
		args = append(args, *filter.Category)
		argIndex++
	}
	if filter.ExperienceLevel != nil {
		where += fmt.Sprintf(" AND j.experience_level = $%d", argIndex)
		args = append(args, *filter.ExperienceLevel)
		argIndex++
	}
	if filter.MinSalary != nil {
		where += fmt.Sprintf(" AND j.salary_max >= $%d", argIndex)
		args = append(args, *filter.MinSalary)
		argIndex++
	}
	if filter.MaxSalary != nil {
		where += fmt.Sprintf(" AND j.salary_min <= $%d", argIndex)
		args = append(args, *filter.MaxSalary)
		argIndex++
	}
	if filter.Remote != nil {
		where += fmt.Sprintf(" AND j.is_remote = $%d", argIndex)
		args = append(args, *filter.Remote)
		argIndex++
	}

	var total int64
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs j WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	sortColumn, ok := jobSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s, u.name, u.company_name, u.company_logo
		FROM jobs j
		JOIN users u ON u.id = j.posted_by
		WHERE %s
		ORDER BY j.%s %s
		LIMIT $%d OFFSET $%d`,
		jobColumnsQualified, where, sortColumn, order, argIndex, argIndex+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := collectJobsWithPoster(rows)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.Job]{Items: jobs, Total: total}, nil
}

// Search matches active jobs against the full-text index, ranked by
// relevance.
func (r *jobRepository) Search(ctx context.Context, query string, location *string, page models.Pagination) (*models.Page[models.Job], error) {
	where := `j.status = 'active' AND j.search_tsv @@ plainto_tsquery('english', $1)`
	args := []interface{}{query}
	argIndex := 2

	if location != nil {
		where += fmt.Sprintf(" AND j.location ILIKE $%d", argIndex)
		args = append(args, "%"+*location+"%")
		argIndex++
	}

	var total int64
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs j WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}

	sqlQuery := fmt.Sprintf(`
		SELECT %s, u.name, u.company_name, u.company_logo
		FROM jobs j
		JOIN users u ON u.id = j.posted_by
		WHERE %s
		ORDER BY ts_rank(j.search_tsv, plainto_tsquery('english', $1)) DESC
		LIMIT $%d OFFSET $%d`,
		jobColumnsQualified, where, argIndex, argIndex+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := collectJobsWithPoster(rows)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.Job]{Items: jobs, Total: total}, nil
}

func (r *jobRepository) ListByEmployer(ctx context.Context, employerID int64, page models.Pagination) (*models.Page[models.Job], error) {
	var total int64
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs WHERE posted_by = $1`, employerID).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count employer jobs: %w", err)
	}

	query := `
		SELECT ` + jobColumnsQualified + `,
			u.name, u.company_name, u.company_logo
		FROM jobs j
		JOIN users u ON u.id = j.posted_by
		WHERE j.posted_by = $1
		ORDER BY j.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.QueryContext(ctx, query, employerID, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list employer jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := collectJobsWithPoster(rows)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.Job]{Items: jobs, Total: total}, nil
}

func (r *jobRepository) AdminList(ctx context.Context, filter models.AdminJobFilter, page models.Pagination) (*models.Page[models.Job], error) {
	where := "TRUE"
	args := []interface{}{}
	argIndex := 1

	if filter.Status != nil {
		where += fmt.Sprintf(" AND j.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.Search != nil {
		where += fmt.Sprintf(" AND (j.title ILIKE $%d OR j.company ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	var total int64
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs j WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, u.name, u.company_name, u.company_logo
		FROM jobs j
		JOIN users u ON u.id = j.posted_by
		WHERE %s
		ORDER BY j.created_at DESC
		LIMIT $%d OFFSET $%d`,
		jobColumnsQualified, where, argIndex, argIndex+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := collectJobsWithPoster(rows)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.Job]{Items: jobs, Total: total}, nil
}

// ===============================
// STATISTICS
// ===============================

func (r *jobRepository) Stats(ctx context.Context) (*models.JobStats, error) {
	stats := &models.JobStats{
		TopCategories: []models.CategoryCount{},
		TopLocations:  []models.LocationCount{},
	}

	err := r.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(AVG(salary_min), 0),
			COALESCE(AVG(salary_max), 0),
			COALESCE(SUM(views), 0)
		FROM jobs WHERE status = 'active'`,
	).Scan(&stats.TotalJobs, &stats.AvgSalaryMin, &stats.AvgSalaryMax, &stats.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("failed to get job aggregates: %w", err)
	}

	rows, err := r.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM jobs WHERE status = 'active'
		GROUP BY category ORDER BY COUNT(*) DESC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to get top categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		stats.TopCategories = append(stats.TopCategories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	locRows, err := r.QueryContext(ctx, `
		SELECT location, COUNT(*) FROM jobs WHERE status = 'active'
		GROUP BY location ORDER BY COUNT(*) DESC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to get top locations: %w", err)
	}
	defer locRows.Close()
	for locRows.Next() {
		var l models.LocationCount
		if err := locRows.Scan(&l.Location, &l.Count); err != nil {
			return nil, fmt.Errorf("failed to scan location count: %w", err)
		}
		stats.TopLocations = append(stats.TopLocations, l)
	}
	return stats, locRows.Err()
}

func (r *jobRepository) CategoryDistribution(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM jobs
		GROUP BY category ORDER BY COUNT(*) DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get category distribution: %w", err)
	}
	defer rows.Close()

	counts := []models.CategoryCount{}
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// file: internal/repositories/user_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/database"
	"github.com/githubscientist/jp-backend/internal/models"
)

type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const userColumns = `
	id, name, email, password_hash, role,
	bio, skills, experience, education, resume, profile_picture,
	location, website, linkedin, github,
	company_name, company_description, company_website, company_location,
	company_logo, company_industry, company_size,
	is_active, last_login, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.Profile.Bio, pq.Array(&user.Profile.Skills), &user.Profile.Experience,
		&user.Profile.Education, &user.Profile.Resume, &user.Profile.ProfilePicture,
		&user.Profile.Location, &user.Profile.Website, &user.Profile.Linkedin,
		&user.Profile.Github,
		&user.Company.Name, &user.Company.Description, &user.Company.Website,
		&user.Company.Location, &user.Company.Logo, &user.Company.Industry,
		&user.Company.Size,
		&user.IsActive, &user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if user.Profile.Skills == nil {
		user.Profile.Skills = []string{}
	}
	return &user, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

// isForeignKeyViolation reports whether err is a Postgres FK constraint error.
func isForeignKeyViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23503"
	}
	return false
}

// ===============================
// ACCOUNT OPERATIONS
// ===============================

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, updated_at`

	err := r.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.Profile.Skills = []string{}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(r.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			name = $2,
			bio = $3, skills = $4, experience = $5, education = $6,
			resume = $7, profile_picture = $8, location = $9,
			website = $10, linkedin = $11, github = $12,
			company_name = $13, company_description = $14, company_website = $15,
			company_location = $16, company_logo = $17, company_industry = $18,
			company_size = $19,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(ctx, query,
		user.ID, user.Name,
		user.Profile.Bio, pq.Array(user.Profile.Skills), user.Profile.Experience,
		user.Profile.Education, user.Profile.Resume, user.Profile.ProfilePicture,
		user.Profile.Location, user.Profile.Website, user.Profile.Linkedin,
		user.Profile.Github,
		user.Company.Name, user.Company.Description, user.Company.Website,
		user.Company.Location, user.Company.Logo, user.Company.Industry,
		user.Company.Size,
	).Scan(&user.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.ExecContext(ctx,
		`UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// UpdateRole changes a user's role. Demoting the last active admin is
// rejected inside the same transaction that performs the update.
func (r *userRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		currentRole, _, err := lockUserRole(ctx, tx, id)
		if err != nil {
			return err
		}

		if currentRole == models.RoleAdmin && role != models.RoleAdmin {
			if err := guardLastActiveAdmin(ctx, tx); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET role = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
			id, role)
		if err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}
		return nil
	})
}

// SetActive toggles a user's active flag. Deactivating the last active
// admin is rejected.
func (r *userRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		role, isActive, err := lockUserRole(ctx, tx, id)
		if err != nil {
			return err
		}

		if !active && isActive && role == models.RoleAdmin {
			if err := guardLastActiveAdmin(ctx, tx); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET is_active = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
			id, active)
		if err != nil {
			return fmt.Errorf("failed to update active flag: %w", err)
		}
		return nil
	})
}

// Delete removes a user's own account. The user's applications are
// removed and their jobs' counters adjusted, but posted jobs are left
// untouched; a remaining reference surfaces as ErrHasDependents.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		role, isActive, err := lockUserRole(ctx, tx, id)
		if err != nil {
			return err
		}
		if role == models.RoleAdmin && isActive {
			if err := guardLastActiveAdmin(ctx, tx); err != nil {
				return err
			}
		}

		if err := deleteUserApplications(ctx, tx, id); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrHasDependents
			}
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteCascade removes a user and everything they own: their
// applications, applications to their jobs, and the jobs themselves,
// in one transaction. The last active admin cannot be deleted.
func (r *userRepository) DeleteCascade(ctx context.Context, id int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		role, isActive, err := lockUserRole(ctx, tx, id)
		if err != nil {
			return err
		}
		if role == models.RoleAdmin && isActive {
			if err := guardLastActiveAdmin(ctx, tx); err != nil {
				return err
			}
		}

		if err := deleteUserApplications(ctx, tx, id); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM applications WHERE job_id IN (SELECT id FROM jobs WHERE posted_by = $1)`, id)
		if err != nil {
			return fmt.Errorf("failed to delete applications to user's jobs: %w", err)
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM jobs WHERE posted_by = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user's jobs: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// lockUserRole locks the user row and returns its role and active flag.
func lockUserRole(ctx context.Context, tx *sql.Tx, id int64) (string, bool, error) {
	var role string
	var isActive bool
	err := tx.QueryRowContext(ctx,
		`SELECT role, is_active FROM users WHERE id = $1 FOR UPDATE`, id,
	).Scan(&role, &isActive)
	if err == sql.ErrNoRows {
		return "", false, ErrNotFound
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to lock user row: %w", err)
	}
	return role, isActive, nil
}

// guardLastActiveAdmin fails with ErrLastAdmin when at most one active
// admin remains. Must run inside the transaction that mutates the row.
func guardLastActiveAdmin(ctx context.Context, tx *sql.Tx) error {
	var count int64
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1 AND is_active = TRUE`,
		models.RoleAdmin,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count active admins: %w", err)
	}
	if count <= 1 {
		return ErrLastAdmin
	}
	return nil
}

// deleteUserApplications removes the user's own applications and
// decrements the affected jobs' counters, floored at zero.
func deleteUserApplications(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE jobs SET applications_count = GREATEST(applications_count - sub.n, 0)
		FROM (SELECT job_id, COUNT(*) AS n FROM applications WHERE applicant_id = $1 GROUP BY job_id) AS sub
		WHERE jobs.id = sub.job_id`, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust application counters: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM applications WHERE applicant_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user's applications: %w", err)
	}
	return nil
}

// ===============================
// LISTING
// ===============================

func (r *userRepository) List(ctx context.Context, filter models.UserFilter, page models.Pagination) (*models.Page[models.User], error) {
	where := "TRUE"
	args := []interface{}{}
	argIndex := 1

	if filter.Role != nil {
		where += fmt.Sprintf(" AND role = $%d", argIndex)
		args = append(args, *filter.Role)
		argIndex++
	}
	if filter.IsActive != nil {
		where += fmt.Sprintf(" AND is_active = $%d", argIndex)
		args = append(args, *filter.IsActive)
		argIndex++
	}
	if filter.Search != nil {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	var total int64
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, argIndex, argIndex+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return &models.Page[models.User]{Items: users, Total: total}, nil
}

// ===============================
// FAVORITES
// ===============================

func (r *userRepository) AddFavorite(ctx context.Context, userID, jobID int64) error {
	_, err := r.ExecContext(ctx,
		`INSERT INTO user_favorites (user_id, job_id) VALUES ($1, $2)`,
		userID, jobID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *userRepository) RemoveFavorite(ctx context.Context, userID, jobID int64) error {
	_, err := r.ExecContext(ctx,
		`DELETE FROM user_favorites WHERE user_id = $1 AND job_id = $2`,
		userID, jobID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (r *userRepository) IsFavorite(ctx context.Context, userID, jobID int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_favorites WHERE user_id = $1 AND job_id = $2)`,
		userID, jobID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

func (r *userRepository) ListFavorites(ctx context.Context, userID int64, page models.Pagination) (*models.Page[models.Job], error) {
	var total int64
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_favorites WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count favorites: %w", err)
	}

	query := `
		SELECT ` + jobColumnsQualified + `,
			u.name, u.company_name, u.company_logo
		FROM user_favorites f
		JOIN jobs j ON j.id = f.job_id
		JOIN users u ON u.id = j.posted_by
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.QueryContext(ctx, query, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
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

func (r *userRepository) Activity(ctx context.Context, id int64) (*models.UserActivity, error) {
	var activity models.UserActivity
	err := r.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM jobs WHERE posted_by = $1),
			(SELECT COUNT(*) FROM applications WHERE applicant_id = $1),
			(SELECT COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id WHERE j.posted_by = $1)`,
		id).Scan(&activity.JobsPosted, &activity.ApplicationsSubmitted, &activity.ApplicationsReceived)
	if err != nil {
		return nil, fmt.Errorf("failed to get user activity: %w", err)
	}
	return &activity, nil
}

func (r *userRepository) Overview(ctx context.Context) (*models.AdminOverview, error) {
	var o models.AdminOverview
	err := r.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE role = 'jobseeker'),
			(SELECT COUNT(*) FROM users WHERE role = 'employer'),
			(SELECT COUNT(*) FROM users WHERE role = 'admin'),
			(SELECT COUNT(*) FROM users WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM jobs),
			(SELECT COUNT(*) FROM jobs WHERE status = 'active'),
			(SELECT COUNT(*) FROM applications)`,
	).Scan(
		&o.TotalUsers, &o.TotalJobseekers, &o.TotalEmployers, &o.TotalAdmins,
		&o.ActiveUsers, &o.TotalJobs, &o.ActiveJobs, &o.TotalApplications,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get overview stats: %w", err)
	}
	return &o, nil
}

func (r *userRepository) RecentActivity(ctx context.Context, days int) (*models.AdminRecentActivity, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	var a models.AdminRecentActivity
	err := r.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE created_at >= $1),
			(SELECT COUNT(*) FROM jobs WHERE created_at >= $1),
			(SELECT COUNT(*) FROM applications WHERE applied_at >= $1)`,
		cutoff).Scan(&a.NewUsers, &a.NewJobs, &a.NewApplications)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activity: %w", err)
	}
	return &a, nil
}

func (r *userRepository) MonthlyRegistrations(ctx context.Context, months int) ([]models.MonthCount, error) {
	cutoff := time.Now().AddDate(0, -months, 0)

	rows, err := r.QueryContext(ctx, `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month, COUNT(*)
		FROM users
		WHERE created_at >= $1
		GROUP BY month
		ORDER BY month`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly registrations: %w", err)
	}
	defer rows.Close()

	series := []models.MonthCount{}
	for rows.Next() {
		var m models.MonthCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, fmt.Errorf("failed to scan month count: %w", err)
		}
		series = append(series, m)
	}
	return series, rows.Err()
}

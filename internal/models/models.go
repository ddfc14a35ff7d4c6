// file: internal/models/models.go
package models

import (
	"time"
)

// ===============================
// ROLES & ENUMS
// ===============================

// User roles
const (
	RoleJobseeker = "jobseeker"
	RoleEmployer  = "employer"
	RoleAdmin     = "admin"
)

// Job statuses
const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

// Application statuses
const (
	ApplicationPending     = "pending"
	ApplicationReviewed    = "reviewed"
	ApplicationShortlisted = "shortlisted"
	ApplicationInterviewed = "interviewed"
	ApplicationHired       = "hired"
	ApplicationRejected    = "rejected"
)

// ValidRoles lists every role a user can hold.
var ValidRoles = []string{RoleJobseeker, RoleEmployer, RoleAdmin}

// ValidApplicationStatuses lists every reviewable application status.
var ValidApplicationStatuses = []string{
	ApplicationPending, ApplicationReviewed, ApplicationShortlisted,
	ApplicationInterviewed, ApplicationHired, ApplicationRejected,
}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidApplicationStatus reports whether status is a known application status.
func IsValidApplicationStatus(status string) bool {
	for _, s := range ValidApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminalApplicationStatus reports whether status permits no further
// transition (withdrawal included).
func IsTerminalApplicationStatus(status string) bool {
	return status == ApplicationHired || status == ApplicationRejected
}

// ===============================
// CORE ENTITIES
// ===============================

// Profile holds the job-seeker facing portion of a user record.
type Profile struct {
	Bio            *string  `json:"bio,omitempty" db:"bio"`
	Skills         []string `json:"skills" db:"skills"`
	Experience     *string  `json:"experience,omitempty" db:"experience"`
	Education      *string  `json:"education,omitempty" db:"education"`
	Resume         *string  `json:"resume,omitempty" db:"resume"`
	ProfilePicture *string  `json:"profilePicture,omitempty" db:"profile_picture"`
	Location       *string  `json:"location,omitempty" db:"location"`
	Website        *string  `json:"website,omitempty" db:"website"`
	Linkedin       *string  `json:"linkedin,omitempty" db:"linkedin"`
	Github         *string  `json:"github,omitempty" db:"github"`
}

// Company holds the employer facing portion of a user record.
type Company struct {
	Name        *string `json:"name,omitempty" db:"company_name"`
	Description *string `json:"description,omitempty" db:"company_description"`
	Website     *string `json:"website,omitempty" db:"company_website"`
	Location    *string `json:"location,omitempty" db:"company_location"`
	Logo        *string `json:"logo,omitempty" db:"company_logo"`
	Industry    *string `json:"industry,omitempty" db:"company_industry"`
	Size        *string `json:"size,omitempty" db:"company_size"`
}

// User represents an account in the system. The password hash is never
// serialized to JSON.
type User struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name" validate:"required,max=50"`
	Email        string  `json:"email" db:"email" validate:"required,email"`
	PasswordHash string  `json:"-" db:"password_hash"`
	Role         string  `json:"role" db:"role" validate:"required,oneof=jobseeker employer admin"`
	Profile      Profile `json:"profile" db:"-"`
	Company      Company `json:"company" db:"-"`
	IsActive     bool    `json:"isActive" db:"is_active"`

	LastLogin *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// CanManage reports whether the user may mutate a resource owned by ownerID.
// This is the single ownership-or-admin policy predicate used by every
// mutating operation.
func (u *User) CanManage(ownerID int64) bool {
	return u.ID == ownerID || u.IsAdmin()
}

// Salary describes a job's salary range.
type Salary struct {
	Min      int64  `json:"min" db:"salary_min" validate:"required,min=0"`
	Max      int64  `json:"max" db:"salary_max" validate:"required,gtefield=Min"`
	Currency string `json:"currency" db:"salary_currency"`
}

// JobPoster is the denormalized slice of the posting user attached to job
// listings (name plus company name/logo).
type JobPoster struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	CompanyName *string `json:"companyName,omitempty"`
	CompanyLogo *string `json:"companyLogo,omitempty"`
}

// Job represents a job posting owned by exactly one employer.
type Job struct {
	ID                  int64     `json:"id" db:"id"`
	PostedBy            int64     `json:"postedBy" db:"posted_by"`
	Poster              *JobPoster `json:"poster,omitempty" db:"-"`
	Title               string    `json:"title" db:"title"`
	Description         string    `json:"description" db:"description"`
	Requirements        string    `json:"requirements" db:"requirements"`
	Company             string    `json:"company" db:"company"`
	Location            string    `json:"location" db:"location"`
	JobType             string    `json:"jobType" db:"job_type"`
	Category            string    `json:"category" db:"category"`
	ExperienceLevel     string    `json:"experienceLevel" db:"experience_level"`
	Salary              Salary    `json:"salary" db:"-"`
	Skills              []string  `json:"skills" db:"skills"`
	Benefits            []string  `json:"benefits" db:"benefits"`
	ApplicationDeadline time.Time `json:"applicationDeadline" db:"application_deadline"`
	Status              string    `json:"status" db:"status"`
	ApplicationsCount   int       `json:"applicationsCount" db:"applications_count"`
	Views               int       `json:"views" db:"views"`
	IsRemote            bool      `json:"isRemote" db:"is_remote"`
	Tags                []string  `json:"tags" db:"tags"`
	IsFavorite          *bool     `json:"isFavorite,omitempty" db:"-"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// Interview is the optional interview sub-record of an application.
type Interview struct {
	Scheduled bool       `json:"scheduled"`
	Date      *time.Time `json:"date,omitempty"`
	Time      *string    `json:"time,omitempty"`
	Location  *string    `json:"location,omitempty"`
	Type      *string    `json:"type,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// ApplicationJob is the denormalized slice of the job attached to
// application listings.
type ApplicationJob struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	PostedBy int64  `json:"postedBy"`
	Status   string `json:"status"`
}

// Applicant is the denormalized slice of the applying user attached to
// application listings.
type Applicant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Application joins one Job and one User. The (job, applicant) pair is
// unique; hired and rejected are terminal for withdrawal.
type Application struct {
	ID          int64  `json:"id" db:"id"`
	JobID       int64  `json:"jobId" db:"job_id"`
	ApplicantID int64  `json:"applicantId" db:"applicant_id"`
	CoverLetter string `json:"coverLetter,omitempty" db:"cover_letter"`
	Resume      string `json:"resume" db:"resume"`
	Status      string `json:"status" db:"status"`

	AppliedAt  time.Time  `json:"appliedAt" db:"applied_at"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty" db:"reviewed_at"`
	ReviewedBy *int64     `json:"reviewedBy,omitempty" db:"reviewed_by"`
	Notes      *string    `json:"notes,omitempty" db:"notes"`
	Rating     *int16     `json:"rating,omitempty" db:"rating"`
	Interview  Interview  `json:"interview" db:"-"`

	// Joined metadata for listings
	Job       *ApplicationJob `json:"job,omitempty" db:"-"`
	Applicant *Applicant      `json:"applicant,omitempty" db:"-"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ===============================
// PAGINATION
// ===============================

// Pagination carries page/limit requested by the client.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize clamps pagination to sane bounds.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// Offset returns the row offset for the requested page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns the number of pages a total row count spans.
func (p Pagination) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// Page holds one page of results plus the total matching row count.
type Page[T any] struct {
	Items []T
	Total int64
}

// ===============================
// FILTERS
// ===============================

// JobFilter narrows public job listings. Nil fields are ignored.
type JobFilter struct {
	Location        *string
	JobType         *string
	Category        *string
	ExperienceLevel *string
	MinSalary       *int64
	MaxSalary       *int64
	Remote          *bool
	SortBy          string
	SortOrder       string
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role     *string
	IsActive *bool
	Search   *string
}

// AdminJobFilter narrows admin job listings.
type AdminJobFilter struct {
	Status *string
	Search *string
}

// ApplicationFilter narrows application listings.
type ApplicationFilter struct {
	Status *string
}

// file: internal/services/types.go
package services

import (
	"time"
)

// ===============================
// AUTH REQUESTS
// ===============================

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=jobseeker employer"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ===============================
// JOB REQUESTS
// ===============================

// SalaryRequest is the salary sub-object of job payloads.
type SalaryRequest struct {
	Min      int64  `json:"min" validate:"min=0"`
	Max      int64  `json:"max" validate:"gtefield=Min"`
	Currency string `json:"currency" validate:"omitempty,max=10"`
}

// CreateJobRequest creates a job posting.
type CreateJobRequest struct {
	Title               string        `json:"title" validate:"required,max=100"`
	Description         string        `json:"description" validate:"required,max=5000"`
	Requirements        string        `json:"requirements" validate:"required,max=3000"`
	Company             string        `json:"company" validate:"omitempty,max=200"`
	Location            string        `json:"location" validate:"required,max=200"`
	JobType             string        `json:"jobType" validate:"required,oneof=full-time part-time contract internship remote"`
	Category            string        `json:"category" validate:"required,oneof=Technology Finance Healthcare Education Marketing Sales 'Human Resources' Operations 'Customer Service' Legal Other"`
	ExperienceLevel     string        `json:"experienceLevel" validate:"required,oneof=entry-level mid-level senior-level executive"`
	Salary              SalaryRequest `json:"salary" validate:"required"`
	Skills              []string      `json:"skills"`
	Benefits            []string      `json:"benefits"`
	ApplicationDeadline time.Time     `json:"applicationDeadline" validate:"required"`
	Status              string        `json:"status" validate:"omitempty,oneof=active closed draft"`
	IsRemote            bool          `json:"isRemote"`
	Tags                []string      `json:"tags"`
}

// UpdateJobRequest patches a job posting. Nil fields are left unchanged.
type UpdateJobRequest struct {
	Title               *string        `json:"title" validate:"omitempty,max=100"`
	Description         *string        `json:"description" validate:"omitempty,max=5000"`
	Requirements        *string        `json:"requirements" validate:"omitempty,max=3000"`
	Company             *string        `json:"company" validate:"omitempty,max=200"`
	Location            *string        `json:"location" validate:"omitempty,max=200"`
	JobType             *string        `json:"jobType" validate:"omitempty,oneof=full-time part-time contract internship remote"`
	Category            *string        `json:"category" validate:"omitempty,oneof=Technology Finance Healthcare Education Marketing Sales 'Human Resources' Operations 'Customer Service' Legal Other"`
	ExperienceLevel     *string        `json:"experienceLevel" validate:"omitempty,oneof=entry-level mid-level senior-level executive"`
	Salary              *SalaryRequest `json:"salary"`
	Skills              []string       `json:"skills"`
	Benefits            []string       `json:"benefits"`
	ApplicationDeadline *time.Time     `json:"applicationDeadline"`
	Status              *string        `json:"status" validate:"omitempty,oneof=active closed draft"`
	IsRemote            *bool          `json:"isRemote"`
	Tags                []string       `json:"tags"`
}

// ===============================
// APPLICATION REQUESTS
// ===============================

// ApplyRequest submits an application. The resume URL comes either
// from an uploaded file or from the applicant's stored profile.
type ApplyRequest struct {
	JobID       int64
	CoverLetter string `validate:"omitempty,max=1000"`
	Resume      string
}

// InterviewRequest schedules or reschedules an interview.
type InterviewRequest struct {
	Date     *time.Time `json:"date"`
	Time     *string    `json:"time" validate:"omitempty,max=20"`
	Location *string    `json:"location" validate:"omitempty,max=200"`
	Type     *string    `json:"type" validate:"omitempty,oneof=in-person phone video"`
	Notes    *string    `json:"notes" validate:"omitempty,max=500"`
}

// UpdateApplicationStatusRequest records an employer's review decision.
type UpdateApplicationStatusRequest struct {
	Status    string            `json:"status" validate:"required,oneof=pending reviewed shortlisted interviewed hired rejected"`
	Notes     *string           `json:"notes" validate:"omitempty,max=500"`
	Rating    *int16            `json:"rating" validate:"omitempty,min=1,max=5"`
	Interview *InterviewRequest `json:"interview"`
}

// ===============================
// PROFILE REQUESTS
// ===============================

// CompanyRequest is the employer sub-object of profile payloads.
type CompanyRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Industry    *string `json:"industry" validate:"omitempty,max=100"`
	Size        *string `json:"size" validate:"omitempty,max=50"`
}

// ProfileRequest is the jobseeker sub-object of profile payloads.
type ProfileRequest struct {
	Bio        *string  `json:"bio" validate:"omitempty,max=2000"`
	Skills     []string `json:"skills"`
	Experience *string  `json:"experience" validate:"omitempty,max=3000"`
	Education  *string  `json:"education" validate:"omitempty,max=2000"`
	Location   *string  `json:"location" validate:"omitempty,max=200"`
	Website    *string  `json:"website" validate:"omitempty,url"`
	Linkedin   *string  `json:"linkedin" validate:"omitempty,url"`
	Github     *string  `json:"github" validate:"omitempty,url"`
}

// UpdateProfileRequest patches the allow-listed profile fields. Role,
// email, password and activation flags are never patchable here.
type UpdateProfileRequest struct {
	Name    *string         `json:"name" validate:"omitempty,max=50"`
	Profile *ProfileRequest `json:"profile"`
	Company *CompanyRequest `json:"company"`
}

// ===============================
// ADMIN REQUESTS
// ===============================

// UpdateRoleRequest changes a user's role.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=jobseeker employer admin"`
}

package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ===============================
// ERROR TYPES
// ===============================

// ServiceError is the structured error every service operation returns for
// expected failures. Controllers map it straight onto the response envelope;
// anything that is not a ServiceError surfaces as a generic 500.
type ServiceError struct {
	Type       string       `json:"type"`
	Message    string       `json:"message"`
	Fields     []FieldError `json:"fields,omitempty"`
	StatusCode int          `json:"-"`
	Cause      error        `json:"-"`
}

// FieldError is a single field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// GetStatusCode returns the HTTP status code for this error
func (e *ServiceError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// Error type identifiers. Conflicts and invalid-state transitions map to
// HTTP 400 to preserve the wire behavior of the auth/catalog API.
const (
	TypeValidation   = "VALIDATION_ERROR"
	TypeAuth         = "AUTHENTICATION_ERROR"
	TypeForbidden    = "FORBIDDEN"
	TypeNotFound     = "NOT_FOUND"
	TypeConflict     = "CONFLICT"
	TypeInvalidState = "INVALID_STATE"
	TypeInternal     = "INTERNAL_ERROR"
)

// ===============================
// ERROR CONSTRUCTORS
// ===============================

// NewValidationError creates a validation error (400)
func NewValidationError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       TypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewFieldValidationError creates a validation error carrying the full list
// of field-level violations (400)
func NewFieldValidationError(message string, fields []FieldError) *ServiceError {
	return &ServiceError{
		Type:       TypeValidation,
		Message:    message,
		Fields:     fields,
		StatusCode: http.StatusBadRequest,
	}
}

// NewAuthError creates an authentication error (401)
func NewAuthError(message string) *ServiceError {
	return &ServiceError{
		Type:       TypeAuth,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a forbidden error (403)
func NewForbiddenError(message string) *ServiceError {
	return &ServiceError{
		Type:       TypeForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewNotFoundError creates a not found error (404)
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{
		Type:       TypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewConflictError creates a duplicate/business-rule conflict error (400)
func NewConflictError(message string) *ServiceError {
	return &ServiceError{
		Type:       TypeConflict,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewInvalidStateError creates an error for operations rejected by the
// current lifecycle state of the target (400)
func NewInvalidStateError(message string) *ServiceError {
	return &ServiceError{
		Type:       TypeInvalidState,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewInternalError creates an internal server error (500)
func NewInternalError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       TypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ===============================
// ERROR UTILITIES
// ===============================

// GetServiceError extracts a ServiceError from an error chain, wrapping
// anything unexpected in a generic internal error.
func GetServiceError(err error) *ServiceError {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}
	return NewInternalError("Server error", err)
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType string) bool {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Type == errorType
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return IsErrorType(err, TypeNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return IsErrorType(err, TypeValidation)
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return IsErrorType(err, TypeConflict)
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	return IsErrorType(err, TypeAuth)
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return IsErrorType(err, TypeForbidden)
}

// IsInvalidStateError checks if an error is an invalid state error
func IsInvalidStateError(err error) bool {
	return IsErrorType(err, TypeInvalidState)
}

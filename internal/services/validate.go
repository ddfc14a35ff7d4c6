package services

import (
	"github.com/githubscientist/jp-backend/internal/validation"
)

// validateRequest runs struct validation and converts violations into
// a field-level validation error, or nil when the request is valid.
func validateRequest(req interface{}) *ServiceError {
	violations := validation.ValidateStruct(req)
	if len(violations) == 0 {
		return nil
	}
	fields := make([]FieldError, len(violations))
	for i, v := range violations {
		fields[i] = FieldError{Field: v.Field, Message: v.Message}
	}
	return NewFieldValidationError("validation failed", fields)
}

package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError describes a single field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateStruct validates a struct using go-playground/validator and
// returns the full list of field-level violations, or nil when valid.
func ValidateStruct(s interface{}) []FieldError {
	if s == nil {
		return nil
	}

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		fields = append(fields, FieldError{
			Field:   fieldName(e),
			Message: messageFor(e),
		})
	}
	return fields
}

// fieldName lowercases the leading struct field segment so errors read like
// JSON keys ("salary.max" rather than "Salary.Max").
func fieldName(e validator.FieldError) string {
	// Namespace is "Struct.Field" or "Struct.Nested.Field"; drop the root.
	parts := strings.Split(e.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = lowerFirst(p)
	}
	return strings.Join(parts, ".")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// messageFor renders a human-readable message per validation tag.
func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", lowerFirst(e.Field()))
	case "email":
		return "must be a valid email address"
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("cannot be more than %s characters", e.Param())
		}
		return fmt.Sprintf("cannot be more than %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "gtefield":
		return fmt.Sprintf("must be greater than or equal to %s", lowerFirst(e.Param()))
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed validation on '%s'", e.Tag())
	}
}

package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// FieldError is a single failed rule on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates multiple validation errors
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// NewValidationErrors creates a new validation errors collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]FieldError, 0),
	}
}

// Add adds a validation error
func (v *ValidationErrors) Add(field string, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

// Addf adds a validation error with a formatted message
func (v *ValidationErrors) Addf(field string, format string, args ...interface{}) {
	v.Add(field, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are validation errors
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}

	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// ToMap converts validation errors to a map for JSON serialization
func (v *ValidationErrors) ToMap() map[string][]string {
	result := make(map[string][]string)
	for _, err := range v.Errors {
		field := err.Field
		if field == "" {
			field = "general"
		}
		result[field] = append(result[field], err.Message)
	}
	return result
}

// AsAppError folds the collection into a single VALIDATION AppError.
func (v *ValidationErrors) AsAppError() *AppError {
	details := make(map[string]interface{}, len(v.Errors))
	for field, msgs := range v.ToMap() {
		details[field] = msgs
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    v.Error(),
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

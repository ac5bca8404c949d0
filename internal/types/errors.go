package types

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when input fails business-rule or regulatory validation.
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when the acting user may not perform the operation.
	ErrUnauthorized = errors.New("not authorized")
	// ErrConflict is returned when the change would create a duplicate.
	ErrConflict = errors.New("conflict")
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field" example:"chemicalName"`
	Message string `json:"message" example:"is required"`
}

// ValidationError collects one or more field errors. It matches ErrValidation via errors.Is.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

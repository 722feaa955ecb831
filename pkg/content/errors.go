package content

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors shared by the store and the HTTP layer.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError describes a validation failure on one field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the field-level problems of a rejected write.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("%d invalid fields: %s %s", len(e.Errors), e.Errors[0].Field, e.Errors[0].Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// ParseError marks a document that is not well-formed JSON for the portfolio schema.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse portfolio document %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

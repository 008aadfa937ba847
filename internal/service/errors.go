package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound means the primary entity of an operation does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when adding a relation that already exists.
	ErrConflict = errors.New("already exists")
	// ErrRelationNotFound is returned when removing a relation that does not exist.
	ErrRelationNotFound = errors.New("relation does not exist")
	// ErrForbidden means the caller is identified but may not perform the write.
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrUnauthorized means the caller could not be identified.
	ErrUnauthorized = errors.New("authentication credentials were not provided or are invalid")
)

// ValidationError collects field-scoped messages.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// FieldError builds a ValidationError with a single message.
func FieldError(field, msg string) *ValidationError {
	v := NewValidationError()
	v.Add(field, msg)
	return v
}

func (v *ValidationError) Add(field, msg string) {
	v.Fields[field] = append(v.Fields[field], msg)
}

func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

// OrNil returns v as an error only when it holds messages.
func (v *ValidationError) OrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(v.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ConflictError carries a user-facing message and unwraps to ErrConflict or
// ErrRelationNotFound.
type ConflictError struct {
	Kind    error
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
func (e *ConflictError) Unwrap() error { return e.Kind }

func conflict(msg string) error {
	return &ConflictError{Kind: ErrConflict, Message: msg}
}

func missingRelation(msg string) error {
	return &ConflictError{Kind: ErrRelationNotFound, Message: msg}
}

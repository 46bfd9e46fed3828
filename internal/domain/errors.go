package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden indicates the actor lacks role or ownership for the mutation.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a concurrent writer got there first.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState indicates a lifecycle rule rejected the operation.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidTransition indicates a state machine rejected the requested move.
	ErrInvalidTransition = errors.New("invalid transition")
)

// ValidationError reports business-rule violations with enough structure to
// pinpoint the offending field or cart item. Nothing is ever partially
// applied when one is returned.
type ValidationError struct {
	Message string
	// Fields maps request field names to violation messages.
	Fields map[string]string
	// Items maps product ids to violation messages collected during cart
	// revalidation. Validation is exhaustive, not short-circuiting.
	Items map[int64]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields)+len(e.Items))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	for id, msg := range e.Items {
		parts = append(parts, fmt.Sprintf("product %d: %s", id, msg))
	}
	sort.Strings(parts)
	if len(parts) == 0 {
		return "validation error"
	}
	return strings.Join(parts, "; ")
}

// FieldError builds a single-field ValidationError.
func FieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

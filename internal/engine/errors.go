package engine

import (
	"errors"
	"fmt"
)

// ErrInsufficientCandidates means filtering left zero eligible movements or
// pool entries for generation. It is an expected, user-actionable condition:
// the caller should relax constraints or add movements, never receive an
// empty workout in its place.
var ErrInsufficientCandidates = errors.New("no eligible candidates after filtering")

// ErrNotFound means a referenced template, pool entry, or movement does not
// exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed input to a creation or generation call.
// It carries the operation and field so the caller can render a usable
// message.
type ValidationError struct {
	Op     string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Op, e.Field, e.Reason)
}

// Validationf builds a ValidationError for the given operation and field.
func Validationf(op, field, format string, args ...any) error {
	return &ValidationError{Op: op, Field: field, Reason: fmt.Sprintf(format, args...)}
}

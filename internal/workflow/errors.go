package workflow

import (
	"errors"
	"strings"
)

// ErrUnknownWorkflowType indicates no handler is registered for the
// requested workflow type name.
var ErrUnknownWorkflowType = errors.New("unknown workflow type")

// ValidationError aggregates every input violation a handler detected.
// Validation always runs to completion so callers see the full list.
type ValidationError struct {
	// Violations describes each failed constraint.
	Violations []string
}

func (e *ValidationError) Error() string {
	return "input validation failed: " + strings.Join(e.Violations, "; ")
}

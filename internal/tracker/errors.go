// Package tracker owns the saved-job lifecycle: validation, idempotent saves,
// status/notes/deadline edits, and the in-memory index of saved URLs.
package tracker

import "fmt"

// ValidationError indicates a missing or malformed field. It is returned
// before any storage call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NotFoundError indicates an operation referenced an unknown job ID
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("job not found: %d", e.ID)
}

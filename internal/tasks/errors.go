package tasks

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("invalid task")
	// ErrNotFound is returned for ids that do not name a task.
	ErrNotFound = errors.New("task not found")
	// ErrNotEditing is returned by CommitEdit when no task is being edited.
	ErrNotEditing = errors.New("no task is being edited")
)

// ValidationError explains why a draft was rejected. The store is left untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError means the input was incomplete or malformed. The user
// must fix the form; retrying unchanged input will fail again.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, "; "))
}

// NotFoundError means the operation needs state that does not exist.
type NotFoundError struct {
	UserID string
	What   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found for user %q", e.What, e.UserID)
}

// PersistenceError means the plan document could not be read or written.
// A failed write leaves the previous state in place; the whole operation
// may be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Retryable is always true: nothing was committed.
func (e *PersistenceError) Retryable() bool { return true }

// SyncError means the plan was saved but the daily-practice queue could
// not be updated. The user should check their task list.
type SyncError struct {
	UserID string
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("plan saved but daily practice sync failed for user %q: %v", e.UserID, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsPersistence reports whether err is or wraps a *PersistenceError.
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

// IsSync reports whether err is or wraps a *SyncError.
func IsSync(err error) bool {
	var target *SyncError
	return errors.As(err, &target)
}

package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidOdds      = errors.New("invalid american odds: price cannot be 0")
	ErrInsufficientData = errors.New("insufficient stats data to score")
	ErrDuplicateKey     = errors.New("duplicate key violation")
)

// PersistenceError represents a storage-layer failure. It is transient: the
// caller may retry the whole operation because all writes are idempotent.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error in %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// NewPersistenceError wraps a storage error with the failed operation name
func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Cause: cause}
}

// IsRetryable reports whether the error is worth retrying
func IsRetryable(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is a sentinel error for lookups of unknown roles, channels, users, threads and commands
var ErrNotFound = errors.New("not found")

// ErrPermissionDenied is a sentinel error for role-gated operations
var ErrPermissionDenied = errors.New("permission denied")

// PermissionError carries the refusal text shown to the user
type PermissionError struct {
	Message string
}

func NewPermissionError(format string, args ...any) *PermissionError {
	return &PermissionError{Message: fmt.Sprintf(format, args...)}
}

func (e *PermissionError) Error() string {
	return e.Message
}

func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound)
}

// IsPermissionError checks if an error is a permission refusal
func IsPermissionError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrPermissionDenied)
}

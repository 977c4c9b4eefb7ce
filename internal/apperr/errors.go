package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Wrapped errors are matched with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrStorage         = errors.New("storage error")
	ErrValidation      = errors.New("validation error")
)

// StorageError wraps a failure from the database or cache.
type StorageError struct {
	Op  string
	err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.err)
}

func (e *StorageError) Unwrap() error { return e.err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Storage returns nil when err is nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, err: err}
}

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Status maps an error kind to the HTTP status used at the handler boundary.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

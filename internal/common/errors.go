package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden access")
	ErrConflict        = errors.New("resource conflict") // e.g., email already taken
	ErrNotFound        = errors.New("requested resource not found")
	ErrValidation      = errors.New("validation failed")
	ErrInternal        = errors.New("internal server error")
)

// Error codes surfaced to API clients alongside the message.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "BAD_USER_INPUT"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// CodeFromError maps domain errors to client-facing error codes.
func CodeFromError(err error) string {
	if errors.Is(err, ErrUnauthenticated) {
		return CodeUnauthenticated
	}
	if errors.Is(err, ErrForbidden) {
		return CodeForbidden
	}
	if errors.Is(err, ErrConflict) {
		return CodeConflict
	}
	if errors.Is(err, ErrNotFound) {
		return CodeNotFound
	}
	if errors.Is(err, ErrValidation) {
		return CodeValidation
	}

	// Unique-constraint violations that slipped past an application-level
	// pre-check still surface as conflicts.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return CodeConflict
	}

	return CodeInternal
}

// Wrap attaches a user-facing message to a taxonomy error. The message is
// what clients display; the sentinel drives the code mapping.
func Wrap(sentinel error, message string) error {
	return &wrappedError{message: message, err: sentinel}
}

type wrappedError struct {
	message string
	err     error
}

func (w *wrappedError) Error() string { return w.message }
func (w *wrappedError) Unwrap() error { return w.err }

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field violation found in an input rather
// than failing on the first one.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

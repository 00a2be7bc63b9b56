package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestCodeFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthenticated", Wrap(ErrUnauthenticated, "Authentication required"), CodeUnauthenticated},
		{"forbidden", Wrap(ErrForbidden, "Admin access required"), CodeForbidden},
		{"conflict", Wrap(ErrConflict, "Employee with this email already exists"), CodeConflict},
		{"not found", ErrNotFound, CodeNotFound},
		{"validation", Wrap(ErrValidation, "Cannot sort by field: nope"), CodeValidation},
		{"wrapped deeper", fmt.Errorf("service: %w", Wrap(ErrNotFound, "Employee not found")), CodeNotFound},
		{"unknown", errors.New("disk on fire"), CodeInternal},
		{"nil-adjacent internal", ErrInternal, CodeInternal},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, CodeConflict},
		{"pg other violation", &pgconn.PgError{Code: "23503"}, CodeInternal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CodeFromError(tt.err); got != tt.want {
				t.Errorf("CodeFromError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapKeepsMessageAndSentinel(t *testing.T) {
	t.Parallel()

	err := Wrap(ErrConflict, "Employee with this email already exists")
	if err.Error() != "Employee with this email already exists" {
		t.Errorf("Error() = %q, want the user-facing message", err.Error())
	}
	if !errors.Is(err, ErrConflict) {
		t.Error("wrapped error should unwrap to its sentinel")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("wrapped error should not match other sentinels")
	}
}

func TestValidationErrorCollectsViolations(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Violations: []FieldViolation{
		{Field: "email", Message: "must be a valid email address"},
		{Field: "age", Message: "must be between 18 and 100"},
	}}

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should unwrap to ErrValidation")
	}
	if got := CodeFromError(err); got != CodeValidation {
		t.Errorf("CodeFromError = %q, want %q", got, CodeValidation)
	}

	msg := err.Error()
	for _, want := range []string{"email: must be a valid email address", "age: must be between 18 and 100"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	var ve *ValidationError
	if !errors.As(fmt.Errorf("create: %w", err), &ve) {
		t.Fatal("errors.As should recover the ValidationError through wrapping")
	}
	if len(ve.Violations) != 2 {
		t.Errorf("recovered %d violations, want 2", len(ve.Violations))
	}
}

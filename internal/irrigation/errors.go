package irrigation

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrInvariantViolation = errors.New("invariant violation")
)

// invalidInputError returns an error with a custom message which unwraps to ErrInvalidInput.
func invalidInputError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// invariantError returns an error with a custom message which unwraps to ErrInvariantViolation.
func invariantError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// NotFoundError returns an error with a custom message which unwraps to ErrNotFound.
// Lookups in this package report absence with a boolean; callers that need an
// error for a missing station or program build it with this helper.
func NotFoundError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

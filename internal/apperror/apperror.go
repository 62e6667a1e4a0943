// Package apperror defines the error taxonomy shared by all services and
// its mapping onto HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound covers both a missing row and a row owned by another
	// user; the two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("character not found")

	// ErrUnauthenticated means the bearer credential is absent or invalid.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means the authenticated user is not the user named in
	// the request.
	ErrForbidden = errors.New("access denied")
)

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HTTPStatus maps an error onto the status code surfaced to API callers.
// Anything outside the taxonomy is a downstream failure and maps to 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

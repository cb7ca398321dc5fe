package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors forming the service-wide error taxonomy. Repositories and
// services wrap these with fmt.Errorf("...: %w", err); handlers translate
// them into HTTP statuses without leaking store-specific error shapes.
var (
	// ErrInvalidArgument indicates a malformed identifier or missing field.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized indicates a missing or invalid viewer credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates an authenticated viewer who does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a uniqueness violation not resolved by retry.
	ErrConflict = errors.New("record conflict")
)

// Status maps a taxonomy error to its HTTP status code. Unrecognized errors
// map to 500 so internal failure details stay out of responses.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

package repositories

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when the backend has no such record.
	ErrNotFound = errors.New("requested record not found")

	// ErrBadRequest is returned when the backend rejects the request as malformed.
	ErrBadRequest = errors.New("backend rejected request as invalid")

	// ErrUnauthorized is returned when the forwarded token is missing or expired.
	ErrUnauthorized = errors.New("backend requires authentication")

	// ErrForbidden is returned when the caller may not perform the operation.
	ErrForbidden = errors.New("backend denied permission")

	// ErrConflict is returned when the request collides with existing state
	// (duplicate payment request, order no longer cancellable, ...).
	ErrConflict = errors.New("backend reported a conflict")

	// ErrUpstream is returned for transport failures and unexpected statuses.
	ErrUpstream = errors.New("backend request failed")

	// ErrDecode is returned when a response does not match the expected shape.
	ErrDecode = errors.New("backend response could not be decoded")
)

// errorForStatus classifies a non-2xx status.
func errorForStatus(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrUpstream
	}
}

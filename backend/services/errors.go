package services

import "errors"

// Failure taxonomy shared by all services. NotFound deliberately covers
// ownership mismatches on most entry points so a caller cannot probe for
// the existence of another user's data.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidInput    = errors.New("invalid input")
)

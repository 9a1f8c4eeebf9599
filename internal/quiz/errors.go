package quiz

import "errors"

// Domain error kinds. Callers classify with errors.Is; the HTTP layer maps
// them to response codes.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrStateConflict    = errors.New("attempt is not in progress")
	ErrDeadlineExceeded = errors.New("time limit exceeded")
	ErrValidation       = errors.New("validation failed")
)

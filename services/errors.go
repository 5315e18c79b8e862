package services

import "errors"

// Workflow error kinds. Controllers map these onto HTTP statuses
// (404/409/400/403/502); everything else is treated as an internal error.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidation        = errors.New("validation failed")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrUpstreamFailure   = errors.New("upstream service failure")
)

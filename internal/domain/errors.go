package domain

import "errors"

// Error kinds shared across repositories and services. Handlers map these to
// HTTP statuses; repositories translate driver-specific codes into them.
var (
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("record already exists")
	ErrReferenced = errors.New("record is referenced by job history")
	ErrForbidden  = errors.New("operation not permitted for this role")
	ErrValidation = errors.New("validation failed")
)

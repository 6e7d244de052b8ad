package services

import "errors"

// Shared outcome sentinels. Handlers map these to transport responses;
// service code never touches HTTP status codes.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("resource not found")
	ErrForbidden  = errors.New("not allowed")
	ErrConflict   = errors.New("resource already exists")

	// ErrIntegrity marks a broken invariant (for example a friend edge whose
	// mirror row is missing). It is logged at error severity and must never
	// be swallowed.
	ErrIntegrity = errors.New("data integrity fault")
)

package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure. Deliberately carries no
	// detail about which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing, malformed, expired or forged token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates a valid identity with insufficient role.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("conflict")
)

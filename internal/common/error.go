package common

import "errors"

// Callers should match these values with errors.Is.
var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("duplicate value")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorDuplicateIdentity  = errors.New("user already exists")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorAccessDenied       = errors.New("access denied")
	ErrorNotConfigured      = errors.New("feature is not configured")

	// Request validation.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

package services

import "errors"

// Sentinel errors returned by the services. Handlers map them to HTTP
// status codes with errors.Is.
var (
	// ErrAlreadyRegistered covers both the pre-insert email check and a
	// uniqueness violation raised by the store during insert.
	ErrAlreadyRegistered = errors.New("email is already registered")

	// ErrInvalidCredentials is returned for an unknown email and for a
	// wrong password alike, so login reveals nothing about which it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailNotVerified = errors.New("please verify your email before logging in")
	ErrAlreadyVerified  = errors.New("email is already verified")

	// ErrNotFound is returned both when a resource does not exist and when
	// it belongs to another user.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means a password confirmation failed.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports malformed input with a caller-visible message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

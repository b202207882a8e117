// Package apperror defines the application error taxonomy shared by the
// service and handler layers. Services return these; the HTTP boundary maps
// them to status codes.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication covers missing, malformed, expired, or otherwise
	// unverifiable tokens. Maps to 401; the caller must re-authenticate.
	ErrAuthentication = errors.New("authentication failed")

	// ErrValidation covers requests that are well-formed but semantically
	// invalid, including tokens that verify but lack a required claim.
	// Maps to 400.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers both absent resources and resources the caller
	// has no membership for. The two cases are deliberately merged so
	// non-members cannot probe for list existence. Maps to 404.
	ErrNotFound = errors.New("not found")
)

// AppError pairs a sentinel with a human-readable message.
type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Authentication returns an AppError for a failed token verification.
// The underlying cause stays server-side; the message is safe for clients.
func Authentication(message string) *AppError {
	return &AppError{Err: ErrAuthentication, Message: message}
}

// Validation returns an AppError for a semantically invalid request.
func Validation(message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message}
}

// NotFound returns an AppError for an absent or non-visible resource.
func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s %d not found", resource, id),
	}
}

// Package apperror defines the error vocabulary shared by the client and the
// development backend. Callers match kinds with errors.Is and extract the
// user-facing text with errors.As / Message.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// Local conditions.
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")

	// Remote conditions.
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("server unavailable")
	ErrRemote       = errors.New("remote error")

	// Session lifecycle.
	ErrNoRefreshToken = errors.New("no refresh token available")
	ErrInvalidToken   = errors.New("invalid token")
)

// AppError pairs an error kind with a message that can be shown to the user.
type AppError struct {
	Err     error  // kind, one of the sentinels above
	Message string // human-readable message
	Field   string // optional: offending form field
}

func (e *AppError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds an AppError of the given kind.
func New(kind error, message string) *AppError {
	return &AppError{Err: kind, Message: message}
}

// ValidationFailed reports a form field that failed a precondition.
func ValidationFailed(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

// NotFound reports a missing resource.
func NotFound(resource string, id int64) *AppError {
	return &AppError{Err: ErrNotFound, Message: fmt.Sprintf("%s not found with id %d", resource, id)}
}

// Message returns the user-facing message carried by err, or fallback when
// err carries none.
func Message(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

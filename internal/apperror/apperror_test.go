package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_UnwrapsToKind(t *testing.T) {
	err := fmt.Errorf("login: %w", New(ErrUnauthorized, "bad password"))

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "login: bad password", err.Error())
}

func TestAppError_ErrorFallsBackToKind(t *testing.T) {
	err := &AppError{Err: ErrUnavailable}
	assert.Equal(t, "server unavailable", err.Error())
}

func TestValidationFailed_CarriesField(t *testing.T) {
	err := ValidationFailed("title", "title is required")

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "title", appErr.Field)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNotFound_Message(t *testing.T) {
	err := NotFound("task", 42)
	assert.Equal(t, "task not found with id 42", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"app error with message", New(ErrConflict, "email already in use"), "email already in use"},
		{"wrapped app error", fmt.Errorf("x: %w", New(ErrUnauthorized, "nope")), "nope"},
		{"app error without message", &AppError{Err: ErrUnauthorized}, "fallback"},
		{"plain error", errors.New("boom"), "fallback"},
		{"nil", nil, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err, "fallback"))
		})
	}
}

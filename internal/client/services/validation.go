package services

import (
	"strings"

	"github.com/dmitrijs2005/gophtodo/internal/apperror"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

const (
	MsgFillAllFields    = "please fill in all fields"
	MsgPasswordMismatch = "passwords do not match"
	MsgPasswordTooShort = "password must be at least 6 characters"
	MsgTitleRequired    = "title is required"
)

// ValidateLogin checks the login form.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return apperror.ValidationFailed("", MsgFillAllFields)
	}
	return nil
}

// ValidateRegistration checks the registration form, confirmation included.
func ValidateRegistration(name, email, password, confirm string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return apperror.ValidationFailed("", MsgFillAllFields)
	}
	if password != confirm {
		return apperror.ValidationFailed("confirmPassword", MsgPasswordMismatch)
	}
	if len(password) < MinPasswordLength {
		return apperror.ValidationFailed("password", MsgPasswordTooShort)
	}
	return nil
}

// normalizeTitle trims title and rejects it when nothing is left.
func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", apperror.ValidationFailed("title", MsgTitleRequired)
	}
	return t, nil
}

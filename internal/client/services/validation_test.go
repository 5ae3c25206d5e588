package services

import (
	"testing"

	"github.com/dmitrijs2005/gophtodo/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLogin(t *testing.T) {
	require.NoError(t, ValidateLogin("a@b.c", "x"))

	for _, tc := range [][2]string{{"", "x"}, {"  ", "x"}, {"a@b.c", ""}} {
		err := ValidateLogin(tc[0], tc[1])
		require.ErrorIs(t, err, apperror.ErrValidation)
		assert.Equal(t, MsgFillAllFields, err.Error())
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name                           string
		user, email, password, confirm string
		want                           string
	}{
		{"ok", "Ann", "ann@x.y", "secret", "secret", ""},
		{"missing name", "", "ann@x.y", "secret", "secret", MsgFillAllFields},
		{"missing email", "Ann", "", "secret", "secret", MsgFillAllFields},
		{"missing password", "Ann", "ann@x.y", "", "", MsgFillAllFields},
		{"mismatch checked before length", "Ann", "ann@x.y", "abc", "abd", MsgPasswordMismatch},
		{"too short", "Ann", "ann@x.y", "abc", "abc", MsgPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.user, tt.email, tt.password, tt.confirm)
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, apperror.ErrValidation)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	got, err := normalizeTitle("  buy milk \n")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got)

	_, err = normalizeTitle(" \t ")
	require.ErrorIs(t, err, apperror.ErrValidation)
}

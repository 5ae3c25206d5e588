package authtoken

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bob = Identity{ID: 42, Email: "bob@example.org", Name: "Bob"}

func TestGenerateAndVerify_Success(t *testing.T) {
	t.Parallel()

	tok, err := Generate(bob, []byte("super-secret"), time.Now(), time.Hour)
	require.NoError(t, err)

	id, err := Verify(tok, []byte("super-secret"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	tok, err := Generate(bob, []byte("secret"), time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	_, err = Verify(tok, []byte("secret"))
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := Generate(bob, []byte("right-secret"), time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = Verify(tok, []byte("wrong-secret"))
	require.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestDecode_ReadsPayloadWithoutSecret(t *testing.T) {
	t.Parallel()

	issued := time.Unix(1_700_000_000, 0)
	tok, err := Generate(bob, []byte("whatever"), issued, time.Hour)
	require.NoError(t, err)

	p, err := Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.Subject)
	assert.Equal(t, "bob@example.org", p.Email)
	assert.Equal(t, "Bob", p.Name)
	assert.Equal(t, issued.Unix(), p.IssuedAt.Unix())
	assert.Equal(t, issued.Add(time.Hour).Unix(), p.ExpiresAt.Unix())
}

func TestDecode_ExpiredTokenStillDecodes(t *testing.T) {
	t.Parallel()

	tok, err := Generate(bob, []byte("k"), time.Now().Add(-48*time.Hour), time.Hour)
	require.NoError(t, err)

	p, err := Decode(tok)
	require.NoError(t, err)
	assert.True(t, p.ExpiresAt.Before(time.Now()))
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "not-a-jwt", "a.b.c", "header." + base64.RawURLEncoding.EncodeToString([]byte("{")) + ".sig"} {
		_, err := Decode(tok)
		require.ErrorIs(t, err, apperror.ErrInvalidToken, tok)
	}
}

func TestDecode_AcceptsNonNumericSubject(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "alice@example.org",
		"email": "alice@example.org",
		"exp":   exp.Unix(),
	}).SignedString([]byte("other-backend"))
	require.NoError(t, err)

	p, err := Decode(tok)
	require.NoError(t, err)
	assert.Zero(t, p.Subject)
	assert.Equal(t, "alice@example.org", p.Email)
	assert.Equal(t, exp.Unix(), p.ExpiresAt.Unix())
}

func TestSubject_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Subject
	}{
		{`42`, "42"},
		{`"42"`, "42"},
		{`"alice@example.org"`, "alice@example.org"},
		{`null`, ""},
		{`{"id":1}`, ""},
	}
	for _, tt := range tests {
		var s Subject
		require.NoError(t, json.Unmarshal([]byte(tt.in), &s), tt.in)
		assert.Equal(t, tt.want, s, tt.in)
	}

	out, err := json.Marshal(Subject("42"))
	require.NoError(t, err)
	assert.Equal(t, `42`, string(out))

	out, err = json.Marshal(Subject("alice"))
	require.NoError(t, err)
	assert.Equal(t, `"alice"`, string(out))
}

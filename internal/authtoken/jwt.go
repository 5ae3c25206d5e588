// Package authtoken defines the access token claim set shared by the client
// (which only decodes it to read the expiry) and the development backend
// (which signs and verifies it).
package authtoken

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/apperror"
	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned by Verify for a well-signed but expired token.
var ErrTokenExpired = errors.New("token expired")

// Subject is the "sub" claim. Tokens issued here carry the numeric user id,
// but any JSON string or number is accepted when decoding.
type Subject string

func (s Subject) MarshalJSON() ([]byte, error) {
	if n, err := s.Int64(); err == nil && strconv.FormatInt(n, 10) == string(s) {
		return []byte(s), nil
	}
	return json.Marshal(string(s))
}

func (s *Subject) UnmarshalJSON(b []byte) error {
	var v any
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	if err := d.Decode(&v); err != nil {
		return err
	}
	switch v := v.(type) {
	case string:
		*s = Subject(v)
	case json.Number:
		*s = Subject(v.String())
	default:
		*s = ""
	}
	return nil
}

// Int64 returns the subject as a user id.
func (s Subject) Int64() (int64, error) {
	return strconv.ParseInt(string(s), 10, 64)
}

// Claims is the JWT payload: {sub, email, name, iat, exp}.
type Claims struct {
	Subject   Subject          `json:"sub"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c Claims) GetIssuer() (string, error)                   { return "", nil }
func (c Claims) GetSubject() (string, error)                  { return string(c.Subject), nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

// Payload converts the claims into the client model.
func (c Claims) Payload() models.TokenPayload {
	p := models.TokenPayload{Email: c.Email, Name: c.Name}
	if id, err := c.Subject.Int64(); err == nil {
		p.Subject = id
	}
	if c.IssuedAt != nil {
		p.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}
	return p
}

// Decode reads the payload of token without checking its signature. The
// client cannot verify signatures; it only needs the claims. A subject that
// is not a user id leaves Subject zero.
func Decode(token string) (models.TokenPayload, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return models.TokenPayload{}, fmt.Errorf("%w: %v", apperror.ErrInvalidToken, err)
	}
	return claims.Payload(), nil
}

// Identity is who a token is issued for.
type Identity struct {
	ID    int64
	Email string
	Name  string
}

// Generate signs an HS256 token for id valid for ttl from now.
func Generate(id Identity, secretKey []byte, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Subject:   Subject(strconv.FormatInt(id.ID, 10)),
		Email:     id.Email,
		Name:      id.Name,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// Verify checks signature and expiry and returns the user id.
func Verify(tokenString string, secretKey []byte) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", apperror.ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, apperror.ErrInvalidToken
	}

	id, err := claims.Subject.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", apperror.ErrInvalidToken)
	}
	return id, nil
}

// Package models defines the client-side data model of gophtodo: users,
// sessions, token payloads and tasks, with their JSON wire forms.
package models

import "time"

// User is the identity record issued by the backend. The client caches it as
// a snapshot and never mutates it.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the pair held by the session manager. Token and User are either
// both set or both empty.
type Session struct {
	Token string
	User  *User
}

// Valid reports whether both halves of the session are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.User != nil
}

// TokenPayload is the decoded claim set of an access token.
type TokenPayload struct {
	Subject   int64
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthResponse is the body returned by login, register and refresh.
type AuthResponse struct {
	User         *User  `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

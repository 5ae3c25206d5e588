// Package credentials persists the session token, the cached user profile
// and the refresh token between runs of the client.
package credentials

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/client/storage"
)

// Storage keys.
const (
	KeyToken        = "auth_token"
	KeyUser         = "current_user"
	KeyRefreshToken = "refresh_token"
)

// Credentials is what Load returns.
type Credentials struct {
	Token string
	User  models.User
}

type Store struct {
	kv *storage.Store
}

func NewStore(kv *storage.Store) *Store {
	return &Store{kv: kv}
}

// Save persists token and user together.
func (s *Store) Save(ctx context.Context, token string, user models.User) {
	u, err := storage.JSONEntry(KeyUser, user)
	if err != nil {
		return
	}
	s.kv.Put(ctx, storage.Entry{Key: KeyToken, Value: []byte(token)}, u)
}

// Load returns the stored session. A token without a user (or the reverse)
// counts as no session. A user record that does not decode clears the
// stored session.
func (s *Store) Load(ctx context.Context) (Credentials, bool) {
	token, okToken := s.kv.GetString(ctx, KeyToken)
	raw, okUser := s.kv.Get(ctx, KeyUser)
	if !okToken || !okUser {
		return Credentials{}, false
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		s.Clear(ctx)
		return Credentials{}, false
	}
	return Credentials{Token: token, User: user}, true
}

// Clear removes the token and the cached user.
func (s *Store) Clear(ctx context.Context) {
	s.kv.Delete(ctx, KeyToken, KeyUser)
}

func (s *Store) RefreshToken(ctx context.Context) (string, bool) {
	return s.kv.GetString(ctx, KeyRefreshToken)
}

// SaveRefreshToken stores token; an empty token leaves the stored one as is.
func (s *Store) SaveRefreshToken(ctx context.Context, token string) {
	if token == "" {
		return
	}
	s.kv.PutString(ctx, KeyRefreshToken, token)
}

func (s *Store) ClearRefreshToken(ctx context.Context) {
	s.kv.Delete(ctx, KeyRefreshToken)
}

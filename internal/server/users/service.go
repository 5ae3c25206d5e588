package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/apperror"
	"github.com/dmitrijs2005/gophtodo/internal/authtoken"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/refreshtokens"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// Session is what a successful register, login or refresh hands back.
type Session struct {
	User         *User
	AccessToken  string
	RefreshToken string
}

type Service struct {
	repo                         Repository
	refreshTokenRepo             refreshtokens.Repository
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	bcryptCost                   int
	now                          func() time.Time
}

func NewService(repo Repository, refreshTokenRepo refreshtokens.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                         repo,
		refreshTokenRepo:             refreshTokenRepo,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		bcryptCost:                   cfg.BcryptCost,
		now:                          time.Now,
	}
}

// SecretKey is the HMAC key access tokens are signed with.
func (s *Service) SecretKey() []byte { return s.jwtSecret }

func (s *Service) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Name, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ValidationFailed("email", "Invalid email address")
	}
	if len(password) < minPasswordLength {
		return nil, apperror.ValidationFailed("password", "Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, apperror.New(apperror.ErrConflict, "Email already registered")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(ctx, user)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	invalid := apperror.New(apperror.ErrUnauthorized, "Invalid email or password")

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, invalid
	}

	return s.issue(ctx, user)
}

// Refresh exchanges a refresh token for a new session. The old refresh token
// is consumed.
func (s *Service) Refresh(ctx context.Context, token string) (*Session, error) {
	invalid := apperror.New(apperror.ErrUnauthorized, "Invalid refresh token")

	if token == "" {
		return nil, invalid
	}
	rt, err := s.refreshTokenRepo.Find(ctx, token)
	if err != nil {
		if errors.Is(err, refreshtokens.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := s.refreshTokenRepo.Delete(ctx, token); err != nil {
		return nil, err
	}
	if !rt.ExpiresAt.After(s.now()) {
		return nil, invalid
	}

	user, err := s.repo.GetByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	return s.issue(ctx, user)
}

// Logout revokes every refresh token of the user.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.refreshTokenRepo.DeleteByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperror.NotFound("user", id)
	}
	return u, err
}

func (s *Service) issue(ctx context.Context, user *User) (*Session, error) {
	now := s.now()

	access, err := authtoken.Generate(authtoken.Identity{ID: user.ID, Email: user.Email, Name: user.Name},
		s.jwtSecret, now, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	refresh := uuid.NewString()
	if err := s.refreshTokenRepo.Create(ctx, user.ID, refresh, now.Add(s.refreshTokenValidityDuration)); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return &Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

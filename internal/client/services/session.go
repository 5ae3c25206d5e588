package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/apperror"
	"github.com/dmitrijs2005/gophtodo/internal/authtoken"
	"github.com/dmitrijs2005/gophtodo/internal/client/api"
	"github.com/dmitrijs2005/gophtodo/internal/client/credentials"
	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/observable"
)

// Fallback messages used when the server does not supply one.
const (
	MsgInvalidCredentials = "invalid credentials"
	MsgRegisterFailed     = "error creating account"
	MsgRefreshFailed      = "token refresh failed"
	MsgNoRefreshToken     = "no refresh token available"
)

const defaultLogoutTimeout = 5 * time.Second

// SessionManager owns the session {token, user}. It is Anonymous when no
// session is held and Authenticated otherwise; whether the token is still
// valid is a separate, live question answered by IsAuthenticated.
type SessionManager struct {
	api   api.Client
	creds *credentials.Store
	log   logging.Logger
	now   func() time.Time

	logoutTimeout time.Duration
	pending       sync.WaitGroup

	transition sync.Mutex // serializes state changes with their publication

	mu      sync.RWMutex
	session models.Session

	users  *observable.Value[*models.User]
	tokens *observable.Value[string]
}

type SessionOption func(*SessionManager)

// WithClock replaces the wall clock used for expiry checks.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionManager) { s.now = now }
}

// WithLogoutTimeout bounds the background logout notification.
func WithLogoutTimeout(d time.Duration) SessionOption {
	return func(s *SessionManager) { s.logoutTimeout = d }
}

// NewSessionManager restores the persisted session, if any. A stored token
// that cannot be decoded discards the stored session.
func NewSessionManager(ctx context.Context, client api.Client, creds *credentials.Store, log logging.Logger, opts ...SessionOption) *SessionManager {
	s := &SessionManager{
		api:           client,
		creds:         creds,
		log:           log.With("component", "session"),
		now:           time.Now,
		logoutTimeout: defaultLogoutTimeout,
	}
	for _, o := range opts {
		o(s)
	}

	if c, ok := creds.Load(ctx); ok {
		if _, err := authtoken.Decode(c.Token); err != nil {
			s.log.Warn(ctx, "discarding stored session with undecodable token", "error", err)
			creds.Clear(ctx)
		} else {
			user := c.User
			s.session = models.Session{Token: c.Token, User: &user}
			s.log.Info(ctx, "restored session", "user", user.Email)
		}
	}

	s.users = observable.New(s.session.User)
	s.tokens = observable.New(s.session.Token)
	return s
}

// Users publishes the current user (nil when anonymous).
func (s *SessionManager) Users() *observable.Value[*models.User] { return s.users }

// Tokens publishes the current access token ("" when anonymous).
func (s *SessionManager) Tokens() *observable.Value[string] { return s.tokens }

// Token returns the current access token. It implements api.TokenSource.
func (s *SessionManager) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// CurrentUser returns a snapshot of the current user, or nil.
func (s *SessionManager) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.User == nil {
		return nil
	}
	u := *s.session.User
	return &u
}

// IsAuthenticated decodes the current token and reports whether its expiry
// lies strictly in the future. It never changes state.
func (s *SessionManager) IsAuthenticated() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	p, err := authtoken.Decode(token)
	if err != nil || p.ExpiresAt.IsZero() {
		return false
	}
	return p.ExpiresAt.Unix() > s.now().Unix()
}

// Login authenticates against the backend. On failure the previous state is
// kept and the error carries the server's message or MsgInvalidCredentials.
func (s *SessionManager) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if err := ValidateLogin(email, password); err != nil {
		return nil, err
	}
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.Error(ctx, "login failed", "email", email, "error", err)
		return nil, authFailure(err, MsgInvalidCredentials)
	}
	return s.establish(ctx, resp, MsgInvalidCredentials)
}

// Register creates an account and signs it in. A duplicate email is
// reported with the server's message unchanged. Password confirmation is
// the caller's concern.
func (s *SessionManager) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	if err := ValidateRegistration(name, email, password, password); err != nil {
		return nil, err
	}
	resp, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.log.Error(ctx, "registration failed", "email", email, "error", err)
		return nil, authFailure(err, MsgRegisterFailed)
	}
	return s.establish(ctx, resp, MsgRegisterFailed)
}

// RefreshToken exchanges the stored refresh token for a new session. Any
// failure after the request was sent drops the current session.
func (s *SessionManager) RefreshToken(ctx context.Context) (*models.Session, error) {
	rt, ok := s.creds.RefreshToken(ctx)
	if !ok {
		return nil, apperror.New(apperror.ErrNoRefreshToken, MsgNoRefreshToken)
	}

	resp, err := s.api.Refresh(ctx, rt)
	if err == nil && (resp.Token == "" || resp.User == nil) {
		err = apperror.New(apperror.ErrRemote, "")
	}
	if err != nil {
		s.log.Warn(ctx, "token refresh failed", "error", err)
		if errors.Is(err, apperror.ErrUnauthorized) {
			s.creds.ClearRefreshToken(ctx)
		}
		s.clear(ctx)
		return nil, &apperror.AppError{Err: err, Message: MsgRefreshFailed}
	}

	return s.establish(ctx, resp, MsgRefreshFailed)
}

// Logout drops the session immediately. The backend is notified in the
// background; that call's outcome is only logged.
func (s *SessionManager) Logout(ctx context.Context) {
	if token := s.Token(); token != "" {
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.logoutTimeout)
			defer cancel()
			if err := s.api.Logout(api.ContextWithToken(nctx, token)); err != nil {
				s.log.Warn(nctx, "logout notification failed", "error", err)
			}
		}()
	}

	s.creds.ClearRefreshToken(ctx)
	s.clear(ctx)
	s.log.Info(ctx, "logged out")
}

// Health reports whether the backend answers its health probe.
func (s *SessionManager) Health(ctx context.Context) bool {
	return s.api.Health(ctx) == nil
}

// Close waits for background logout notifications to finish.
func (s *SessionManager) Close() {
	s.pending.Wait()
}

func (s *SessionManager) establish(ctx context.Context, resp *models.AuthResponse, fallback string) (*models.Session, error) {
	if resp == nil || resp.Token == "" || resp.User == nil {
		s.log.Error(ctx, "incomplete auth response")
		return nil, apperror.New(apperror.ErrRemote, fallback)
	}

	user := *resp.User
	s.set(ctx, models.Session{Token: resp.Token, User: &user})
	s.creds.SaveRefreshToken(ctx, resp.RefreshToken)
	s.log.Info(ctx, "session established", "user", user.Email)

	u := user
	return &models.Session{Token: resp.Token, User: &u}, nil
}

func (s *SessionManager) set(ctx context.Context, next models.Session) {
	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	s.session = next
	s.mu.Unlock()

	if next.Valid() {
		s.creds.Save(ctx, next.Token, *next.User)
	} else {
		s.creds.Clear(ctx)
	}

	s.tokens.Set(next.Token)
	s.users.Set(next.User)
}

func (s *SessionManager) clear(ctx context.Context) {
	s.set(ctx, models.Session{})
}

// authFailure keeps the cause reachable through errors.Is while exposing the
// server's message, or fallback when it sent none.
func authFailure(err error, fallback string) error {
	return &apperror.AppError{Err: err, Message: apperror.Message(err, fallback)}
}

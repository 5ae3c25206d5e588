package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/authtoken"
	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/client/storage"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

// fakeAPI is a scriptable api.Client. Unset funcs fail the call, except
// Logout and Health which succeed.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	loginFn    func(email, password string) (*models.AuthResponse, error)
	registerFn func(name, email, password string) (*models.AuthResponse, error)
	logoutFn   func(ctx context.Context) error
	refreshFn  func(refreshToken string) (*models.AuthResponse, error)
	healthFn   func() error

	listFn   func() ([]models.Task, error)
	getFn    func(id int64) (*models.Task, error)
	createFn func(task models.NewTask) (*models.Task, error)
	updateFn func(id int64, patch models.TaskPatch) (*models.Task, error)
	deleteFn func(id int64) error
}

type notScripted string

func (e notScripted) Error() string { return "fake: " + string(e) + " not scripted" }

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.AuthResponse, error) {
	f.record("login")
	if f.loginFn == nil {
		return nil, notScripted("login")
	}
	return f.loginFn(email, password)
}

func (f *fakeAPI) Register(_ context.Context, name, email, password string) (*models.AuthResponse, error) {
	f.record("register")
	if f.registerFn == nil {
		return nil, notScripted("register")
	}
	return f.registerFn(name, email, password)
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.record("logout")
	if f.logoutFn == nil {
		return nil
	}
	return f.logoutFn(ctx)
}

func (f *fakeAPI) Refresh(_ context.Context, refreshToken string) (*models.AuthResponse, error) {
	f.record("refresh")
	if f.refreshFn == nil {
		return nil, notScripted("refresh")
	}
	return f.refreshFn(refreshToken)
}

func (f *fakeAPI) Health(context.Context) error {
	f.record("health")
	if f.healthFn == nil {
		return nil
	}
	return f.healthFn()
}

func (f *fakeAPI) ListTasks(context.Context) ([]models.Task, error) {
	f.record("list")
	if f.listFn == nil {
		return nil, notScripted("list")
	}
	return f.listFn()
}

func (f *fakeAPI) GetTask(_ context.Context, id int64) (*models.Task, error) {
	f.record("get")
	if f.getFn == nil {
		return nil, notScripted("get")
	}
	return f.getFn(id)
}

func (f *fakeAPI) CreateTask(_ context.Context, task models.NewTask) (*models.Task, error) {
	f.record("create")
	if f.createFn == nil {
		return nil, notScripted("create")
	}
	return f.createFn(task)
}

func (f *fakeAPI) UpdateTask(_ context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	f.record("update")
	if f.updateFn == nil {
		return nil, notScripted("update")
	}
	return f.updateFn(id, patch)
}

func (f *fakeAPI) DeleteTask(_ context.Context, id int64) error {
	f.record("delete")
	if f.deleteFn == nil {
		return notScripted("delete")
	}
	return f.deleteFn(id)
}

func newKV(t *testing.T) *storage.Store {
	t.Helper()
	db, err := storage.OpenDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewStore(db, "http://localhost:8080/api", logging.Discard())
}

var (
	epoch = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	alice = models.User{ID: 1, Email: "alice@example.org", Name: "Alice", CreatedAt: epoch}
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// signedToken issues an access token for u valid for ttl from epoch.
func signedToken(t *testing.T, u models.User, ttl time.Duration) string {
	t.Helper()
	tok, err := authtoken.Generate(authtoken.Identity{ID: u.ID, Email: u.Email, Name: u.Name}, testSecret, epoch, ttl)
	require.NoError(t, err)
	return tok
}

func authResponse(t *testing.T, u models.User, refresh string) *models.AuthResponse {
	t.Helper()
	return &models.AuthResponse{User: &u, Token: signedToken(t, u, time.Hour), RefreshToken: refresh}
}

package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/authtoken"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/shared/db"
	"github.com/dmitrijs2005/gophtodo/internal/server/tasks"
	"github.com/dmitrijs2005/gophtodo/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost

	m := db.NewInMemoryRepositoryManager()
	s := NewHTTPServer(":0", logging.Discard(),
		users.NewService(m.Users(), m.RefreshTokens(), cfg),
		tasks.NewService(m.Tasks()))

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func register(t *testing.T, ts *httptest.Server, name, email string) authResponse {
	t.Helper()
	resp, body := do(t, ts, http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": name, "email": email, "password": "secret1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var ar authResponse
	require.NoError(t, json.Unmarshal(body, &ar))
	return ar
}

func errorOf(t *testing.T, body []byte) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, ts, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	ar := register(t, ts, "Alice", "alice@example.org")
	assert.Equal(t, "alice@example.org", ar.User.Email)
	assert.Equal(t, "Alice", ar.User.Name)
	assert.NotEmpty(t, ar.Token)
	assert.NotEmpty(t, ar.RefreshToken)

	p, err := authtoken.Decode(ar.Token)
	require.NoError(t, err)
	assert.Equal(t, ar.User.ID, p.Subject)
	assert.True(t, p.ExpiresAt.After(time.Now()))

	resp, body := do(t, ts, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "alice@example.org", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login authResponse
	require.NoError(t, json.Unmarshal(body, &login))
	assert.Equal(t, ar.User.ID, login.User.ID)
}

func TestAuthErrors(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "Alice", "alice@example.org")

	tests := []struct {
		name    string
		path    string
		body    any
		status  int
		kind    string
		message string
	}{
		{
			name:    "duplicate email",
			path:    "/api/auth/register",
			body:    map[string]string{"name": "A", "email": "ALICE@example.org", "password": "secret1"},
			status:  http.StatusConflict,
			kind:    "conflict",
			message: "Email already registered",
		},
		{
			name:    "short password",
			path:    "/api/auth/register",
			body:    map[string]string{"name": "B", "email": "b@example.org", "password": "123"},
			status:  http.StatusBadRequest,
			kind:    "validation_error",
			message: "Password must be at least 6 characters",
		},
		{
			name:    "wrong password",
			path:    "/api/auth/login",
			body:    map[string]string{"email": "alice@example.org", "password": "nope123"},
			status:  http.StatusUnauthorized,
			kind:    "unauthorized",
			message: "Invalid email or password",
		},
		{
			name:    "unknown refresh token",
			path:    "/api/auth/refresh",
			body:    map[string]string{"refreshToken": "missing"},
			status:  http.StatusUnauthorized,
			kind:    "unauthorized",
			message: "Invalid refresh token",
		},
		{
			name:    "malformed body",
			path:    "/api/auth/login",
			body:    "not an object",
			status:  http.StatusBadRequest,
			kind:    "validation_error",
			message: "Invalid request body",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, ts, http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			e := errorOf(t, body)
			assert.Equal(t, tt.kind, e.Error)
			assert.Equal(t, tt.message, e.Message)
		})
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	ts := newTestServer(t)
	ar := register(t, ts, "Alice", "alice@example.org")

	resp, body := do(t, ts, http.MethodPost, "/api/auth/refresh", "",
		map[string]string{"refreshToken": ar.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var next authResponse
	require.NoError(t, json.Unmarshal(body, &next))
	assert.NotEqual(t, ar.RefreshToken, next.RefreshToken)

	resp, _ = do(t, ts, http.MethodPost, "/api/auth/refresh", "",
		map[string]string{"refreshToken": ar.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	ts := newTestServer(t)
	ar := register(t, ts, "Alice", "alice@example.org")

	resp, _ := do(t, ts, http.MethodPost, "/api/auth/logout", ar.Token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodPost, "/api/auth/refresh", "",
		map[string]string{"refreshToken": ar.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTasksRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	expired, err := authtoken.Generate(authtoken.Identity{ID: 1, Email: "a@example.org"},
		[]byte("secretKey"), time.Now().Add(-time.Hour), time.Minute)
	require.NoError(t, err)
	foreign, err := authtoken.Generate(authtoken.Identity{ID: 1, Email: "a@example.org"},
		[]byte("other"), time.Now(), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"missing", "", "Authorization required"},
		{"expired", expired, "Token expired"},
		{"wrong key", foreign, "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, ts, http.MethodGet, "/api/tasks", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.message, errorOf(t, body).Message)
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	ts := newTestServer(t)
	tok := register(t, ts, "Alice", "alice@example.org").Token

	resp, body := do(t, ts, http.MethodGet, "/api/tasks", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, body = do(t, ts, http.MethodPost, "/api/tasks", tok, map[string]string{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created tasks.Task
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Completed)

	path := "/api/tasks/" + jsonNumber(created.ID)

	resp, body = do(t, ts, http.MethodPut, path, tok, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var done tasks.Task
	require.NoError(t, json.Unmarshal(body, &done))
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)

	resp, body = do(t, ts, http.MethodPut, path, tok, map[string]any{"completed": false, "completedAt": nil})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reopened tasks.Task
	require.NoError(t, json.Unmarshal(body, &reopened))
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)

	resp, _ = do(t, ts, http.MethodGet, path, tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, ts, http.MethodGet, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", errorOf(t, body).Error)
}

func TestTasksAreScopedToTheirOwner(t *testing.T) {
	ts := newTestServer(t)
	alice := register(t, ts, "Alice", "alice@example.org").Token
	bob := register(t, ts, "Bob", "bob@example.org").Token

	resp, body := do(t, ts, http.MethodPost, "/api/tasks", alice, map[string]string{"title": "private"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created tasks.Task
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = do(t, ts, http.MethodGet, "/api/tasks/"+jsonNumber(created.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = do(t, ts, http.MethodGet, "/api/tasks", bob, nil)
	assert.JSONEq(t, `[]`, string(body))
}

func TestTaskValidation(t *testing.T) {
	ts := newTestServer(t)
	tok := register(t, ts, "Alice", "alice@example.org").Token

	resp, body := do(t, ts, http.MethodPost, "/api/tasks", tok, map[string]string{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Title is required", errorOf(t, body).Message)

	resp, body = do(t, ts, http.MethodGet, "/api/tasks/abc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid task id", errorOf(t, body).Message)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, ts, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", errorOf(t, body).Error)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/api"
	"github.com/dmitrijs2005/gophtodo/internal/client/config"
	"github.com/dmitrijs2005/gophtodo/internal/client/credentials"
	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/client/services"
	"github.com/dmitrijs2005/gophtodo/internal/client/storage"
	"github.com/dmitrijs2005/gophtodo/internal/filex"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const healthCheckTimeout = 3 * time.Second

type App struct {
	config  *config.Config
	log     logging.Logger
	session *services.SessionManager
	tasks   *services.TaskStore
	guard   *services.Guard
	reader  *bufio.Reader
	out     io.Writer

	closers     []func() error
	unsubscribe func()

	mu   sync.Mutex // guards view and Mode
	view services.View
	Mode Mode
}

// NewApp opens local storage, restores the persisted session and builds the
// services. A database that cannot be opened degrades to a session that is
// not persisted.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, closeLog, err := logging.New(logging.Options{Level: c.LogLevel, File: c.LogFile})
	if err != nil {
		return nil, err
	}
	closers := []func() error{closeLog}

	kv := storage.Unavailable(logger)
	if c.DBPath != "" {
		db, err := openDatabase(ctx, c.DBPath)
		if err != nil {
			logger.Warn(ctx, "local storage unavailable", "path", c.DBPath, "error", err)
		} else {
			kv = storage.NewStore(db, c.ServerBaseURL, logger)
			closers = append([]func() error{db.Close}, closers...)
		}
	}

	client := api.NewHTTPClient(c.ServerBaseURL,
		api.WithTimeout(c.RequestTimeout),
		api.WithLogger(logger))

	a := newApp(ctx, c, client, kv, logger, os.Stdin, os.Stdout)
	a.closers = closers
	return a, nil
}

func openDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		abs, err := filex.EnsureParentDir(path)
		if err != nil {
			return nil, err
		}
		path = abs
	}
	return storage.OpenDatabase(ctx, path)
}

func newApp(ctx context.Context, c *config.Config, client *api.HTTPClient, kv *storage.Store, log logging.Logger, in io.Reader, out io.Writer) *App {
	session := services.NewSessionManager(ctx, client, credentials.NewStore(kv), log)
	client.SetTokenSource(session)

	a := &App{
		config:  c,
		log:     log,
		session: session,
		tasks:   services.NewTaskStore(client, session, kv, log),
		guard:   services.NewGuard(session, services.ViewDashboard),
		reader:  bufio.NewReader(in),
		out:     out,
	}
	a.activate(services.ViewDashboard)

	replay := true
	a.unsubscribe = session.Users().Subscribe(func(u *models.User) {
		if replay {
			replay = false
			return
		}
		if u != nil {
			a.println("Signed in as", u.Email)
		} else {
			a.println("Signed out")
		}
	})
	return a
}

// Run starts the online watcher and the REPL and blocks until the user
// exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.println("Welcome to the Todo CLI (type 'help' for commands)")
	a.checkOnline(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close waits for pending background work and releases local storage.
func (a *App) Close() {
	a.unsubscribe()
	a.tasks.Close()
	a.session.Close()
	for _, c := range a.closers {
		_ = c()
	}
	a.closers = nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) currentView() services.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

func (a *App) setView(v services.View) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view = v
}

// activate switches to v, or to the login view when the guard refuses it.
// Guest mode bypasses the guard. It reports whether v was granted.
func (a *App) activate(v services.View) bool {
	resolved := v
	if !a.config.GuestMode {
		resolved = a.guard.Resolve(v)
	}
	a.setView(resolved)
	return resolved == v
}

// onDashboard reports whether task commands are currently available.
func (a *App) onDashboard() bool {
	return a.currentView() == services.ViewDashboard
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) checkOnline(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	up := a.session.Health(ctx)
	if up {
		a.setMode(ModeOnline)
	} else {
		a.setMode(ModeOffline)
	}
	return up
}

// StartOnlineStatusWatcher probes the backend every interval until ctx is
// done and keeps Mode current.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// getStatus renders the prompt status, e.g. "(alice@example.org online)".
func (a *App) getStatus() string {
	s := "guest"
	if u := a.session.CurrentUser(); u != nil {
		s = u.Email
		if !a.session.IsAuthenticated() {
			s += " expired"
		}
	}
	if m := a.mode(); m != "" {
		s += " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

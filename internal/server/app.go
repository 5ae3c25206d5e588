// Package server wires the development backend: repositories, services and
// the HTTP API, with shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/httpapi"
	"github.com/dmitrijs2005/gophtodo/internal/server/shared/db"
	"github.com/dmitrijs2005/gophtodo/internal/server/tasks"
	"github.com/dmitrijs2005/gophtodo/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	closeLog    func() error
	userService *users.Service
	taskService *tasks.Service
}

func NewApp(c *config.Config) (*App, error) {
	logger, closeLog, err := logging.New(logging.Options{Level: c.LogLevel, Console: os.Stdout, Journal: c.Journal})
	if err != nil {
		return nil, err
	}

	rm := db.NewInMemoryRepositoryManager()

	us := users.NewService(rm.Users(), rm.RefreshTokens(), c)
	ts := tasks.NewService(rm.Tasks())

	return &App{config: c, logger: logger, closeLog: closeLog, userService: us, taskService: ts}, nil
}

// HTTPServer builds the HTTP API without starting a listener.
func (app *App) HTTPServer() *httpapi.HTTPServer {
	return httpapi.NewHTTPServer(app.config.Addr, app.logger, app.userService, app.taskService)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.HTTPServer().Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer func() { _ = app.closeLog() }()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(ctx, "App stopped")
}

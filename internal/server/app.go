// Package server initializes and runs the development auth backend.
// It selects the users store, handles graceful shutdown and starts the
// HTTP API.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Divert12/divert-ai-crew/internal/logging"
	"github.com/Divert12/divert-ai-crew/internal/server/config"
	"github.com/Divert12/divert-ai-crew/internal/server/repositories/repomanager"
	"github.com/Divert12/divert-ai-crew/internal/server/rest"
	"github.com/Divert12/divert-ai-crew/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
}

// NewApp wires storage and services from c. An empty DatabaseDSN keeps
// accounts in memory.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured; accounts are kept in memory")
		rm = repomanager.NewMemoryRepositoryManager()
	} else {
		rm = repomanager.NewPostgresRepositoryManager()
		var err error
		db, err = repomanager.OpenPostgres(ctx, c.DatabaseDSN, rm)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	us := services.NewUserService(db, rm, c)

	return &App{config: c, logger: logger, db: db, userService: us}, nil
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
	s := rest.NewHTTPServer(app.config.EndpointAddr, app.logger, app.userService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or the process receives SIGINT, SIGTERM
// or SIGQUIT.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "closing database", "error", err)
		}
	}
	app.logger.Info(ctx, "Stopped")
}

// Package app initializes and runs the profile deletion service.
// It configures logging, the profile store and routing,
// and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patric-chuzhbe/profiledel/internal/backendclient"
	"github.com/patric-chuzhbe/profiledel/internal/config"
	"github.com/patric-chuzhbe/profiledel/internal/db/jsondb"
	"github.com/patric-chuzhbe/profiledel/internal/db/placeholder"
	"github.com/patric-chuzhbe/profiledel/internal/db/postgresdb"
	"github.com/patric-chuzhbe/profiledel/internal/db/sqlitedb"
	"github.com/patric-chuzhbe/profiledel/internal/logger"
	"github.com/patric-chuzhbe/profiledel/internal/models"
	"github.com/patric-chuzhbe/profiledel/internal/router"
)

type storage interface {
	RemoveProfile(ctx context.Context, userID string) error
	Close() error
}

// App encapsulates the configuration, HTTP handler and profile store
// needed to run the service.
type App struct {
	cfg         *config.Config
	db          storage
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting and setting up the profile store
// - setting up the router and middleware
func New(optionsProto ...config.InitOption) (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New(optionsProto...)
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, err
	}

	app.httpHandler = router.New(app.db, app.cfg.CORSAllowedOrigins)

	return app, nil
}

// Handler returns the HTTP handler of the service.
func (a *App) Handler() http.Handler {
	return a.httpHandler
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infow("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Closing the profile store and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		if errors.Is(err, http.ErrServerClosed) {
			return a.db.Close()
		}
		return errors.Join(fmt.Errorf("server error: %w", err), a.db.Close())
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.BackendDeleteURL != "" {
		return models.StorageTypeBackend
	}

	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.SQLitePath != "" {
		return models.StorageTypeSQLite
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypePlaceholder
}

func getStorageByType(cfg *config.Config) (storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypeBackend:
		return backendclient.New(cfg.BackendDeleteURL, cfg.BackendTimeout)

	case models.StorageTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.StorageTypeSQLite:
		return sqlitedb.New(cfg.SQLitePath)

	case models.StorageTypeFile:
		return jsondb.New(cfg.DBFileName)
	}

	logger.Log.Infoln("no profile store configured, deletions are placeholders")

	return placeholder.New(), nil
}

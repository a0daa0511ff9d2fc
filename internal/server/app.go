// Package server initializes and runs the artfolio reference backend.
// It opens and migrates the database, picks the media backend, wires the
// gallery services and serves the REST API until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/artfolio/internal/dbx"
	"github.com/dmitrijs2005/artfolio/internal/logging"
	"github.com/dmitrijs2005/artfolio/internal/server/config"
	"github.com/dmitrijs2005/artfolio/internal/server/httpapi"
	"github.com/dmitrijs2005/artfolio/internal/server/media"
	"github.com/dmitrijs2005/artfolio/internal/server/models"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/artfolio/internal/server/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	services httpapi.Services
	media    httpapi.MediaSource
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	db, err := dbx.OpenSQLite(c.DatabaseDSN, "foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewSQLiteRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var storage media.Storage
	switch c.MediaBackend {
	case config.MediaS3:
		s3, err := media.NewS3Storage(ctx, c)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		storage = s3
	case config.MediaDatabase:
		dbs := media.NewDBStorage(db, rm, c.PublicURL)
		storage = dbs
		app.media = dbs
	default:
		_ = db.Close()
		return nil, fmt.Errorf("unknown media backend %q", c.MediaBackend)
	}

	app.services = httpapi.Services{
		Users:       services.NewUserService(db, rm, storage, c, logger.With("module", "users")),
		Photos:      services.NewPhotoService(db, rm, storage, logger.With("module", "photos")),
		Collections: services.NewCollectionService(db, rm, storage),
		Categories:  services.NewTermService(db, rm, models.KindCategory),
		Tags:        services.NewTermService(db, rm, models.KindTag),
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(app.config.Addr, app.logger, app.services, app.media, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is done or a termination signal arrives, then closes
// the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "media", app.config.MediaBackend, "database", app.config.DatabaseDSN)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}

// Package server initializes and runs the CloudDrive server application.
// It wires configuration, the PostgreSQL registry, the object store, the
// optional listing cache, and the HTTP API, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MaxymDv/CloudDrive-System/internal/logging"
	"github.com/MaxymDv/CloudDrive-System/internal/server/blobstore"
	"github.com/MaxymDv/CloudDrive-System/internal/server/cache"
	"github.com/MaxymDv/CloudDrive-System/internal/server/config"
	"github.com/MaxymDv/CloudDrive-System/internal/server/repositories/repomanager"
	"github.com/MaxymDv/CloudDrive-System/internal/server/services"
	"github.com/MaxymDv/CloudDrive-System/internal/server/web"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	cache       *cache.RedisCache
	userService *services.UserService
	fileService *services.FileService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	blobs, err := blobstore.NewS3Store(ctx, blobstore.S3Config{
		RootUser:     cfg.S3RootUser,
		RootPassword: cfg.S3RootPassword,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	var redisCache *cache.RedisCache
	var listings cache.Cache
	if cfg.RedisAddr != "" {
		redisCache = cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			TTL:      cfg.CacheTTL,
		})
		if err := redisCache.Ping(ctx); err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		listings = redisCache
	}

	us := services.NewUserService(db, rm, cfg)
	fs := services.NewFileService(db, rm, blobs, listings, logger)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		cache:       redisCache,
		userService: us,
		fileService: fs,
	}, nil
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
	s := web.NewServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.fileService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Warn(ctx, "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err)
	}
}

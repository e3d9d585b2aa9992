// Package server wires the iNotebook server together: storage, cache, object
// storage, services and the HTTP and gRPC listeners, and runs them until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/inotebook/internal/logging"
	"github.com/dmitrijs2005/inotebook/internal/server/auth"
	"github.com/dmitrijs2005/inotebook/internal/server/cache"
	"github.com/dmitrijs2005/inotebook/internal/server/config"
	"github.com/dmitrijs2005/inotebook/internal/server/httpapi"
	"github.com/dmitrijs2005/inotebook/internal/server/metrics"
	"github.com/dmitrijs2005/inotebook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/inotebook/internal/server/services"
	"github.com/dmitrijs2005/inotebook/internal/server/storage"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/inotebook/internal/server/grpc"
)

const startupTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	redis   *redis.Client
	handler http.Handler
}

// NewApp connects to the configured backends and builds the API. An empty
// DSN selects the in-memory store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if c.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		config: c,
		logger: logging.NewJSONLogger(os.Stdout, c.LogLevel),
	}

	if c.UsesDefaultSecret() {
		app.logger.Warn(ctx, "signing tokens with the default secret key, set INOTEBOOK_SECRET_KEY")
	}

	rm, err := app.initStorage(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	var noteCache services.NoteListCache
	if c.RedisAddr != "" {
		if err := app.initRedis(ctx); err != nil {
			app.Close()
			return nil, err
		}
		noteCache = cache.NewNoteCache(app.redis, c.CacheTTL)
	}

	var attachments services.AttachmentStore
	if c.S3Bucket != "" {
		store, err := storage.NewS3AttachmentStore(ctx, storage.S3Config{
			User:     c.S3RootUser,
			Password: c.S3RootPassword,
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Endpoint: c.S3BaseEndpoint,
			Expires:  c.PresignValidityDuration,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		attachments = store
	}

	tokens := auth.NewTokenCodec([]byte(c.SecretKey), c.TokenValidityDuration)
	hasher := auth.NewPasswordHasher(c.BcryptCost)

	us, err := services.NewUserService(app.db, rm, tokens, hasher, app.logger.With("module", "users"))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("user service init error: %w", err)
	}
	ns := services.NewNoteService(app.db, rm, noteCache, attachments, app.logger.With("module", "notes"))

	app.handler = httpapi.NewRouter(httpapi.RouterDeps{
		Users:   us,
		Notes:   ns,
		Tokens:  tokens,
		Metrics: metrics.New(),
		Logger:  app.logger.With("module", "http"),
	})

	return app, nil
}

func (app *App) initStorage(ctx context.Context) (repomanager.RepositoryManager, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database DSN configured, using in-memory store")
		return repomanager.NewInMemoryRepositoryManager(), nil
	}

	db, err := sql.Open("pgx", app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db

	pingCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}
	return rm, nil
}

func (app *App) initRedis(ctx context.Context) error {
	app.redis = redis.NewClient(&redis.Options{
		Addr:     app.config.RedisAddr,
		Password: app.config.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	if err := app.redis.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping error: %w", err)
	}
	return nil
}

// Handler returns the HTTP API.
func (app *App) Handler() http.Handler {
	return app.handler
}

// Close releases the database and Redis connections.
func (app *App) Close() {
	if app.redis != nil {
		_ = app.redis.Close()
	}
	if app.db != nil {
		_ = app.db.Close()
	}
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
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.handler, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a shutdown signal arrives or a listener
// fails, then closes the backends.
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

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()
	app.Close()

	app.logger.Info(context.Background(), "App stopped")
}

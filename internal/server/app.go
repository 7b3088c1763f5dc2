// Package server initializes and runs the notes server.
// It opens the database, applies migrations, selects the session store and
// starts the HTTP and gRPC endpoints until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"github.com/dmitrijs2005/gophnotes/internal/server/web"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/gophnotes/internal/server/grpc"
)

// runner is either endpoint; both stop when ctx is cancelled.
type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	closers []io.Closer
	http    runner
	grpc    runner
}

var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db, closers: []io.Closer{db}}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := app.sessionStore(ctx, rm)
	if err != nil {
		app.Close()
		return nil, err
	}

	ss := services.NewSessionService(store, c, logger)
	es := services.NewExportService(db, rm, c, logger)
	us := services.NewUserService(db, rm, ss, es, c, logger)
	ns := services.NewNoteService(db, rm, logger)

	app.http = web.NewServer(c, logger, ss, us, ns, es)
	app.grpc = gs.NewGRPCServer(c.GRPCAddr, logger, ss, us, ns, es)

	return app, nil
}

func (app *App) sessionStore(ctx context.Context, rm repomanager.RepositoryManager) (sessions.Repository, error) {
	if app.config.SessionStore != config.SessionStoreRedis {
		return rm.Sessions(app.db), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     app.config.RedisAddr,
		Password: app.config.RedisPassword,
		DB:       app.config.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping error: %w", err)
	}
	app.closers = append(app.closers, client)

	app.logger.Info(ctx, "Using redis session store", "address", app.config.RedisAddr)
	return sessions.NewRedisRepository(client), nil
}

// Close releases the database and session store connections.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Error(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
}

func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

// Run serves both endpoints until a signal arrives or one of them fails.
func (app *App) Run(ctx context.Context) {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "http", app.http)
	}()
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "grpc", app.grpc)
	}()

	wg.Wait()

	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}

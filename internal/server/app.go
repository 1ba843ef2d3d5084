package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/database"
	"github.com/librarease/assetvault/internal/email"
	"github.com/librarease/assetvault/internal/events"
	"github.com/librarease/assetvault/internal/filestorage"
	"github.com/librarease/assetvault/internal/memstore"
	"github.com/librarease/assetvault/internal/queue"
	"github.com/librarease/assetvault/internal/usecase"
)

// App wires the asset store, the optional providers and the HTTP server.
type App struct {
	httpServer *http.Server
	usecase    usecase.Usecase
	logger     *slog.Logger

	// embedded export worker, only in memory mode with Redis available
	worker  *queue.Server
	closers []func() error
}

func NewApp(logger *slog.Logger) (*App, error) {
	ctx := context.Background()
	app := &App{logger: logger}

	repo, err := newRepository(logger)
	if err != nil {
		return nil, err
	}

	fsp, err := filestorage.FromEnv(ctx)
	if err != nil {
		repo.Close()
		return nil, err
	}
	if fsp == nil {
		logger.Info("file storage disabled, images stay inline")
	}

	var mailer usecase.Mailer
	mp, err := email.FromEnv(logger)
	if err != nil {
		logger.Warn("email disabled", slog.String("err", err.Error()))
	}
	if mp != nil {
		mailer = mp
		app.closers = append(app.closers, func() error { mp.Close(); return nil })
	}

	broker := events.FromEnv(logger)
	if rb, ok := broker.(*events.RedisBroker); ok {
		app.closers = append(app.closers, rb.Close)
	}

	var q usecase.Queue
	redisOpt, hasRedis := queue.RedisOptFromEnv()
	if hasRedis {
		qc := queue.NewClient(redisOpt, logger)
		q = qc
		app.closers = append(app.closers, qc.Close)
	} else {
		logger.Info("REDIS_HOST not set, exports disabled")
	}

	uc := usecase.New(repo, fsp, mailer, broker, q,
		usecase.WithLogger(logger),
		usecase.WithPublicBaseURL(os.Getenv(config.ENV_KEY_PUBLIC_BASE_URL)),
		usecase.WithMailFrom(os.Getenv(config.ENV_KEY_MAIL_FROM)),
	)
	app.usecase = uc

	// a separate worker process cannot see this process's memory, so
	// exports run here
	if _, inMemory := repo.(*memstore.Store); inMemory && hasRedis {
		if fsp == nil {
			logger.Warn("file storage not configured, export jobs will fail")
		}
		app.worker = queue.NewServer(redisOpt, uc, logger)
	}

	port := config.DEFAULT_PORT
	if p, err := strconv.Atoi(os.Getenv(config.ENV_KEY_PORT)); err == nil && p > 0 {
		port = p
	}

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewServer(uc, logger).RegisterRoutes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

func newRepository(logger *slog.Logger) (usecase.Repository, error) {
	driver := os.Getenv(config.ENV_KEY_STORAGE_DRIVER)
	switch driver {
	case "", config.STORAGE_DRIVER_MEMORY:
		logger.Info("using in-memory asset store")
		return memstore.New(), nil
	case config.STORAGE_DRIVER_POSTGRES:
		gormDB, err := database.Connect(logger)
		if err != nil {
			return nil, err
		}
		repo, err := database.New(gormDB)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown %s %q", config.ENV_KEY_STORAGE_DRIVER, driver)
	}
}

func (a *App) Addr() string {
	return a.httpServer.Addr
}

// ListenAndServe starts the embedded worker if any, then blocks serving
// HTTP until Shutdown.
func (a *App) ListenAndServe() error {
	if a.worker != nil {
		if err := a.worker.Start(); err != nil {
			return fmt.Errorf("start embedded worker: %w", err)
		}
		a.logger.Info("embedded export worker started")
	}

	err := a.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	errs := []error{a.httpServer.Shutdown(ctx)}

	if a.worker != nil {
		a.worker.Shutdown()
	}
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	errs = append(errs, a.usecase.Close())

	return errors.Join(errs...)
}

package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"

	"github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/database"
	"github.com/librarease/assetvault/internal/email"
	"github.com/librarease/assetvault/internal/events"
	"github.com/librarease/assetvault/internal/filestorage"
	"github.com/librarease/assetvault/internal/queue/handlers"
	"github.com/librarease/assetvault/internal/usecase"
)

// Server wraps asynq.Server for processing tasks
type Server struct {
	asynqServer *asynq.Server
	mux         *asynq.ServeMux
	logger      *slog.Logger
}

// NewServer builds an asynq server whose handlers run against uc.
func NewServer(opt asynq.RedisClientOpt, uc usecase.Usecase, logger *slog.Logger) *Server {
	workerConcurrency := config.DEFAULT_WORKER_CONCURRENCY
	if n, err := strconv.Atoi(os.Getenv(config.ENV_KEY_WORKER_CONCURRENCY)); err == nil && n > 0 {
		workerConcurrency = n
	}

	asynqServer := asynq.NewServer(opt, asynq.Config{
		Concurrency: workerConcurrency,
		Queues: map[string]int{
			defaultQueue: 1,
		},
		Logger:   newAsynqLogger(logger),
		LogLevel: asynq.InfoLevel,
	})

	mux := asynq.NewServeMux()

	h := handlers.NewHandlers(uc, logger)
	for _, t := range h.Register(mux) {
		logger.Info("Worker registered handler", slog.String("type", t))
	}

	return &Server{
		asynqServer: asynqServer,
		mux:         mux,
		logger:      logger,
	}
}

// Start processes tasks in background goroutines and returns.
func (s *Server) Start() error {
	return s.asynqServer.Start(s.mux)
}

func (s *Server) Shutdown() {
	s.asynqServer.Shutdown()
}

// Worker represents a worker application with all its dependencies
type Worker struct {
	server  *Server
	repo    usecase.Repository
	mailer  *email.EmailProvider
	closers []func() error
}

// NewWorker creates a fully configured worker with all dependencies.
// The worker reads assets from Postgres; an in-memory store lives only
// inside the API process, which then runs its own embedded worker.
func NewWorker(logger *slog.Logger) (*Worker, error) {
	logger.Info("Initializing worker dependencies...")

	redisOpt, ok := RedisOptFromEnv()
	if !ok {
		return nil, errors.New("worker: REDIS_HOST is not set")
	}

	gormDB, err := database.Connect(logger)
	if err != nil {
		return nil, err
	}
	repo, err := database.New(gormDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	fsp, err := filestorage.FromEnv(context.Background())
	if err != nil {
		repo.Close()
		return nil, err
	}
	if fsp == nil {
		repo.Close()
		return nil, errors.New("worker: FILE_STORAGE_PROVIDER is not set")
	}

	mp, err := email.FromEnv(logger)
	if err != nil {
		logger.Warn("email disabled", slog.String("err", err.Error()))
	}

	var mailer usecase.Mailer
	if mp != nil {
		mailer = mp
	}

	broker := events.FromEnv(logger)

	// Create usecase without queue client (workers don't need to enqueue)
	uc := usecase.New(repo, fsp, mailer, broker, nil,
		usecase.WithLogger(logger),
		usecase.WithMailFrom(os.Getenv(config.ENV_KEY_MAIL_FROM)),
	)

	w := &Worker{
		server: NewServer(redisOpt, uc, logger),
		repo:   repo,
		mailer: mp,
	}
	if rb, ok := broker.(*events.RedisBroker); ok {
		w.closers = append(w.closers, rb.Close)
	}
	return w, nil
}

// Start starts the worker server
func (w *Worker) Start() error {
	w.server.logger.Info("Worker started successfully")
	return w.server.Start()
}

// Stop stops the worker server gracefully
func (w *Worker) Stop() {
	w.server.logger.Info("Stopping worker...")
	w.server.Shutdown()

	if w.mailer != nil {
		w.mailer.Close()
	}
	for _, c := range w.closers {
		if err := c(); err != nil {
			w.server.logger.Error("close", slog.String("err", err.Error()))
		}
	}
	if err := w.repo.Close(); err != nil {
		w.server.logger.Error("Error closing database", slog.String("err", err.Error()))
	}
}

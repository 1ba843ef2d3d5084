package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/librarease/assetvault/internal/queue"
	"github.com/librarease/assetvault/internal/telemetry"
)

func main() {
	logger := telemetry.NewLogger()
	slog.SetDefault(logger)

	shutdownTelemetry, err := telemetry.Setup(context.Background())
	if err != nil {
		logger.Error("Failed to set up telemetry", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting export worker...")

	worker, err := queue.NewWorker(logger)
	if err != nil {
		logger.Error("Failed to create worker", slog.String("err", err.Error()))
		os.Exit(1)
	}

	if err := worker.Start(); err != nil {
		logger.Error("Worker error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	worker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTelemetry(ctx); err != nil {
		logger.Error("Telemetry shutdown error", slog.String("err", err.Error()))
	}

	logger.Info("Worker exited properly")
}

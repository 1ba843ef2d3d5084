package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/librarease/assetvault/internal/server"
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

	app, err := server.NewApp(logger)
	if err != nil {
		logger.Error("Failed to create app", slog.String("err", err.Error()))
		os.Exit(1)
	}

	// Server startup
	go func() {
		logger.Info("API server starting", slog.String("addr", app.Addr()))
		if err := app.ListenAndServe(); err != nil {
			logger.Error("Server error", slog.String("err", err.Error()))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", slog.String("err", err.Error()))
	}
	if err := shutdownTelemetry(ctx); err != nil {
		logger.Error("Telemetry shutdown error", slog.String("err", err.Error()))
	}

	logger.Info("API server exited properly")
}

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/assetdesk/assetdesk/internal/queue"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	worker, err := queue.NewWorker()
	if err != nil {
		logger.Error("Failed to create worker", slog.String("err", err.Error()))
		os.Exit(1)
	}

	go func() {
		logger.Info("Starting Asynq worker...")
		if err := worker.Start(); err != nil {
			logger.Error("Worker error", slog.String("err", err.Error()))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	worker.Stop()
	logger.Info("Worker exited properly")
}

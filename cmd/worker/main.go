package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/nikhilbhutani/braillevoice/internal/config"
	"github.com/nikhilbhutani/braillevoice/internal/queue"
	"github.com/nikhilbhutani/braillevoice/internal/queue/workers"
	"github.com/nikhilbhutani/braillevoice/internal/retention"
	"github.com/nikhilbhutani/braillevoice/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Redis.URL == "" {
		slog.Error("REDIS_URL is required for the worker")
		os.Exit(1)
	}
	redisOpt, err := queue.RedisOpt(cfg.Redis.URL)
	if err != nil {
		slog.Error("invalid redis url", "error", err)
		os.Exit(1)
	}

	store := storage.NewLocalStorage(cfg.Storage.StaticDir, "/static")
	sweeper := retention.NewSweeper(store, cfg.Retention.Window, cfg.Storage.UploadBucket, cfg.Storage.AudioBucket)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		Queues: map[string]int{
			"default": 1,
		},
	})

	registry := queue.NewHandlersRegistry()
	registry.Register(queue.TypeFilesSweep, asynq.HandlerFunc(workers.NewSweepWorker(sweeper).ProcessTask))

	scheduler := queue.NewScheduler(redisOpt)
	id, err := scheduler.RegisterFilesSweep(cfg.Retention.Schedule, queue.FilesSweepPayload{})
	if err != nil {
		slog.Error("failed to register sweep", "error", err)
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	slog.Info("sweep scheduled", "entry_id", id, "spec", cfg.Retention.Schedule)

	// Catch up on files left behind while no worker was running.
	client := queue.NewClient(redisOpt)
	if err := client.EnqueueFilesSweep(queue.FilesSweepPayload{}); err != nil {
		slog.Warn("initial sweep not enqueued", "error", err)
	}
	client.Close()

	if err := srv.Start(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
	slog.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	scheduler.Shutdown()
	srv.Shutdown()
	slog.Info("worker stopped")
}

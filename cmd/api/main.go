package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nikhilbhutani/braillevoice/internal/api"
	"github.com/nikhilbhutani/braillevoice/internal/assist"
	"github.com/nikhilbhutani/braillevoice/internal/braille"
	"github.com/nikhilbhutani/braillevoice/internal/cache"
	"github.com/nikhilbhutani/braillevoice/internal/config"
	"github.com/nikhilbhutani/braillevoice/internal/multimodal/tts"
	"github.com/nikhilbhutani/braillevoice/internal/recognition"
	"github.com/nikhilbhutani/braillevoice/internal/recognition/tesseract"
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
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store := storage.NewLocalStorage(cfg.Storage.StaticDir, "/static")
	if err := store.EnsureBuckets(cfg.Storage.UploadBucket, cfg.Storage.AudioBucket); err != nil {
		slog.Error("failed to prepare storage", "error", err)
		os.Exit(1)
	}

	// Redis cache (optional)
	var audioCache *cache.Cache
	if cfg.Redis.URL != "" {
		audioCache, err = cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			slog.Warn("redis unavailable, running without cache", "error", err)
		} else {
			defer audioCache.Close()
		}
	}

	transcriber, err := braille.NewTranscriber(cfg.Braille.MemoSize)
	if err != nil {
		slog.Error("failed to create transcriber", "error", err)
		os.Exit(1)
	}

	ocr := tesseract.New(cfg.OCR.Languages)
	slog.Info("ocr engine ready", "engine", ocr.Name(), "version", ocr.Version(), "languages", ocr.Languages())
	pipeline := recognition.NewPipeline(ocr, recognition.NewWhatlangDetector())

	var synthOpts []tts.Option
	if audioCache != nil {
		synthOpts = append(synthOpts, tts.WithCache(audioCache, cfg.TTS.CacheTTL))
	}
	synth := tts.NewSynthesizer(providerChain(cfg.TTS), synthOpts...)

	svc := assist.NewService(store,
		assist.Buckets{Uploads: cfg.Storage.UploadBucket, Audio: cfg.Storage.AudioBucket},
		pipeline, transcriber, synth)

	services := api.Services{Processor: svc, Transcriber: transcriber}
	if audioCache != nil {
		services.Cache = audioCache
	}
	router := api.NewRouter(cfg, services)
	defer router.Close()

	// In production the sweep runs in cmd/worker.
	var sweeps *retention.Scheduler
	if !cfg.Production() {
		sweeper := retention.NewSweeper(store, cfg.Retention.Window, cfg.Storage.UploadBucket, cfg.Storage.AudioBucket)
		sweeps = retention.NewScheduler(sweeper)
		if err := sweeps.Start(cfg.Retention.Schedule); err != nil {
			slog.Error("failed to start sweeper", "error", err)
			os.Exit(1)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr(), "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	if sweeps != nil {
		sweeps.Stop(shutdownCtx)
	}
	slog.Info("server stopped")
}

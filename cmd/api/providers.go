package main

import (
	"log/slog"

	"github.com/nikhilbhutani/braillevoice/internal/config"
	"github.com/nikhilbhutani/braillevoice/internal/multimodal/tts"
)

// providerChain builds the online provider, wrapped in retries, followed by
// the offline fallback.
func providerChain(cfg config.TTSConfig) []tts.TTSProvider {
	var online tts.TTSProvider
	switch cfg.OnlineBackend {
	case "openai":
		online = tts.NewOpenAITTS(tts.OpenAITTSConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Voice:   cfg.OpenAIVoice,
		})
	default:
		online = tts.NewGTTS(tts.GTTSConfig{
			BaseURL:           cfg.GTTSBaseURL,
			RequestsPerMinute: cfg.GTTSRPM,
		})
	}

	transcoder := tts.NewTranscoder(cfg.FFmpegBin)
	if transcoder == nil {
		slog.Warn("ffmpeg not found, offline audio will be WAV", "bin", cfg.FFmpegBin)
	}

	var offline tts.TTSProvider
	switch cfg.OfflineBackend {
	case "piper":
		offline = tts.NewLocalTTS(tts.LocalTTSConfig{
			PiperBinPath: cfg.PiperBin,
			ModelPath:    cfg.PiperModel,
		}, transcoder)
	default:
		offline = tts.NewEspeak(tts.EspeakConfig{BinPath: cfg.EspeakBin}, transcoder)
	}

	slog.Info("tts chain configured", "online", online.Name(), "offline", offline.Name(), "max_attempts", cfg.MaxAttempts)
	return []tts.TTSProvider{
		tts.NewRetry(online, cfg.MaxAttempts, cfg.RetryBackoff, cfg.AttemptTimeout),
		offline,
	}
}

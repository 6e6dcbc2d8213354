package tts

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// EspeakConfig holds configuration for the offline eSpeak NG backend.
type EspeakConfig struct {
	BinPath string // default: "espeak-ng"
	Speed   int    // words per minute, default 160
}

// Espeak synthesizes speech locally with eSpeak NG. It needs no network.
type Espeak struct {
	cfg        EspeakConfig
	transcoder *Transcoder
}

func NewEspeak(cfg EspeakConfig, transcoder *Transcoder) *Espeak {
	if cfg.BinPath == "" {
		cfg.BinPath = "espeak-ng"
	}
	if cfg.Speed == 0 {
		cfg.Speed = 160
	}
	return &Espeak{cfg: cfg, transcoder: transcoder}
}

func (e *Espeak) Name() string { return "espeak-ng" }

func (e *Espeak) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, ErrNoText
	}
	voice := req.Language
	if voice == "" {
		voice = "en"
	}

	cmd := exec.CommandContext(ctx, e.cfg.BinPath,
		"-v", voice,
		"-s", fmt.Sprint(e.cfg.Speed),
		"--stdin",
		"--stdout",
	)
	cmd.Stdin = strings.NewReader(req.Input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("espeak-ng failed: %w (stderr: %s)", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("espeak-ng produced no audio (stderr: %s)", stderr.String())
	}

	return encodeWAV(ctx, e.transcoder, stdout.Bytes())
}

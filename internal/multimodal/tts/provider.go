package tts

import (
	"context"
	"errors"
)

var (
	// ErrRateLimited marks errors after which the caller should slow down and retry.
	ErrRateLimited = errors.New("tts rate limited")

	// ErrSynthesisFailed is returned when every synthesis strategy failed.
	ErrSynthesisFailed = errors.New("failed to generate audio")

	ErrNoText = errors.New("no text to speak")
)

// SynthesisRequest holds the parameters for text-to-speech generation.
type SynthesisRequest struct {
	Input    string  `json:"input"`
	Language string  `json:"language,omitempty"` // ISO 639-1, e.g. "en", "hi"
	Voice    string  `json:"voice,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
}

// SynthesisResult holds the generated audio and its content type.
type SynthesisResult struct {
	Audio       []byte
	ContentType string // "audio/mpeg" or "audio/wav"
}

// TTSProvider is the interface for text-to-speech backends.
type TTSProvider interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)
	Name() string
}

// IsRateLimited reports whether err is a rate-limit-class error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

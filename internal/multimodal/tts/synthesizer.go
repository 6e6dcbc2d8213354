package tts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nikhilbhutani/braillevoice/internal/storage"
)

const DefaultCacheTTL = time.Hour

// AudioCache memoizes synthesized audio by fingerprint.
type AudioCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Synthesizer writes speech for a text to a file. It consults the cache
// first, then tries each provider of the chain in order; the first success
// wins and is written back to the cache.
type Synthesizer struct {
	chain    []TTSProvider
	cache    AudioCache
	cacheTTL time.Duration
}

type Option func(*Synthesizer)

// WithCache enables audio memoization. Without it every call reaches the providers.
func WithCache(c AudioCache, ttl time.Duration) Option {
	return func(s *Synthesizer) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func NewSynthesizer(chain []TTSProvider, opts ...Option) *Synthesizer {
	s := &Synthesizer{chain: chain, cacheTTL: DefaultCacheTTL}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fingerprint is the cache key for a (text, language) pair.
func Fingerprint(text, lang string) string {
	sum := sha256.Sum256([]byte(text + lang))
	return "tts:" + hex.EncodeToString(sum[:])
}

// Synthesize speaks text in lang and writes the audio to destination.
func (s *Synthesizer) Synthesize(ctx context.Context, text, lang, destination string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: %w", ErrSynthesisFailed, ErrNoText)
	}
	key := Fingerprint(text, lang)

	if audio, ok := s.lookup(ctx, key); ok {
		slog.Info("serving tts from cache", "key", key, "size", humanize.Bytes(uint64(len(audio))))
		return writeAudio(destination, audio)
	}

	req := SynthesisRequest{Input: text, Language: lang}
	var errs []error
	for i, p := range s.chain {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if i > 0 {
			slog.Warn("falling back to next tts provider", "provider", p.Name(), "previous_error", errs[len(errs)-1])
		}

		res, err := p.Synthesize(ctx, req)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		slog.Info("tts generated",
			"provider", p.Name(),
			"lang", lang,
			"content_type", res.ContentType,
			"size", humanize.Bytes(uint64(len(res.Audio))),
		)
		if err := writeAudio(destination, res.Audio); err != nil {
			return err
		}
		s.store(ctx, key, res.Audio)
		return nil
	}

	err := errors.Join(errs...)
	slog.Error("tts failed on every provider", "lang", lang, "error", err)
	return fmt.Errorf("%w: %w", ErrSynthesisFailed, err)
}

func (s *Synthesizer) lookup(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	audio, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("tts cache read failed", "key", key, "error", err)
		return nil, false
	}
	return audio, ok
}

func (s *Synthesizer) store(ctx context.Context, key string, audio []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, audio, s.cacheTTL); err != nil {
		slog.Warn("tts cache write failed", "key", key, "error", err)
	}
}

func writeAudio(destination string, audio []byte) error {
	if err := storage.WriteFileAtomic(destination, bytes.NewReader(audio)); err != nil {
		return fmt.Errorf("%w: save audio: %w", ErrSynthesisFailed, err)
	}
	return nil
}

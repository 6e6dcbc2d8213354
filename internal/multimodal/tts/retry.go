package tts

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Retry retries a provider on rate-limit errors with exponential backoff.
// Any other error is returned after the first attempt.
type Retry struct {
	provider       TTSProvider
	attempts       int
	backoff        time.Duration
	attemptTimeout time.Duration
}

// NewRetry wraps p. backoff is the delay before the second attempt and
// doubles after every further rate-limited attempt. A zero attemptTimeout
// leaves individual attempts unbounded.
func NewRetry(p TTSProvider, attempts int, backoff, attemptTimeout time.Duration) *Retry {
	if attempts < 1 {
		attempts = 1
	}
	return &Retry{
		provider:       p,
		attempts:       attempts,
		backoff:        backoff,
		attemptTimeout: attemptTimeout,
	}
}

func (r *Retry) Name() string { return r.provider.Name() }

func (r *Retry) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	delay := r.backoff
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		res, err := r.try(ctx, req)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !IsRateLimited(err) {
			return nil, err
		}
		if attempt == r.attempts {
			break
		}

		slog.Warn("tts rate limited, backing off",
			"provider", r.provider.Name(),
			"attempt", attempt,
			"backoff", delay,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, fmt.Errorf("all %d attempts rate limited for %s: %w", r.attempts, r.provider.Name(), lastErr)
}

func (r *Retry) try(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	if r.attemptTimeout <= 0 {
		return r.provider.Synthesize(ctx, req)
	}
	ctx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()
	return r.provider.Synthesize(ctx, req)
}

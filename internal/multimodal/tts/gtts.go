package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/nikhilbhutani/braillevoice/pkg/chunker"
)

const gttsMaxChunk = 100

// GTTSConfig holds configuration for the Google Translate TTS backend.
type GTTSConfig struct {
	BaseURL           string // default: "https://translate.google.com"
	RequestsPerMinute int    // default: 50
}

// GTTS speaks text through the Google Translate TTS endpoint. Text longer
// than the endpoint accepts is split at sentence or word boundaries and the
// MP3 parts are concatenated.
type GTTS struct {
	cfg        GTTSConfig
	limiter    *rate.Limiter
	httpClient *http.Client
}

func NewGTTS(cfg GTTSConfig) *GTTS {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://translate.google.com"
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 50
	}
	return &GTTS{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 3),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (g *GTTS) Name() string { return "gtts" }

func (g *GTTS) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	chunks := chunker.Split(req.Input, gttsMaxChunk)
	if len(chunks) == 0 {
		return nil, ErrNoText
	}
	lang := req.Language
	if lang == "" {
		lang = "en"
	}

	var audio bytes.Buffer
	for i, chunk := range chunks {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("gtts rate limiter: %w", err)
		}
		if err := g.fetch(ctx, &audio, chunk, lang, i, len(chunks)); err != nil {
			return nil, err
		}
	}

	return &SynthesisResult{
		Audio:       audio.Bytes(),
		ContentType: "audio/mpeg",
	}, nil
}

func (g *GTTS) fetch(ctx context.Context, w io.Writer, chunk, lang string, idx, total int) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("q", chunk)
	q.Set("tl", lang)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0")
	httpReq.Header.Set("Referer", g.cfg.BaseURL+"/")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gtts request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusServiceUnavailable:
		return fmt.Errorf("%w: gtts status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gtts failed (status %d): %s", resp.StatusCode, string(body))
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read gtts audio: %w", err)
	}
	return nil
}

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikhilbhutani/braillevoice/internal/assist"
	"github.com/nikhilbhutani/braillevoice/internal/config"
	"github.com/nikhilbhutani/braillevoice/internal/models"
)

type panicProcessor struct{}

func (panicProcessor) Process(ctx context.Context, up assist.Upload) (*models.Result, error) {
	panic("boom")
}

type noopTranscriber struct{}

func (noopTranscriber) Transcribe(text, lang string) (string, error) { return text, nil }

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	static := t.TempDir()
	if err := os.MkdirAll(filepath.Join(static, "audio"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(static, "audio", "a.mp3"), []byte("ID3audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	cfg.Storage.StaticDir = static
	cfg.Storage.MaxUploadBytes = 10 << 20
	cfg.RateLimit.RPS = 100
	cfg.RateLimit.Burst = 100
	cfg.Server.CORSOrigins = []string{"*"}

	rt := NewRouter(cfg, Services{Processor: panicProcessor{}, Transcriber: noopTranscriber{}})
	srv := httptest.NewServer(rt.Setup())
	t.Cleanup(func() {
		srv.Close()
		rt.Close()
	})
	return srv, static
}

func TestRouter_Routes(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/health", http.StatusOK, `"healthy"`},
		{http.MethodGet, "/readyz", http.StatusOK, `"disabled"`},
		{http.MethodGet, "/", http.StatusOK, `enctype="multipart/form-data"`},
		{http.MethodGet, "/static/audio/a.mp3", http.StatusOK, "ID3audio"},
		{http.MethodGet, "/static/audio/", http.StatusNotFound, ""},
		{http.MethodGet, "/static/audio/missing.mp3", http.StatusNotFound, ""},
		{http.MethodPost, "/", http.StatusInternalServerError, "Internal server error, please try again"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(""))
			if err != nil {
				t.Fatal(err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			buf := new(strings.Builder)
			if _, err := io.Copy(buf, resp.Body); err != nil {
				t.Fatal(err)
			}
			if tt.body != "" && !strings.Contains(buf.String(), tt.body) {
				t.Errorf("body %q does not contain %q", buf.String(), tt.body)
			}
		})
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikhilbhutani/braillevoice/internal/assist"
	"github.com/nikhilbhutani/braillevoice/internal/braille"
	"github.com/nikhilbhutani/braillevoice/internal/models"
	"github.com/nikhilbhutani/braillevoice/internal/storage"
)

const maxUpload = 10 << 20

type stubRecognizer struct{ text, lang string }

func (s stubRecognizer) Process(ctx context.Context, imagePath string) (string, string, error) {
	return s.text, s.lang, nil
}

type stubSynthesizer struct{}

func (stubSynthesizer) Synthesize(ctx context.Context, text, lang, destination string) error {
	return os.WriteFile(destination, []byte("ID3"), 0o644)
}

func newService(t *testing.T) (*assist.Service, string) {
	t.Helper()
	root := t.TempDir()
	store := storage.NewLocalStorage(root, "/static")
	if err := store.EnsureBuckets("uploads", "audio"); err != nil {
		t.Fatal(err)
	}
	tr, err := braille.NewTranscriber(braille.DefaultMemoSize)
	if err != nil {
		t.Fatal(err)
	}
	svc := assist.NewService(store, assist.Buckets{Uploads: "uploads", Audio: "audio"},
		stubRecognizer{text: "Hello", lang: "en"}, tr, stubSynthesizer{})
	return svc, root
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(data)
	} else {
		mw.WriteField("comment", "no file here")
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func submit(t *testing.T, h http.HandlerFunc, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func TestIndex_Form(t *testing.T) {
	svc, _ := newService(t)
	h := NewIndexHandler(svc, NewPage(maxUpload), maxUpload)

	rec := httptest.NewRecorder()
	h.Form(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="image"`) || !strings.Contains(body, "10 MiB") {
		t.Errorf("form missing from page: %s", body)
	}
	if strings.Contains(body, `class="error"`) {
		t.Error("empty form should not show an error")
	}
}

func TestIndex_Submit(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		filename    string
		contentType string
		data        func(t *testing.T) []byte
		wantStatus  int
		wantText    []string
		wantStored  int
	}{
		{
			name:        "valid jpeg",
			field:       "image",
			filename:    "hello.jpg",
			contentType: "image/jpeg",
			data:        jpegBytes,
			wantStatus:  http.StatusOK,
			wantText: []string{
				"Hello",
				"⠰⠑ ⠓⠑⠇⠇⠕",
				"/static/uploads/hello.jpg",
				"/static/audio/hello.mp3",
				"(en)",
			},
			wantStored: 1,
		},
		{
			name:       "no image field",
			wantStatus: http.StatusOK,
			wantText:   []string{assist.MsgNoImage},
		},
		{
			name:        "empty filename",
			field:       "image",
			filename:    "",
			contentType: "image/jpeg",
			data:        jpegBytes,
			wantStatus:  http.StatusOK,
			wantText:    []string{assist.MsgNoImage},
		},
		{
			name:        "text file",
			field:       "image",
			filename:    "notes.txt",
			contentType: "text/plain",
			data:        func(*testing.T) []byte { return []byte("just some text") },
			wantStatus:  http.StatusOK,
			wantText:    []string{assist.MsgInvalidType},
		},
		{
			name:        "text file claiming png",
			field:       "image",
			filename:    "notes.png",
			contentType: "image/png",
			data:        func(*testing.T) []byte { return []byte("just some text") },
			wantStatus:  http.StatusOK,
			wantText:    []string{assist.MsgInvalidType},
		},
		{
			name:        "too large",
			field:       "image",
			filename:    "big.jpg",
			contentType: "image/jpeg",
			data:        func(*testing.T) []byte { return make([]byte, maxUpload+1024) },
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantText:    []string{assist.MsgTooLarge},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, root := newService(t)
			h := NewIndexHandler(svc, NewPage(maxUpload), maxUpload)

			var data []byte
			if tt.data != nil {
				data = tt.data(t)
			}
			body, ct := multipartBody(t, tt.field, tt.filename, tt.contentType, data)
			rec := submit(t, h.Submit, "/", body, ct)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			page := rec.Body.String()
			for _, want := range tt.wantText {
				if !strings.Contains(page, want) {
					t.Errorf("page does not contain %q", want)
				}
			}
			if n := countFiles(t, filepath.Join(root, "uploads")); n != tt.wantStored {
				t.Errorf("stored %d uploads, want %d", n, tt.wantStored)
			}
		})
	}
}

func TestIndex_TooLargeWithoutContentLength(t *testing.T) {
	svc, _ := newService(t)
	h := NewIndexHandler(svc, NewPage(1024), 1024)

	body, ct := multipartBody(t, "image", "big.jpg", "image/jpeg", make([]byte, 4096))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.ContentLength = -1
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

type brokenProcessor struct{}

func (brokenProcessor) Process(ctx context.Context, up assist.Upload) (*models.Result, error) {
	return nil, errors.New("unexpected")
}

func TestIndex_UnclassifiedErrorIs500(t *testing.T) {
	h := NewIndexHandler(brokenProcessor{}, NewPage(maxUpload), maxUpload)
	body, ct := multipartBody(t, "image", "a.jpg", "image/jpeg", jpegBytes(t))
	rec := submit(t, h.Submit, "/", body, ct)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), assist.MsgInternal) {
		t.Error("generic error message missing")
	}
}

func TestAPI_Process(t *testing.T) {
	svc, _ := newService(t)
	tr, _ := braille.NewTranscriber(8)
	h := NewAPIHandler(svc, tr, maxUpload)

	body, ct := multipartBody(t, "image", "hello.jpg", "image/jpeg", jpegBytes(t))
	rec := submit(t, h.Process, "/api/v1/process", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var res models.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.BrailleText != "⠰⠑ ⠓⠑⠇⠇⠕" || res.AudioFile != "/static/audio/hello.mp3" {
		t.Errorf("result = %+v", res)
	}

	body, ct = multipartBody(t, "image", "notes.txt", "text/plain", []byte("hi"))
	rec = submit(t, h.Process, "/api/v1/process", body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid type status = %d", rec.Code)
	}
	var errBody map[string]string
	json.NewDecoder(rec.Body).Decode(&errBody)
	if errBody["error"] != assist.MsgInvalidType || errBody["stage"] != "validate" {
		t.Errorf("error body = %v", errBody)
	}
}

func TestAPI_Braille(t *testing.T) {
	tr, _ := braille.NewTranscriber(8)
	h := NewAPIHandler(brokenProcessor{}, tr, maxUpload)

	tests := []struct {
		body   string
		status int
		want   string
	}{
		{`{"text":"Hello"}`, http.StatusOK, "⠰⠑ ⠓⠑⠇⠇⠕"},
		{`{"text":"","language":"HI"}`, http.StatusOK, "⠰⠓ "},
		{`{"text":`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/braille", strings.NewReader(tt.body))
		rec := httptest.NewRecorder()
		h.Braille(rec, req)
		if rec.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.body, rec.Code, tt.status)
			continue
		}
		if tt.status != http.StatusOK {
			continue
		}
		var resp brailleResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.Braille != tt.want {
			t.Errorf("%s: braille = %q, want %q", tt.body, resp.Braille, tt.want)
		}
	}
}

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"status":"healthy"}` {
		t.Errorf("health = %d %s", rec.Code, rec.Body)
	}

	tests := []struct {
		name   string
		cache  Pinger
		status int
	}{
		{"no cache", nil, http.StatusOK},
		{"cache up", pinger{}, http.StatusOK},
		{"cache down", pinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.cache).Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

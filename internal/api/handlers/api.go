package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/nikhilbhutani/braillevoice/internal/assist"
	"github.com/nikhilbhutani/braillevoice/internal/recognition"
)

// Transcriber converts text to Braille.
type Transcriber interface {
	Transcribe(text, lang string) (string, error)
}

// APIHandler exposes the pipeline as JSON for non-browser clients.
type APIHandler struct {
	svc         Processor
	transcriber Transcriber
	maxBytes    int64
}

func NewAPIHandler(svc Processor, t Transcriber, maxBytes int64) *APIHandler {
	return &APIHandler{svc: svc, transcriber: t, maxBytes: maxBytes}
}

// Process handles a multipart upload and returns the result as JSON.
func (h *APIHandler) Process(w http.ResponseWriter, r *http.Request) {
	up, cleanup, err := readUpload(w, r, h.maxBytes)
	defer cleanup()
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": assist.MsgTooLarge})
		return
	}

	result, err := h.svc.Process(r.Context(), up)
	if err != nil {
		se, ok := assist.AsStageError(err)
		if !ok {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": assist.MsgInternal})
			return
		}
		writeJSON(w, stageStatus(se), map[string]string{"error": se.Message, "stage": string(se.Stage)})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type brailleRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type brailleResponse struct {
	Braille  string `json:"braille"`
	Language string `json:"language"`
}

// Braille transcribes plain text without OCR or speech.
func (h *APIHandler) Braille(w http.ResponseWriter, r *http.Request) {
	var req brailleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	lang := strings.ToLower(strings.TrimSpace(req.Language))
	if lang == "" {
		lang = recognition.DefaultLanguage
	}

	out, err := h.transcriber.Transcribe(req.Text, lang)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": assist.MsgBrailleFailed})
		return
	}
	writeJSON(w, http.StatusOK, brailleResponse{Braille: out, Language: lang})
}

// stageStatus maps a failed stage to an HTTP status for API clients.
func stageStatus(se *assist.StageError) int {
	switch {
	case errors.Is(se.Err, assist.ErrNoImage), errors.Is(se.Err, assist.ErrInvalidType):
		return http.StatusBadRequest
	case se.Stage == assist.StageDecode:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

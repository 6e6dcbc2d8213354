// Package assist turns an uploaded image into extracted text, its Braille
// transcription and a spoken audio file.
package assist

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/nikhilbhutani/braillevoice/internal/models"
	"github.com/nikhilbhutani/braillevoice/internal/recognition"
	"github.com/nikhilbhutani/braillevoice/internal/storage"
)

const audioExt = ".mp3"

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Upload is one image received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

type FileStore interface {
	Upload(ctx context.Context, bucket, name string, data io.Reader, contentType string) error
	LocalPath(bucket, name string) (string, error)
	GetPublicURL(bucket, name string) string
}

type Recognizer interface {
	Process(ctx context.Context, imagePath string) (text, lang string, err error)
}

type Transcriber interface {
	Transcribe(text, lang string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang, destination string) error
}

type Buckets struct {
	Uploads string
	Audio   string
}

type Service struct {
	store       FileStore
	buckets     Buckets
	recognizer  Recognizer
	transcriber Transcriber
	synthesizer Synthesizer
}

func NewService(store FileStore, buckets Buckets, r Recognizer, t Transcriber, s Synthesizer) *Service {
	return &Service{
		store:       store,
		buckets:     buckets,
		recognizer:  r,
		transcriber: t,
		synthesizer: s,
	}
}

// Process runs validate, store, recognize, transcribe and synthesize in
// order. The first failing stage ends the request with a *StageError.
func (s *Service) Process(ctx context.Context, up Upload) (*models.Result, error) {
	if up.Data == nil || up.Filename == "" {
		return nil, fail(StageValidate, MsgNoImage, ErrNoImage)
	}
	contentType := baseType(up.ContentType)
	if !allowedTypes[contentType] {
		return nil, fail(StageValidate, MsgInvalidType, ErrInvalidType, "content_type", up.ContentType)
	}
	body := bufio.NewReader(up.Data)
	head, _ := body.Peek(512)
	if sniffed := baseType(http.DetectContentType(head)); !allowedTypes[sniffed] {
		return nil, fail(StageValidate, MsgInvalidType, ErrInvalidType, "content_type", up.ContentType, "sniffed", sniffed)
	}

	name := storage.UploadName(up.Filename)
	if err := s.store.Upload(ctx, s.buckets.Uploads, name, body, contentType); err != nil {
		return nil, fail(StageStore, MsgSaveFailed, err, "name", name)
	}
	imagePath, err := s.store.LocalPath(s.buckets.Uploads, name)
	if err != nil {
		return nil, fail(StageStore, MsgSaveFailed, err, "name", name)
	}

	text, lang, err := s.recognizer.Process(ctx, imagePath)
	switch {
	case errors.Is(err, recognition.ErrInvalidImage):
		return nil, fail(StageDecode, MsgInvalidImage, err, "name", name)
	case err != nil:
		return nil, fail(StageRecognize, MsgRecognitionFailed, err, "name", name)
	}

	braille, err := s.transcriber.Transcribe(text, lang)
	if err != nil {
		return nil, fail(StageTranscribe, MsgBrailleFailed, err, "lang", lang)
	}

	speechLang := recognition.SpeechLanguage(lang)
	audioName := storage.SiblingName(name, audioExt)
	audioPath, err := s.store.LocalPath(s.buckets.Audio, audioName)
	if err != nil {
		return nil, fail(StageSynthesize, MsgAudioFailed, err, "name", audioName)
	}
	if err := s.synthesizer.Synthesize(ctx, text, speechLang, audioPath); err != nil {
		return nil, fail(StageSynthesize, MsgAudioFailed, err, "lang", speechLang)
	}

	slog.Info("upload processed", "name", name, "lang", lang, "speech_lang", speechLang)
	return &models.Result{
		OriginalImage:    s.store.GetPublicURL(s.buckets.Uploads, name),
		ExtractedText:    text,
		BrailleText:      braille,
		AudioFile:        s.store.GetPublicURL(s.buckets.Audio, audioName),
		DetectedLanguage: lang,
		SpeechLanguage:   speechLang,
	}, nil
}

func fail(stage Stage, msg string, err error, attrs ...any) *StageError {
	args := append([]any{"stage", string(stage), "error", err}, attrs...)
	slog.Error("upload processing failed", args...)
	return &StageError{Stage: stage, Message: msg, Err: err}
}

func baseType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}

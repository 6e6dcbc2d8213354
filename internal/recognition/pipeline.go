package recognition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var ErrRecognition = errors.New("failed to process image text")

// Recognizer extracts text from a PNG-encoded image.
type Recognizer interface {
	Recognize(ctx context.Context, img []byte) (string, error)
}

// Pipeline turns a stored image into text plus its detected language.
type Pipeline struct {
	recognizer Recognizer
	detector   Detector
}

func NewPipeline(r Recognizer, d Detector) *Pipeline {
	return &Pipeline{recognizer: r, detector: d}
}

// Process reads the image at imagePath and returns the recognized text and
// the detected language code. An undecodable image yields ErrInvalidImage;
// an engine failure yields ErrRecognition. Empty text is not an error.
func (p *Pipeline) Process(ctx context.Context, imagePath string) (string, string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", "", fmt.Errorf("%w: open: %w", ErrInvalidImage, err)
	}
	defer f.Close()

	img, err := Normalize(f)
	if err != nil {
		return "", "", err
	}

	text, err := p.recognizer.Recognize(ctx, img)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrRecognition, err)
	}
	text = strings.TrimSpace(text)

	lang := p.detector.Detect(text)
	slog.Info("image recognized", "chars", len([]rune(text)), "lang", lang)
	return text, lang, nil
}

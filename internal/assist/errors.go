package assist

import (
	"errors"
	"fmt"
)

// Stage names a step of upload processing.
type Stage string

const (
	StageValidate   Stage = "validate"
	StageStore      Stage = "store"
	StageDecode     Stage = "decode"
	StageRecognize  Stage = "recognize"
	StageTranscribe Stage = "transcribe"
	StageSynthesize Stage = "synthesize"
)

// User-facing messages.
const (
	MsgNoImage           = "No image selected"
	MsgInvalidType       = "Invalid file type, use JPEG or PNG"
	MsgTooLarge          = "File too large, max 10MB"
	MsgSaveFailed        = "Failed to save image"
	MsgInvalidImage      = "Invalid image format"
	MsgRecognitionFailed = "Failed to process image text"
	MsgBrailleFailed     = "Failed to generate Braille"
	MsgAudioFailed       = "Failed to generate audio"
	MsgInternal          = "Internal server error, please try again"
)

var (
	ErrNoImage     = errors.New("no image in request")
	ErrInvalidType = errors.New("content type not allowed")
)

// StageError reports which stage failed and the message to show the user.
type StageError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// AsStageError extracts a StageError from err's chain.
func AsStageError(err error) (*StageError, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

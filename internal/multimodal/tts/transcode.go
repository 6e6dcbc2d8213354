package tts

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Transcoder converts WAV output of the offline engines to MP3 via ffmpeg.
type Transcoder struct {
	bin string
}

// NewTranscoder returns nil when the ffmpeg binary cannot be found.
func NewTranscoder(bin string) *Transcoder {
	if bin == "" {
		bin = "ffmpeg"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil
	}
	return &Transcoder{bin: path}
}

// ToMP3 pipes WAV bytes through ffmpeg and returns MP3 bytes.
func (t *Transcoder) ToMP3(ctx context.Context, wav []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, t.bin,
		"-hide_banner", "-loglevel", "error",
		"-f", "wav", "-i", "pipe:0",
		"-f", "mp3", "pipe:1",
	)
	cmd.Stdin = bytes.NewReader(wav)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w (stderr: %s)", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output")
	}
	return stdout.Bytes(), nil
}

// encodeWAV wraps engine output as the final result, transcoding to MP3 when
// a transcoder is configured.
func encodeWAV(ctx context.Context, t *Transcoder, wav []byte) (*SynthesisResult, error) {
	if t == nil {
		return &SynthesisResult{Audio: wav, ContentType: "audio/wav"}, nil
	}
	mp3, err := t.ToMP3(ctx, wav)
	if err != nil {
		return nil, err
	}
	return &SynthesisResult{Audio: mp3, ContentType: "audio/mpeg"}, nil
}

package recognition

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DefaultLanguage is reported when detection is empty or inconclusive.
const DefaultLanguage = "en"

// Language ties a detected ISO 639-1 code to its OCR model and speech voice.
type Language struct {
	Code   string
	OCR    string
	Speech string
}

var supported = []Language{
	{Code: "en", OCR: "eng", Speech: "en"},
	{Code: "hi", OCR: "hin", Speech: "hi"},
	{Code: "ta", OCR: "tam", Speech: "ta"},
	{Code: "es", OCR: "spa", Speech: "es"},
}

var detectable = map[whatlanggo.Lang]string{
	whatlanggo.Eng: "en",
	whatlanggo.Hin: "hi",
	whatlanggo.Tam: "ta",
	whatlanggo.Spa: "es",
}

// Supported returns the languages the service can read and speak.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Lookup finds a supported language by code.
func Lookup(code string) (Language, bool) {
	for _, l := range supported {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// SpeechLanguage maps a detected code to the voice language. Unknown codes
// fall back to English.
func SpeechLanguage(code string) string {
	if l, ok := Lookup(code); ok {
		return l.Speech
	}
	return DefaultLanguage
}

// Detector guesses the language of recognized text.
type Detector interface {
	Detect(text string) string
}

// WhatlangDetector detects languages with whatlanggo, restricted to the
// supported set.
type WhatlangDetector struct {
	opts whatlanggo.Options
}

func NewWhatlangDetector() *WhatlangDetector {
	whitelist := make(map[whatlanggo.Lang]bool, len(detectable))
	for l := range detectable {
		whitelist[l] = true
	}
	return &WhatlangDetector{opts: whatlanggo.Options{Whitelist: whitelist}}
}

func (d *WhatlangDetector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return DefaultLanguage
	}
	info := whatlanggo.DetectWithOptions(text, d.opts)
	if info.Script == nil {
		return DefaultLanguage
	}
	if code, ok := detectable[info.Lang]; ok {
		return code
	}
	return DefaultLanguage
}

package braille

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	PrefixHindi   = "⠰⠓ "
	PrefixDefault = "⠰⠑ "

	DefaultMemoSize = 128
)

var ErrInvalidText = errors.New("text is not valid UTF-8")

// Transcriber maps text to Braille cells. Bodies are memoized by exact input
// text in a fixed-capacity LRU, so it is safe for concurrent use.
type Transcriber struct {
	memo *lru.Cache[string, string]
}

func NewTranscriber(memoSize int) (*Transcriber, error) {
	if memoSize <= 0 {
		memoSize = DefaultMemoSize
	}
	memo, err := lru.New[string, string](memoSize)
	if err != nil {
		return nil, fmt.Errorf("create memo cache: %w", err)
	}
	return &Transcriber{memo: memo}, nil
}

// Prefix returns the language indicator placed in front of every transcription.
func Prefix(lang string) string {
	if lang == "hi" {
		return PrefixHindi
	}
	return PrefixDefault
}

// Transcribe returns the language prefix followed by the Braille body of text.
func (t *Transcriber) Transcribe(text, lang string) (string, error) {
	if !utf8.ValidString(text) {
		return "", ErrInvalidText
	}
	return Prefix(lang) + t.Body(text), nil
}

// Body transcribes text without a prefix.
func (t *Transcriber) Body(text string) string {
	if cached, ok := t.memo.Get(text); ok {
		return cached
	}
	out := transcribe(text)
	t.memo.Add(text, out)
	return out
}

// Len reports how many bodies are currently memoized.
func (t *Transcriber) Len() int {
	return t.memo.Len()
}

func transcribe(text string) string {
	folded := cases.Fold().String(norm.NFC.String(text))
	runes := []rune(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for i := 0; i < len(runes); {
		n := min(MaxUnitLen, len(runes)-i)
		matched := false
		// longest grouped unit wins
		for ; n > 0; n-- {
			if sym, ok := symbols[string(runes[i:i+n])]; ok {
				b.WriteString(sym)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			b.WriteString(Blank)
			i++
		}
	}
	return b.String()
}

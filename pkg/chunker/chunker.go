// Package chunker splits text into pieces no longer than a rune limit,
// preferring sentence boundaries, then clause and word boundaries.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// separators are tried in order; each stays attached to the text before it.
var separators = []string{"। ", ". ", "? ", "! ", "; ", ", ", " "}

// Split collapses whitespace in text and returns chunks of at most limit
// runes. Words longer than limit are cut. A non-positive limit returns the
// whole text as one chunk.
func Split(text string, limit int) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	if limit <= 0 {
		return []string{text}
	}

	var chunks []string
	for _, part := range splitRecursive(text, separators, limit) {
		if part = strings.TrimSpace(part); part != "" {
			chunks = append(chunks, part)
		}
	}
	return chunks
}

func fits(s string, limit int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) <= limit
}

func splitRecursive(text string, seps []string, limit int) []string {
	if fits(text, limit) {
		return []string{text}
	}

	if len(seps) == 0 {
		// Fall back to fixed splitting
		var result []string
		runes := []rune(text)
		for i := 0; i < len(runes); i += limit {
			end := i + limit
			if end > len(runes) {
				end = len(runes)
			}
			result = append(result, string(runes[i:end]))
		}
		return result
	}

	var result []string
	var current strings.Builder

	for _, part := range strings.SplitAfter(text, seps[0]) {
		if current.Len() > 0 && !fits(current.String()+part, limit) {
			result = append(result, splitRecursive(current.String(), seps[1:], limit)...)
			current.Reset()
		}
		current.WriteString(part)
	}

	if current.Len() > 0 {
		result = append(result, splitRecursive(current.String(), seps[1:], limit)...)
	}

	return result
}

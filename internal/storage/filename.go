package storage

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces a client supplied filename to ASCII letters, digits,
// '_', '-' and '.', with no directory components. The result may be empty.
func SecureFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range decomposed {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	ascii := strings.NewReplacer("/", " ", "\\", " ").Replace(b.String())
	joined := strings.Join(strings.Fields(ascii), "_")
	return strings.Trim(unsafeFilenameChars.ReplaceAllString(joined, ""), "._")
}

// UploadName sanitizes the stem and extension of a client filename. A stem
// with nothing usable left is replaced by a random UUID.
func UploadName(name string) string {
	rawExt := filepath.Ext(name)
	stem := SecureFilename(strings.TrimSuffix(name, rawExt))
	if stem == "" {
		stem = uuid.NewString()
	}
	if ext := SecureFilename(rawExt); ext != "" {
		return stem + "." + ext
	}
	return stem
}

// SiblingName swaps the extension of name, e.g. photo.png -> photo.mp3.
func SiblingName(name, ext string) string {
	stem := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		stem = name[:i]
	}
	return stem + ext
}

package speech

import (
	"strings"
	"unicode"
)

const (
	filenameTextLimit = 30
	previewLimit      = 100
	previewEllipsis   = "..."
)

// OutputFilename derives the file name for persisted audio: the first 30
// characters of text reduced to letters, digits, spaces and underscores, with
// spaces turned into underscores, then the voice with '+' replaced by '_', then
// the format extension. Same inputs always give the same name.
func OutputFilename(text, voice, format string) string {
	var b strings.Builder
	for _, r := range truncateRunes(text, filenameTextLimit) {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return b.String() + "_" + strings.ReplaceAll(voice, "+", "_") + "." + format
}

// TextPreview returns the first 100 characters of text, with "..." appended
// only when something was cut off.
func TextPreview(text string) string {
	preview := truncateRunes(text, previewLimit)
	if len(preview) < len(text) {
		return preview + previewEllipsis
	}
	return preview
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

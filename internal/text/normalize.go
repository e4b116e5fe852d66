package text

import (
	"strings"
	"unicode"
)

// Clean normalizes free text for storage: internal whitespace runs collapse to
// single spaces, leading/trailing whitespace is trimmed, the first rune is
// capitalized, and a period is appended unless the text already ends in
// terminal punctuation. Empty input yields empty output. Idempotent.
func Clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	s = string(runes)

	switch runes[len(runes)-1] {
	case '.', '!', '?':
	default:
		s += "."
	}
	return s
}

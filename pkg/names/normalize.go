package names

import (
	"strings"
	"unicode"
)

// Normalize turns an API slug into a display name: hyphens become spaces and
// every word starts upper case ("mr-mime" -> "Mr Mime").
func Normalize(slug string) string {
	var b strings.Builder
	b.Grow(len(slug))
	prevWord := false
	for _, r := range strings.ReplaceAll(slug, "-", " ") {
		isWord := r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
		if isWord && !prevWord {
			r = unicode.ToUpper(r)
		}
		prevWord = isWord
		b.WriteRune(r)
	}
	return b.String()
}

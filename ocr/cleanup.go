package ocr

import (
	"strings"
	"unicode"
)

// substitutions is the fixed table of common misrecognitions, applied in
// order. Order matters: earlier rewrites can feed later ones.
var substitutions = []struct {
	from, to string
}{
	{"|", "I"},
	{"rn", "m"},
	{"vv", "w"},
	{"1l", "ll"},
	{"1i", "li"},
	{"cl", "d"},
}

// Cleanup normalizes recognized text: whitespace runs collapse to single
// spaces, the substitution table is applied, and leftover one-character
// tokens that are not alphanumeric are dropped as artifacts.
func Cleanup(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	for _, s := range substitutions {
		text = strings.ReplaceAll(text, s.from, s.to)
	}
	words := strings.Fields(text)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) > 1 || isAlphanumeric(w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

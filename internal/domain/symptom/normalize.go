package symptom

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeToken maps user-typed text to token form:
// NFKC, trimmed, lower-cased, inner whitespace runs replaced by "_".
func NormalizeToken(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.ToLower(strings.Join(strings.Fields(s), "_"))
}

// SplitText splits comma-separated free text into normalized tokens, dropping empties.
func SplitText(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := NormalizeToken(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// NormalizeAll normalizes every token, dropping those that end up empty.
func NormalizeAll(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if n := NormalizeToken(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

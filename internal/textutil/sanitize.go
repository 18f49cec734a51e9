package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const fallbackToken = "unknown"

// SanitizeToken turns a language or concept label into a lowercase ASCII
// token for generated identifiers. Diacritics are folded onto their base
// letter, runs of other characters collapse to one underscore, and an empty
// result becomes "unknown".
func SanitizeToken(value string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range norm.NFD.String(strings.TrimSpace(value)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingSep = true
		}
	}
	if out := strings.Trim(b.String(), "-"); out != "" {
		return out
	}
	return fallbackToken
}

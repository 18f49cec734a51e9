package lexicon

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize trims surrounding whitespace and converts text to NFC.
func Normalize(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// NormalizeAll returns a normalized copy of tokens.
func NormalizeAll(tokens []string) []string {
	if tokens == nil {
		return nil
	}
	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[i] = Normalize(token)
	}
	return out
}

// IsNormalized reports whether text is already in NFC.
func IsNormalized(text string) bool {
	return norm.NFC.IsNormalString(text)
}

// EqualTokens compares two token sequences after normalization.
func EqualTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if Normalize(a[i]) != Normalize(b[i]) {
			return false
		}
	}
	return true
}

// Placeholders is the set of form values that stand for a missing or
// not-applicable form. The empty value is always a placeholder.
type Placeholders map[string]struct{}

// DefaultPlaceholders lists the values treated as missing forms when the
// configuration does not say otherwise.
var DefaultPlaceholders = []string{"-", "NA"}

// NewPlaceholders builds a placeholder set from values.
func NewPlaceholders(values ...string) Placeholders {
	p := make(Placeholders, len(values))
	for _, value := range values {
		value = Normalize(value)
		if value == "" {
			continue
		}
		p[value] = struct{}{}
	}
	return p
}

// Match reports whether value denotes a missing form.
func (p Placeholders) Match(value string) bool {
	value = Normalize(value)
	if value == "" {
		return true
	}
	_, ok := p[value]
	return ok
}

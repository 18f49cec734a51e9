package segment

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"lexcurate/internal/lexicon"
)

const (
	WordBoundary     = "_"
	MorphemeBoundary = "+"
)

// Segmenter splits a transcription into segments.
type Segmenter interface {
	Segment(ctx context.Context, text, languageHint string) ([]string, []lexicon.UnrecognizedSymbol, error)
}

// Replacement rewrites a lookalike or nonstandard symbol before
// segmentation.
type Replacement struct {
	From string
	To   string
}

// DefaultReplacements fixes common transcription noise.
var DefaultReplacements = []Replacement{
	{From: "l\u0334", To: "ɬ"},
	{From: "˺", To: "\u031a"},
	{From: "ˑ", To: "."},
	{From: "\u2184", To: "ɔ"},
	{From: "Ɂ", To: "ʔ"},
	{From: "\u0361ts", To: "t\u0361s"},
	{From: "ts\u0361", To: "t\u0361s"},
	{From: "ts\u035c", To: "t\u0361s"},
	{From: "\u035cts", To: "t\u0361s"},
	{From: "tʃ\u0361", To: "t\u0361ʃ"},
	{From: "\u0361tʃ", To: "t\u0361ʃ"},
}

const vowels = "aeiouyæøœɑɐɒɔəɘɛɜɞɤɨɪʉʊʌɯɵɶʏ"

// Tokenizer is the default Segmenter.
type Tokenizer struct {
	replacements []Replacement
}

// NewTokenizer returns a tokenizer applying DefaultReplacements and extra.
// Extra replacements override defaults with the same source; longer sources
// are applied first.
func NewTokenizer(extra map[string]string) *Tokenizer {
	merged := make(map[string]string, len(DefaultReplacements)+len(extra))
	for _, r := range DefaultReplacements {
		merged[norm.NFC.String(r.From)] = norm.NFC.String(r.To)
	}
	for from, to := range extra {
		if from == "" {
			continue
		}
		merged[norm.NFC.String(from)] = norm.NFC.String(to)
	}
	t := &Tokenizer{replacements: make([]Replacement, 0, len(merged))}
	for from, to := range merged {
		t.replacements = append(t.replacements, Replacement{From: from, To: to})
	}
	sort.Slice(t.replacements, func(i, j int) bool {
		a, b := t.replacements[i].From, t.replacements[j].From
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return t
}

// Replacements returns the replacements in application order.
func (t *Tokenizer) Replacements() []Replacement {
	return append([]Replacement(nil), t.replacements...)
}

// Cleanup keeps the first of several alternative transcriptions and drops
// parentheses.
func Cleanup(text string) string {
	text, _, _ = strings.Cut(text, ";")
	text, _, _ = strings.Cut(text, ",")
	text = strings.NewReplacer("(", "", ")", "").Replace(text)
	return strings.TrimSpace(text)
}

// Replace applies the tokenizer's replacements to text and reports each one.
func (t *Tokenizer) Replace(text string) (string, []lexicon.UnrecognizedSymbol) {
	text = norm.NFC.String(text)
	var warnings []lexicon.UnrecognizedSymbol
	for _, r := range t.replacements {
		n := strings.Count(text, r.From)
		if n == 0 {
			continue
		}
		text = strings.ReplaceAll(text, r.From, r.To)
		for range n {
			warnings = append(warnings, lexicon.UnrecognizedSymbol{
				Symbol:  r.From,
				Comment: "'" + r.From + "' replaced by '" + r.To + "' in segments",
			})
		}
	}
	return text, warnings
}

// Segment implements Segmenter. languageHint is copied into the warnings.
func (t *Tokenizer) Segment(ctx context.Context, text, languageHint string) ([]string, []lexicon.UnrecognizedSymbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	cleaned, warnings := t.Replace(Cleanup(text))
	s := &scanner{runes: []rune(norm.NFD.String(cleaned))}
	s.run()
	warnings = append(warnings, s.warnings...)
	for i := range warnings {
		warnings[i].LanguageID = languageHint
	}
	segments := make([]string, 0, len(s.tokens))
	for _, token := range s.tokens {
		segments = append(segments, lexicon.Normalize(token))
	}
	return segments, warnings, nil
}

type scanner struct {
	runes    []rune
	tokens   []string
	pending  string
	joinNext bool
	warnings []lexicon.UnrecognizedSymbol
}

func (s *scanner) run() {
	for i, r := range s.runes {
		switch {
		case unicode.IsSpace(r):
			s.boundary(WordBoundary)
		case r == '-' || r == '+':
			s.boundary(MorphemeBoundary)
		case r == '.':
			s.joinNext = false
		case r == '\u0361' || r == '\u035c':
			if !s.hasBase() {
				s.warn(string(r), "tie bar without a preceding segment", true)
				continue
			}
			s.appendLast(r)
			s.joinNext = true
		case unicode.In(r, unicode.Mn, unicode.Me):
			if !s.hasBase() {
				s.warn(string(r), "combining mark without a preceding segment", true)
				continue
			}
			s.appendLast(r)
		case r == 'ˈ' || r == 'ˌ':
			s.pending += string(r)
		case unicode.Is(unicode.Lm, r):
			if isPreModifier(r) && s.attachesForward(i) {
				s.pending += string(r)
				continue
			}
			if !s.hasBase() {
				s.warn(string(r), "modifier without a preceding segment", false)
				s.push(r)
				continue
			}
			s.appendLast(r)
		case unicode.IsLetter(r):
			if s.joinNext && s.hasBase() {
				s.appendLast(r)
				s.joinNext = false
			} else {
				s.push(r)
			}
			if !unicode.In(r, unicode.Latin, unicode.Greek) {
				s.warn(string(r), "unknown sound", false)
			}
		case r == '/':
			s.warn("/", "illegal symbol", true)
		default:
			s.warn(string(r), "unknown sound", false)
			s.push(r)
		}
	}
	if s.pending != "" {
		if s.hasBase() {
			s.tokens[len(s.tokens)-1] += s.pending
		} else {
			s.warn(s.pending, "modifier without a segment", true)
		}
		s.pending = ""
	}
	for len(s.tokens) > 0 && isBoundary(s.tokens[len(s.tokens)-1]) {
		s.tokens = s.tokens[:len(s.tokens)-1]
	}
}

func (s *scanner) push(r rune) {
	s.tokens = append(s.tokens, s.pending+string(r))
	s.pending = ""
	s.joinNext = false
}

func (s *scanner) appendLast(r rune) {
	s.tokens[len(s.tokens)-1] += string(r)
}

func (s *scanner) hasBase() bool {
	return len(s.tokens) > 0 && !isBoundary(s.tokens[len(s.tokens)-1])
}

func (s *scanner) boundary(token string) {
	s.joinNext = false
	s.pending = ""
	if len(s.tokens) == 0 {
		return
	}
	last := s.tokens[len(s.tokens)-1]
	if isBoundary(last) {
		if last == WordBoundary && token == MorphemeBoundary {
			s.tokens[len(s.tokens)-1] = token
		}
		return
	}
	s.tokens = append(s.tokens, token)
}

// attachesForward reports whether the pre-modifier at position i belongs to
// the consonant after it: it must be followed by a consonant and not follow
// one.
func (s *scanner) attachesForward(i int) bool {
	if i+1 >= len(s.runes) {
		return false
	}
	next := s.runes[i+1]
	if !isBaseLetter(next) || isVowel(next) {
		return false
	}
	if !s.hasBase() {
		return true
	}
	for _, r := range s.tokens[len(s.tokens)-1] {
		if isBaseLetter(r) {
			return isVowel(r)
		}
	}
	return false
}

func (s *scanner) warn(symbol, comment string, dropped bool) {
	s.warnings = append(s.warnings, lexicon.UnrecognizedSymbol{
		Symbol:  norm.NFC.String(symbol),
		Comment: comment,
		Dropped: dropped,
	})
}

func isBoundary(token string) bool {
	return token == WordBoundary || token == MorphemeBoundary
}

func isPreModifier(r rune) bool {
	switch r {
	case 'ⁿ', 'ᵐ', 'ᵑ', 'ʰ':
		return true
	}
	return false
}

func isBaseLetter(r rune) bool {
	return unicode.IsLetter(r) && !unicode.Is(unicode.Lm, r)
}

func isVowel(r rune) bool {
	return strings.ContainsRune(vowels, unicode.ToLower(r))
}

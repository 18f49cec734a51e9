package lexicon

import "strings"

// GapToken marks an alignment column in which a form contributes no segment.
// Segments must never equal it.
const GapToken = "-"

// Alignment is one row of a cognate set's multiple alignment.
type Alignment []string

// ParseAlignment splits a space-joined alignment cell.
func ParseAlignment(text string) Alignment {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return Alignment(NormalizeAll(fields))
}

// Width returns the number of columns including gaps.
func (a Alignment) Width() int {
	return len(a)
}

// Ungapped returns the non-gap tokens in order.
func (a Alignment) Ungapped() []string {
	out := make([]string, 0, len(a))
	for _, token := range a {
		if token == GapToken {
			continue
		}
		out = append(out, token)
	}
	return out
}

// Padded returns a copy extended with gap tokens up to width.
func (a Alignment) Padded(width int) Alignment {
	out := make(Alignment, 0, max(width, len(a)))
	out = append(out, a...)
	for len(out) < width {
		out = append(out, GapToken)
	}
	return out
}

func (a Alignment) String() string {
	return strings.Join(a, " ")
}

// Clone returns an independent copy.
func (a Alignment) Clone() Alignment {
	if a == nil {
		return nil
	}
	out := make(Alignment, len(a))
	copy(out, a)
	return out
}

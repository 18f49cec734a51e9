package lexicon

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorClassifier lets errors declare a classification for reporting.
type ErrorClassifier interface {
	ErrorKind() string
}

// Kind returns the classification of err, or "internal" for unclassified
// errors.
func Kind(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return "internal"
}

// Invariant names a rule a cognate judgement must satisfy.
type Invariant int

const (
	// InvariantSliceRange: every range lies inside the form and ranges do not
	// overlap each other.
	InvariantSliceRange Invariant = iota
	// InvariantSegmentCount: the slice addresses as many segments as the
	// alignment has non-gap tokens.
	InvariantSegmentCount
	// InvariantContent: the non-gap alignment tokens equal the addressed
	// segments.
	InvariantContent
	// InvariantWidth: all alignments of a cognate set have the same width.
	InvariantWidth
	// InvariantPlaceholder: missing or NA forms carry no judgements.
	InvariantPlaceholder
)

func (i Invariant) String() string {
	switch i {
	case InvariantSliceRange:
		return "slice range"
	case InvariantSegmentCount:
		return "segment count"
	case InvariantContent:
		return "alignment content"
	case InvariantWidth:
		return "alignment width"
	case InvariantPlaceholder:
		return "placeholder form"
	default:
		return fmt.Sprintf("invariant(%d)", int(i))
	}
}

// ConsistencyError reports a judgement that violates an invariant.
type ConsistencyError struct {
	Invariant    Invariant
	JudgementID  string
	FormID       string
	CognateSetID string
	Line         int
	Detail       string
}

func (e *ConsistencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s violated by judgement %q", e.Invariant, e.JudgementID)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	fmt.Fprintf(&b, " of form %q in cognate set %q", e.FormID, e.CognateSetID)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// ErrorKind implements ErrorClassifier.
func (e *ConsistencyError) ErrorKind() string { return "consistency" }

// UnknownCognateSetError reports references to cognate sets missing from the
// registry.
type UnknownCognateSetError struct {
	IDs []string
}

func (e *UnknownCognateSetError) Error() string {
	return "unknown cognate set(s): " + quoteAll(e.IDs)
}

// ErrorKind implements ErrorClassifier.
func (e *UnknownCognateSetError) ErrorKind() string { return "not_found" }

// UnknownFormError reports references to forms missing from the form table.
type UnknownFormError struct {
	IDs []string
}

func (e *UnknownFormError) Error() string {
	return "unknown form(s): " + quoteAll(e.IDs)
}

// ErrorKind implements ErrorClassifier.
func (e *UnknownFormError) ErrorKind() string { return "not_found" }

// AlignmentWidthMismatch reports a cognate set whose alignments differ in
// width. It is only returned as an error in strict mode; otherwise it is a
// Violation.
type AlignmentWidthMismatch struct {
	CognateSetID string
	Widths       map[string]int
}

func (e *AlignmentWidthMismatch) Error() string {
	ids := make([]string, 0, len(e.Widths))
	for id := range e.Widths {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s=%d", id, e.Widths[id])
	}
	return fmt.Sprintf("alignments of cognate set %q differ in width: %s", e.CognateSetID, strings.Join(parts, ", "))
}

// ErrorKind implements ErrorClassifier.
func (e *AlignmentWidthMismatch) ErrorKind() string { return "consistency" }

func quoteAll(ids []string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%q", id)
	}
	return strings.Join(parts, ", ")
}

// UnrecognizedSymbol is a segmenter warning about a symbol it does not know
// how to treat. The symbol is still reported in the segments unless Dropped
// is set.
type UnrecognizedSymbol struct {
	Symbol     string
	FormID     string
	LanguageID string
	Comment    string
	Dropped    bool
}

func (e *UnrecognizedSymbol) Error() string {
	msg := fmt.Sprintf("unrecognized symbol %q", e.Symbol)
	if e.FormID != "" {
		msg += fmt.Sprintf(" in form %q", e.FormID)
	}
	if e.Comment != "" {
		msg += ": " + e.Comment
	}
	return msg
}

// ErrorKind implements ErrorClassifier.
func (e *UnrecognizedSymbol) ErrorKind() string { return "segments" }

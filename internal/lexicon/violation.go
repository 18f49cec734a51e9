package lexicon

import (
	"fmt"
	"strings"
)

// Severity ranks a violation in an integrity report.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// ViolationKind classifies entries of an integrity report.
type ViolationKind string

const (
	KindSliceRange        ViolationKind = "slice_range"
	KindContentMismatch   ViolationKind = "content_mismatch"
	KindWidthMismatch     ViolationKind = "alignment_width_mismatch"
	KindPlaceholderForm   ViolationKind = "placeholder_form"
	KindUnknownForm       ViolationKind = "unknown_form"
	KindUnknownCognateSet ViolationKind = "unknown_cognateset"
	KindNonContiguous     ViolationKind = "non_contiguous"
	KindScope             ViolationKind = "scope"
	KindNotNormalized     ViolationKind = "not_normalized"
	KindDuplicate         ViolationKind = "duplicate_judgement"
	KindUnrecognized      ViolationKind = "unrecognized_symbol"
)

// Violation is one non-fatal finding, identified by table and line.
type Violation struct {
	Kind         ViolationKind
	Severity     Severity
	Table        string
	Line         int
	RowID        string
	FormID       string
	CognateSetID string
	Message      string
}

func (v Violation) String() string {
	var b strings.Builder
	if v.Table != "" {
		b.WriteString(v.Table)
		if v.Line > 0 {
			fmt.Fprintf(&b, ":%d", v.Line)
		}
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "[%s] ", v.Kind)
	b.WriteString(v.Message)
	return b.String()
}

// FromConsistencyError converts an eagerly raised error into a report entry.
func FromConsistencyError(table string, err *ConsistencyError) Violation {
	kind := KindContentMismatch
	switch err.Invariant {
	case InvariantSliceRange:
		kind = KindSliceRange
	case InvariantWidth:
		kind = KindWidthMismatch
	case InvariantPlaceholder:
		kind = KindPlaceholderForm
	}
	return Violation{
		Kind:         kind,
		Severity:     SeverityError,
		Table:        table,
		Line:         err.Line,
		RowID:        err.JudgementID,
		FormID:       err.FormID,
		CognateSetID: err.CognateSetID,
		Message:      err.Error(),
	}
}

// CountErrors returns the number of error-severity violations.
func CountErrors(violations []Violation) int {
	n := 0
	for _, v := range violations {
		if v.Severity >= SeverityError {
			n++
		}
	}
	return n
}

package lexicon

import (
	"fmt"
	"strings"
)

// CheckJudgement validates the invariants a judgement can violate on its own:
// slice range, segment count, alignment content and placeholder forms. A
// judgement without an alignment is unaligned and only its slice is checked.
// Width consistency needs the other judgements of the set and is checked by
// the callers that have them.
func CheckJudgement(j *Judgement, form *Form, placeholders Placeholders) *ConsistencyError {
	fail := func(inv Invariant, format string, args ...any) *ConsistencyError {
		return &ConsistencyError{
			Invariant:    inv,
			JudgementID:  j.ID,
			FormID:       j.FormID,
			CognateSetID: j.CognateSetID,
			Line:         j.Line,
			Detail:       fmt.Sprintf(format, args...),
		}
	}
	if placeholders.Match(form.Value) {
		return fail(InvariantPlaceholder, "form value %q marks a missing form", form.Value)
	}
	if j.SliceUnparsed() {
		return fail(InvariantSliceRange, "segment slice %q cannot be parsed", j.RawSlice)
	}
	slice := j.Slice.Effective(len(form.Segments))
	if err := slice.Validate(len(form.Segments)); err != nil {
		return fail(InvariantSliceRange, "%v", err)
	}
	if len(j.Alignment) == 0 {
		return nil
	}
	segments, _ := slice.Resolve(form.Segments)
	aligned := j.Alignment.Ungapped()
	if len(aligned) != len(segments) {
		return fail(InvariantSegmentCount,
			"alignment %q has %d non-gap tokens but slice %s addresses %d segments",
			j.Alignment.String(), len(aligned), slice.String(), len(segments))
	}
	if !EqualTokens(aligned, segments) {
		return fail(InvariantContent,
			"referenced segments resolve to %q while the alignment contains %q",
			strings.Join(segments, " "), strings.Join(aligned, " "))
	}
	return nil
}

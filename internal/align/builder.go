package align

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"lexcurate/internal/cognates"
	"lexcurate/internal/lexicon"
	"lexcurate/internal/logging"
)

// Method selects how Align builds alignments.
type Method string

const (
	MethodProgressive Method = "progressive"
	MethodPad         Method = "pad"
)

// DefaultTag marks rebuilt alignments.
const DefaultTag = "automatically aligned"

// ParseMethod validates a configured method name.
func ParseMethod(value string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(value))) {
	case "", MethodProgressive:
		return MethodProgressive, nil
	case MethodPad:
		return MethodPad, nil
	}
	return "", fmt.Errorf("unknown alignment method %q (want progressive or pad)", value)
}

// Builder validates and rebuilds alignments through a judgement index.
type Builder struct {
	index  *cognates.Index
	forms  cognates.FormSource
	method Method
	logger *slog.Logger
}

// NewBuilder creates a builder. An empty method selects progressive.
func NewBuilder(index *cognates.Index, forms cognates.FormSource, method Method, logger *slog.Logger) *Builder {
	if method == "" {
		method = MethodProgressive
	}
	return &Builder{
		index:  index,
		forms:  forms,
		method: method,
		logger: logging.NewComponentLogger(logger, "align"),
	}
}

// Validate reports content and width problems of one cognate set.
func (b *Builder) Validate(setID string) []lexicon.Violation {
	judgements := b.index.ForSet(setID)
	placeholders := b.index.Placeholders()
	var violations []lexicon.Violation
	for _, j := range judgements {
		form, ok := b.forms.Form(j.FormID)
		if !ok {
			violations = append(violations, lexicon.Violation{
				Kind:         lexicon.KindUnknownForm,
				Severity:     lexicon.SeverityError,
				Table:        "CognateTable",
				Line:         j.Line,
				RowID:        j.ID,
				FormID:       j.FormID,
				CognateSetID: j.CognateSetID,
				Message:      fmt.Sprintf("judgement %q references unknown form %q", j.ID, j.FormID),
			})
			continue
		}
		// Unparsable slices are already reported by the loader.
		if j.SliceUnparsed() {
			continue
		}
		if err := lexicon.CheckJudgement(j, form, placeholders); err != nil {
			violations = append(violations, lexicon.FromConsistencyError("CognateTable", err))
		}
	}
	return append(violations, widthViolations(setID, judgements)...)
}

// widthViolations flags every aligned judgement whose width differs from
// the most common width of the set, ties going to the first width seen.
func widthViolations(setID string, judgements []*lexicon.Judgement) []lexicon.Violation {
	counts := make(map[int]int)
	var order []int
	for _, j := range judgements {
		w := j.Alignment.Width()
		if w == 0 {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	if len(order) < 2 {
		return nil
	}
	expected := order[0]
	for _, w := range order[1:] {
		if counts[w] > counts[expected] {
			expected = w
		}
	}
	var violations []lexicon.Violation
	for _, j := range judgements {
		w := j.Alignment.Width()
		if w == 0 || w == expected {
			continue
		}
		violations = append(violations, lexicon.Violation{
			Kind:         lexicon.KindWidthMismatch,
			Severity:     lexicon.SeverityError,
			Table:        "CognateTable",
			Line:         j.Line,
			RowID:        j.ID,
			FormID:       j.FormID,
			CognateSetID: setID,
			Message:      fmt.Sprintf("alignment of judgement %q has width %d, most alignments of cognate set %q have width %d", j.ID, w, setID, expected),
		})
	}
	return violations
}

// ValidateAll validates every cognate set referenced by a judgement.
func (b *Builder) ValidateAll() []lexicon.Violation {
	var out []lexicon.Violation
	for _, setID := range b.index.SetIDs() {
		out = append(out, b.Validate(setID)...)
	}
	return out
}

// Align rebuilds the alignments of one cognate set and writes them back with
// tag as status. It returns the new alignments by judgement ID.
func (b *Builder) Align(setID, tag string) (map[string]lexicon.Alignment, error) {
	judgements := b.index.ForSet(setID)
	if len(judgements) == 0 {
		return nil, nil
	}
	seqs := make([][]string, len(judgements))
	for i, j := range judgements {
		form, ok := b.forms.Form(j.FormID)
		if !ok {
			return nil, &lexicon.UnknownFormError{IDs: []string{j.FormID}}
		}
		if j.SliceUnparsed() {
			return nil, &lexicon.ConsistencyError{
				Invariant:    lexicon.InvariantSliceRange,
				JudgementID:  j.ID,
				FormID:       j.FormID,
				CognateSetID: setID,
				Line:         j.Line,
				Detail:       fmt.Sprintf("segment slice %q cannot be parsed", j.RawSlice),
			}
		}
		segments, err := j.Slice.Resolve(form.Segments)
		if err != nil {
			return nil, &lexicon.ConsistencyError{
				Invariant:    lexicon.InvariantSliceRange,
				JudgementID:  j.ID,
				FormID:       j.FormID,
				CognateSetID: setID,
				Line:         j.Line,
				Detail:       err.Error(),
			}
		}
		seqs[i] = segments
	}

	var rows [][]string
	if b.method == MethodPad {
		rows = pad(seqs)
	} else {
		rows = progressive(seqs)
	}
	alignments := make(map[string]lexicon.Alignment, len(judgements))
	for i, j := range judgements {
		alignments[j.ID] = lexicon.Alignment(rows[i])
	}
	if err := b.index.ReplaceAlignments(setID, alignments, tag); err != nil {
		return nil, err
	}
	b.logger.Debug("cognate set aligned",
		logging.CognateSet(setID),
		logging.Int("judgements", len(judgements)),
		logging.Int("width", len(rows[0])),
	)
	return alignments, nil
}

// AlignAll realigns every registered cognate set, or with onlyInvalid only
// the sets Validate complains about. It stops at the first error and
// returns the IDs aligned so far.
func (b *Builder) AlignAll(tag string, onlyInvalid bool) ([]string, error) {
	ids := b.index.Registry().IDs()
	sort.Strings(ids)
	var aligned []string
	for _, id := range ids {
		if b.index.CountForSet(id) == 0 {
			continue
		}
		if onlyInvalid && len(b.Validate(id)) == 0 {
			continue
		}
		if _, err := b.Align(id, tag); err != nil {
			return aligned, fmt.Errorf("align cognate set %q: %w", id, err)
		}
		aligned = append(aligned, id)
	}
	return aligned, nil
}

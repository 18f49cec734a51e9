// Package integrity checks a whole dataset and collects every problem found
// into one report. Checks never stop at the first problem and never change
// the dataset.
package integrity

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"lexcurate/internal/align"
	"lexcurate/internal/cognates"
	"lexcurate/internal/dataset"
	"lexcurate/internal/lexicon"
	"lexcurate/internal/tablestore"
)

// Report is the outcome of Check.
type Report struct {
	Violations []lexicon.Violation
}

// Errors counts error-severity violations.
func (r Report) Errors() int {
	return lexicon.CountErrors(r.Violations)
}

// Count returns the number of violations of a severity.
func (r Report) Count(severity lexicon.Severity) int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity == severity {
			n++
		}
	}
	return n
}

// ByKind counts violations per kind.
func (r Report) ByKind() map[lexicon.ViolationKind]int {
	out := make(map[lexicon.ViolationKind]int)
	for _, v := range r.Violations {
		out[v.Kind]++
	}
	return out
}

// Filter returns the violations at or above severity.
func (r Report) Filter(min lexicon.Severity) []lexicon.Violation {
	var out []lexicon.Violation
	for _, v := range r.Violations {
		if v.Severity >= min {
			out = append(out, v)
		}
	}
	return out
}

// Check validates ds: cells that failed to load, judgement invariants,
// alignment widths, dangling references, duplicate judgements, cognate set
// scope and discontinuous morphemes.
func Check(ds *dataset.Dataset) Report {
	var violations []lexicon.Violation
	violations = append(violations, ds.Issues...)

	builder := align.NewBuilder(ds.Judgements, ds.Forms, "", nil)
	violations = append(violations, builder.ValidateAll()...)
	violations = append(violations, unknownSets(ds)...)
	violations = append(violations, duplicates(ds)...)
	violations = append(violations, scope(ds)...)
	violations = append(violations, nonContiguous(ds)...)

	sortViolations(violations)
	return Report{Violations: violations}
}

// Strict returns the first width mismatch of the report as an error.
func (r Report) Strict(ds *dataset.Dataset) error {
	for _, v := range r.Violations {
		if v.Kind == lexicon.KindWidthMismatch {
			return &lexicon.AlignmentWidthMismatch{
				CognateSetID: v.CognateSetID,
				Widths:       ds.Judgements.Widths(v.CognateSetID),
			}
		}
	}
	return nil
}

func unknownSets(ds *dataset.Dataset) []lexicon.Violation {
	var out []lexicon.Violation
	for _, setID := range ds.CognateSets.Missing(ds.Judgements.SetIDs()...) {
		for _, j := range ds.Judgements.ForSet(setID) {
			out = append(out, lexicon.Violation{
				Kind:         lexicon.KindUnknownCognateSet,
				Severity:     lexicon.SeverityError,
				Table:        tablestore.CognateTable,
				Line:         j.Line,
				RowID:        j.ID,
				FormID:       j.FormID,
				CognateSetID: setID,
				Message:      fmt.Sprintf("judgement %q references unknown cognate set %q", j.ID, setID),
			})
		}
	}
	return out
}

func duplicates(ds *dataset.Dataset) []lexicon.Violation {
	var out []lexicon.Violation
	for _, setID := range ds.Judgements.SetIDs() {
		dups := ds.Judgements.Duplicates(setID)
		forms := make([]string, 0, len(dups))
		for formID := range dups {
			forms = append(forms, formID)
		}
		sort.Strings(forms)
		for _, formID := range forms {
			ids := dups[formID]
			first, _ := ds.Judgements.Get(ids[0])
			out = append(out, lexicon.Violation{
				Kind:         lexicon.KindDuplicate,
				Severity:     lexicon.SeverityWarning,
				Table:        tablestore.CognateTable,
				Line:         first.Line,
				RowID:        ids[0],
				FormID:       formID,
				CognateSetID: setID,
				Message: fmt.Sprintf("form %q is judged into cognate set %q %d times (%s)",
					formID, setID, len(ids), strings.Join(ids, ", ")),
			})
		}
	}
	return out
}

// scope flags, in concept scope, judgements of forms that do not mean the
// concept their cognate set belongs to.
func scope(ds *dataset.Dataset) []lexicon.Violation {
	if ds.CognateSets.Scope() != cognates.ScopeConcept {
		return nil
	}
	var out []lexicon.Violation
	for _, set := range ds.CognateSets.All() {
		if set.CentralConcept == "" {
			out = append(out, lexicon.Violation{
				Kind:         lexicon.KindScope,
				Severity:     lexicon.SeverityWarning,
				Table:        tablestore.CognatesetTable,
				Line:         set.Line,
				RowID:        set.ID,
				CognateSetID: set.ID,
				Message:      fmt.Sprintf("cognate set %q has no concept although cognate sets are per concept", set.ID),
			})
			continue
		}
		for _, j := range ds.Judgements.ForSet(set.ID) {
			form, ok := ds.Forms.Form(j.FormID)
			if !ok || slices.Contains(form.ConceptIDs, set.CentralConcept) {
				continue
			}
			out = append(out, lexicon.Violation{
				Kind:         lexicon.KindScope,
				Severity:     lexicon.SeverityError,
				Table:        tablestore.CognateTable,
				Line:         j.Line,
				RowID:        j.ID,
				FormID:       j.FormID,
				CognateSetID: set.ID,
				Message: fmt.Sprintf("form %q (%s) is judged into cognate set %q of concept %q",
					form.ID, strings.Join(form.ConceptIDs, ", "), set.ID, set.CentralConcept),
			})
		}
	}
	return out
}

func nonContiguous(ds *dataset.Dataset) []lexicon.Violation {
	var out []lexicon.Violation
	for _, j := range ds.Judgements.All() {
		form, ok := ds.Forms.Form(j.FormID)
		if !ok {
			continue
		}
		slice := j.Slice.Effective(len(form.Segments))
		if slice.Validate(len(form.Segments)) != nil || slice.Contiguous() {
			continue
		}
		out = append(out, lexicon.Violation{
			Kind:         lexicon.KindNonContiguous,
			Severity:     lexicon.SeverityInfo,
			Table:        tablestore.CognateTable,
			Line:         j.Line,
			RowID:        j.ID,
			FormID:       j.FormID,
			CognateSetID: j.CognateSetID,
			Message:      fmt.Sprintf("judgement %q addresses a discontinuous morpheme %s", j.ID, slice.String()),
		})
	}
	return out
}

var tableOrder = map[string]int{
	tablestore.FormTable:       0,
	tablestore.CognatesetTable: 1,
	tablestore.CognateTable:    2,
}

func sortViolations(vs []lexicon.Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		ti, tj := tableRank(vs[i].Table), tableRank(vs[j].Table)
		if ti != tj {
			return ti < tj
		}
		return vs[i].Line < vs[j].Line
	})
}

func tableRank(table string) int {
	if rank, ok := tableOrder[table]; ok {
		return rank
	}
	return len(tableOrder)
}

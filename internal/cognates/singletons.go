package cognates

import (
	"fmt"

	"lexcurate/internal/lexicon"
)

// Singleton is a cognate set created for an uncovered run of segments.
type Singleton struct {
	Set       *lexicon.CognateSet
	Judgement *lexicon.Judgement
}

// UncoveredRuns returns the maximal runs of segment positions of form that
// no judgement of the form addresses. Out-of-range positions of broken
// slices are ignored and unparsable slices cover nothing.
func (x *Index) UncoveredRuns(form *lexicon.Form) []lexicon.Range {
	n := len(form.Segments)
	covered := make([]bool, n)
	for _, id := range x.byForm[form.ID] {
		j := x.byID[id]
		if j.SliceUnparsed() {
			continue
		}
		for _, i := range j.Slice.Effective(n).Indices() {
			if i >= 0 && i < n {
				covered[i] = true
			}
		}
	}
	var runs []lexicon.Range
	start := -1
	for i := 0; i <= n; i++ {
		if i < n && !covered[i] {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, lexicon.Range{Start: start, End: i})
			start = -1
		}
	}
	return runs
}

// AddSingletons gives every uncovered run of segments its own cognate set
// with one judgement and a trivial alignment. Forms without segments and
// placeholder forms are skipped, as are forms with a judgement whose slice
// cannot be parsed, since their coverage is unknown. The set is named after
// the form's first concept and, in concept scope, belongs to it.
func (x *Index) AddSingletons(forms []*lexicon.Form, tag string) ([]Singleton, error) {
	var created []Singleton
	for _, form := range forms {
		if len(form.Segments) == 0 || x.placeholders.Match(form.Value) || x.hasUnparsedSlice(form.ID) {
			continue
		}
		concept := ""
		if len(form.ConceptIDs) > 0 {
			concept = form.ConceptIDs[0]
		}
		for _, run := range x.UncoveredRuns(form) {
			set := &lexicon.CognateSet{
				ID:     x.sets.NextID(form.LanguageID, concept),
				Name:   concept,
				Status: tag,
			}
			if x.sets.Scope() == ScopeConcept {
				set.CentralConcept = concept
			}
			if err := x.sets.Add(set); err != nil {
				return created, err
			}
			slice := lexicon.Slice{run}
			alignment, _ := slice.Resolve(form.Segments)
			j := &lexicon.Judgement{
				ID:           x.NextID(form.ID, set.ID),
				FormID:       form.ID,
				CognateSetID: set.ID,
				Slice:        slice,
				Alignment:    lexicon.Alignment(alignment),
			}
			if err := x.Upsert(j, tag); err != nil {
				x.sets.Remove(set.ID)
				return created, fmt.Errorf("singleton for form %q: %w", form.ID, err)
			}
			stored, _ := x.Get(j.ID)
			created = append(created, Singleton{Set: set, Judgement: stored})
		}
	}
	return created, nil
}

func (x *Index) hasUnparsedSlice(formID string) bool {
	for _, id := range x.byForm[formID] {
		if x.byID[id].SliceUnparsed() {
			return true
		}
	}
	return false
}

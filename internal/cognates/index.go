package cognates

import (
	"fmt"
	"slices"
	"strings"

	"lexcurate/internal/lexicon"
)

// FormSource resolves form IDs. *lexicon.FormTable satisfies it.
type FormSource interface {
	Form(id string) (*lexicon.Form, bool)
}

// Index stores cognate judgements with lookup by form and by cognate set.
type Index struct {
	forms        FormSource
	sets         *Registry
	placeholders lexicon.Placeholders

	order  []string
	seq    map[string]int
	next   int
	byID   map[string]*lexicon.Judgement
	byForm map[string][]string
	bySet  map[string][]string
}

// NewIndex creates an empty index over forms and sets.
func NewIndex(forms FormSource, sets *Registry, placeholders lexicon.Placeholders) *Index {
	if placeholders == nil {
		placeholders = lexicon.NewPlaceholders(lexicon.DefaultPlaceholders...)
	}
	return &Index{
		forms:        forms,
		sets:         sets,
		placeholders: placeholders,
		seq:          make(map[string]int),
		byID:         make(map[string]*lexicon.Judgement),
		byForm:       make(map[string][]string),
		bySet:        make(map[string][]string),
	}
}

// Registry returns the cognate set registry the index validates against.
func (x *Index) Registry() *Registry {
	return x.sets
}

// Placeholders returns the placeholder values configured for the index.
func (x *Index) Placeholders() lexicon.Placeholders {
	return x.placeholders
}

// Restore loads judgements as read from disk without checking invariants.
// Stored data may be inconsistent; the validator reports what is wrong.
// Only duplicate and empty IDs are rejected.
func (x *Index) Restore(judgements []*lexicon.Judgement) error {
	for _, j := range judgements {
		if strings.TrimSpace(j.ID) == "" {
			return fmt.Errorf("judgement on line %d has no ID", j.Line)
		}
		if _, ok := x.byID[j.ID]; ok {
			return fmt.Errorf("duplicate judgement ID %q (line %d)", j.ID, j.Line)
		}
		x.insert(j.Clone())
	}
	return nil
}

// Get returns a copy of one judgement.
func (x *Index) Get(id string) (*lexicon.Judgement, bool) {
	j, ok := x.byID[id]
	if !ok {
		return nil, false
	}
	return j.Clone(), true
}

// Len returns the number of judgements.
func (x *Index) Len() int {
	return len(x.order)
}

// All returns copies of every judgement in table order.
func (x *Index) All() []*lexicon.Judgement {
	return x.collect(x.order)
}

// ForForm returns copies of the judgements of one form.
func (x *Index) ForForm(formID string) []*lexicon.Judgement {
	return x.collect(x.byForm[formID])
}

// ForSet returns copies of the judgements of one cognate set.
func (x *Index) ForSet(setID string) []*lexicon.Judgement {
	return x.collect(x.bySet[setID])
}

// CountForSet returns the number of judgements of one cognate set.
func (x *Index) CountForSet(setID string) int {
	return len(x.bySet[setID])
}

// SetIDs returns every cognate set ID referenced by at least one judgement,
// including IDs unknown to the registry, in first-reference order.
func (x *Index) SetIDs() []string {
	seen := make(map[string]struct{}, len(x.bySet))
	var out []string
	for _, id := range x.order {
		set := x.byID[id].CognateSetID
		if _, ok := seen[set]; ok {
			continue
		}
		seen[set] = struct{}{}
		out = append(out, set)
	}
	return out
}

func (x *Index) collect(ids []string) []*lexicon.Judgement {
	out := make([]*lexicon.Judgement, 0, len(ids))
	for _, id := range ids {
		out = append(out, x.byID[id].Clone())
	}
	return out
}

// NextID proposes an unused judgement ID for a form in a cognate set.
func (x *Index) NextID(formID, setID string) string {
	base := formID + "-" + setID
	if _, ok := x.byID[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		id := fmt.Sprintf("%s-%d", base, n)
		if _, ok := x.byID[id]; !ok {
			return id
		}
	}
}

// Upsert inserts a judgement, or replaces the judgement with the same ID,
// after checking every invariant. tag, when set, becomes the judgement's
// status.
func (x *Index) Upsert(j *lexicon.Judgement, tag string) error {
	if j == nil || strings.TrimSpace(j.ID) == "" {
		return fmt.Errorf("judgement requires an ID")
	}
	form, ok := x.forms.Form(j.FormID)
	if !ok {
		return &lexicon.UnknownFormError{IDs: []string{j.FormID}}
	}
	if !x.sets.Has(j.CognateSetID) {
		return &lexicon.UnknownCognateSetError{IDs: []string{j.CognateSetID}}
	}
	if err := lexicon.CheckJudgement(j, form, x.placeholders); err != nil {
		return err
	}
	if width := j.Alignment.Width(); width > 0 {
		for _, otherID := range x.bySet[j.CognateSetID] {
			if otherID == j.ID {
				continue
			}
			other := x.byID[otherID]
			if w := other.Alignment.Width(); w > 0 && w != width {
				return &lexicon.ConsistencyError{
					Invariant:    lexicon.InvariantWidth,
					JudgementID:  j.ID,
					FormID:       j.FormID,
					CognateSetID: j.CognateSetID,
					Line:         j.Line,
					Detail:       fmt.Sprintf("alignment width %d differs from width %d of judgement %q", width, w, otherID),
				}
			}
		}
	}

	stored := j.Clone()
	if tag != "" {
		stored.Status = tag
	}
	if existing, ok := x.byID[j.ID]; ok {
		if stored.Line == 0 {
			stored.Line = existing.Line
		}
		x.detach(existing)
		x.byID[j.ID] = stored
		x.attach(stored)
		return nil
	}
	x.insert(stored)
	return nil
}

// Delete removes a judgement.
func (x *Index) Delete(id string) bool {
	j, ok := x.byID[id]
	if !ok {
		return false
	}
	x.detach(j)
	delete(x.byID, id)
	delete(x.seq, id)
	x.order = slices.DeleteFunc(x.order, func(candidate string) bool { return candidate == id })
	return true
}

// Retarget moves every judgement of cognate set from to cognate set to.
// Slices and alignments are kept as they are. It returns the number of
// judgements moved.
func (x *Index) Retarget(from, to, tag string) (int, error) {
	if missing := x.sets.Missing(from, to); len(missing) > 0 {
		return 0, &lexicon.UnknownCognateSetError{IDs: missing}
	}
	if from == to {
		return 0, nil
	}
	moved := x.bySet[from]
	for _, id := range moved {
		j := x.byID[id]
		j.CognateSetID = to
		if tag != "" {
			j.Status = tag
		}
	}
	x.bySet[to] = x.sortByOrder(append(x.bySet[to], moved...))
	delete(x.bySet, from)
	return len(moved), nil
}

// RetargetForm moves every judgement of form from to form to. Both forms must
// exist; the caller guarantees their segments agree.
func (x *Index) RetargetForm(from, to, tag string) (int, error) {
	var missing []string
	for _, id := range []string{from, to} {
		if _, ok := x.forms.Form(id); !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return 0, &lexicon.UnknownFormError{IDs: missing}
	}
	if from == to {
		return 0, nil
	}
	moved := x.byForm[from]
	for _, id := range moved {
		j := x.byID[id]
		j.FormID = to
		if tag != "" {
			j.Status = tag
		}
	}
	x.byForm[to] = x.sortByOrder(append(x.byForm[to], moved...))
	delete(x.byForm, from)
	return len(moved), nil
}

// ReplaceAlignments sets the alignments of several judgements of one cognate
// set at once. The result is checked as a whole: every judgement must pass
// its own checks and all aligned judgements of the set must share one width.
// Nothing is written unless every check passes.
func (x *Index) ReplaceAlignments(setID string, alignments map[string]lexicon.Alignment, tag string) error {
	if !x.sets.Has(setID) {
		return &lexicon.UnknownCognateSetError{IDs: []string{setID}}
	}
	updated := make(map[string]*lexicon.Judgement, len(alignments))
	for id, alignment := range alignments {
		j, ok := x.byID[id]
		if !ok {
			return fmt.Errorf("unknown judgement %q", id)
		}
		if j.CognateSetID != setID {
			return fmt.Errorf("judgement %q belongs to cognate set %q, not %q", id, j.CognateSetID, setID)
		}
		form, ok := x.forms.Form(j.FormID)
		if !ok {
			return &lexicon.UnknownFormError{IDs: []string{j.FormID}}
		}
		candidate := j.Clone()
		candidate.Alignment = alignment.Clone()
		if err := lexicon.CheckJudgement(candidate, form, x.placeholders); err != nil {
			return err
		}
		updated[id] = candidate
	}
	widths := make(map[string]int)
	for _, id := range x.bySet[setID] {
		j := x.byID[id]
		if candidate, ok := updated[id]; ok {
			j = candidate
		}
		if w := j.Alignment.Width(); w > 0 {
			widths[id] = w
		}
	}
	if distinctWidths(widths) > 1 {
		return &lexicon.AlignmentWidthMismatch{CognateSetID: setID, Widths: widths}
	}
	for id, candidate := range updated {
		if tag != "" {
			candidate.Status = tag
		}
		x.byID[id] = candidate
	}
	return nil
}

// Widths returns the alignment width of each aligned judgement of a set.
func (x *Index) Widths(setID string) map[string]int {
	widths := make(map[string]int)
	for _, id := range x.bySet[setID] {
		if w := x.byID[id].Alignment.Width(); w > 0 {
			widths[id] = w
		}
	}
	return widths
}

// Duplicates returns, per form, the judgement IDs when a form is judged more
// than once into the same cognate set.
func (x *Index) Duplicates(setID string) map[string][]string {
	byForm := make(map[string][]string)
	for _, id := range x.bySet[setID] {
		j := x.byID[id]
		byForm[j.FormID] = append(byForm[j.FormID], id)
	}
	for formID, ids := range byForm {
		if len(ids) < 2 {
			delete(byForm, formID)
		}
	}
	return byForm
}

// Clone returns a deep copy bound to other form and set stores, which are
// normally clones themselves.
func (x *Index) Clone(forms FormSource, sets *Registry) *Index {
	out := NewIndex(forms, sets, x.placeholders)
	for _, id := range x.order {
		out.insert(x.byID[id].Clone())
	}
	return out
}

func (x *Index) insert(j *lexicon.Judgement) {
	x.order = append(x.order, j.ID)
	x.seq[j.ID] = x.next
	x.next++
	x.byID[j.ID] = j
	x.attach(j)
}

func (x *Index) attach(j *lexicon.Judgement) {
	x.byForm[j.FormID] = x.sortByOrder(appendUnique(x.byForm[j.FormID], j.ID))
	x.bySet[j.CognateSetID] = x.sortByOrder(appendUnique(x.bySet[j.CognateSetID], j.ID))
}

func (x *Index) detach(j *lexicon.Judgement) {
	remove := func(ids []string) []string {
		return slices.DeleteFunc(ids, func(candidate string) bool { return candidate == j.ID })
	}
	if ids := remove(x.byForm[j.FormID]); len(ids) > 0 {
		x.byForm[j.FormID] = ids
	} else {
		delete(x.byForm, j.FormID)
	}
	if ids := remove(x.bySet[j.CognateSetID]); len(ids) > 0 {
		x.bySet[j.CognateSetID] = ids
	} else {
		delete(x.bySet, j.CognateSetID)
	}
}

// sortByOrder keeps the per-form and per-set lists in table order.
func (x *Index) sortByOrder(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	slices.SortStableFunc(ids, func(a, b string) int { return x.seq[a] - x.seq[b] })
	return ids
}

func appendUnique(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func distinctWidths(widths map[string]int) int {
	seen := make(map[int]struct{}, len(widths))
	for _, w := range widths {
		seen[w] = struct{}{}
	}
	return len(seen)
}

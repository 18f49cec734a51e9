package lexicon

import "maps"

// Language is a row of the language table.
type Language struct {
	ID    string
	Name  string
	Extra map[string]string
	Line  int
}

// Concept is a row of the concept (parameter) table. ConcepticonID links the
// concept to nodes of the concept-relatedness graph.
type Concept struct {
	ID            string
	Name          string
	ConcepticonID string
	Extra         map[string]string
	Line          int
}

// Form is a row of the form table.
type Form struct {
	ID         string
	LanguageID string
	ConceptIDs []string
	Value      string
	Segments   []string
	Comment    string
	Sources    []string
	Status     string
	Extra      map[string]string
	Line       int
}

// Clone returns a deep copy of the form.
func (f *Form) Clone() *Form {
	if f == nil {
		return nil
	}
	c := *f
	c.ConceptIDs = cloneStrings(f.ConceptIDs)
	c.Segments = cloneStrings(f.Segments)
	c.Sources = cloneStrings(f.Sources)
	c.Extra = maps.Clone(f.Extra)
	return &c
}

// CognateSet is a row of the cognate set table.
type CognateSet struct {
	ID             string
	Name           string
	CentralConcept string
	Comment        string
	Sources        []string
	Status         string
	Extra          map[string]string
	Line           int
}

// Clone returns a deep copy of the cognate set.
func (c *CognateSet) Clone() *CognateSet {
	if c == nil {
		return nil
	}
	out := *c
	out.Sources = cloneStrings(c.Sources)
	out.Extra = maps.Clone(c.Extra)
	return &out
}

// Judgement assigns a slice of a form's segments to a cognate set.
type Judgement struct {
	ID           string
	FormID       string
	CognateSetID string
	Slice        Slice
	// RawSlice keeps a slice cell that could not be parsed. While it is set
	// the judgement has no usable slice and Slice is empty.
	RawSlice  string
	Alignment Alignment
	Comment   string
	Status    string
	Extra     map[string]string
	Line      int
}

// SliceUnparsed reports whether the stored slice cell could not be parsed.
func (j *Judgement) SliceUnparsed() bool {
	return j.RawSlice != ""
}

// Clone returns a deep copy of the judgement.
func (j *Judgement) Clone() *Judgement {
	if j == nil {
		return nil
	}
	out := *j
	out.Slice = j.Slice.Clone()
	out.Alignment = j.Alignment.Clone()
	out.Extra = maps.Clone(j.Extra)
	return &out
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// FormTable keeps forms in table order with lookup by ID.
type FormTable struct {
	order []string
	byID  map[string]*Form
}

// NewFormTable builds a table from forms; later duplicates replace earlier
// ones in place.
func NewFormTable(forms ...*Form) *FormTable {
	t := &FormTable{byID: make(map[string]*Form, len(forms))}
	for _, f := range forms {
		t.Put(f)
	}
	return t
}

// Form returns the form with the given ID.
func (t *FormTable) Form(id string) (*Form, bool) {
	f, ok := t.byID[id]
	return f, ok
}

// Put inserts a form, or replaces the form with the same ID in place.
func (t *FormTable) Put(f *Form) {
	if f == nil {
		return
	}
	if _, ok := t.byID[f.ID]; !ok {
		t.order = append(t.order, f.ID)
	}
	t.byID[f.ID] = f
}

// Delete removes the form with the given ID.
func (t *FormTable) Delete(id string) bool {
	if _, ok := t.byID[id]; !ok {
		return false
	}
	delete(t.byID, id)
	for i, candidate := range t.order {
		if candidate == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns the forms in table order.
func (t *FormTable) All() []*Form {
	out := make([]*Form, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

// Len returns the number of forms.
func (t *FormTable) Len() int {
	return len(t.order)
}

// Clone returns a deep copy of the table.
func (t *FormTable) Clone() *FormTable {
	out := &FormTable{
		order: cloneStrings(t.order),
		byID:  make(map[string]*Form, len(t.byID)),
	}
	for id, f := range t.byID {
		out.byID[id] = f.Clone()
	}
	return out
}

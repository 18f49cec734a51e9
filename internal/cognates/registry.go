package cognates

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"lexcurate/internal/lexicon"
	"lexcurate/internal/textutil"
)

// Scope selects the identifier space of cognate sets.
type Scope string

const (
	// ScopeDataset: cognate sets may span concepts; generated IDs are unique
	// across the dataset.
	ScopeDataset Scope = "dataset"
	// ScopeConcept: every cognate set belongs to one concept (its central
	// concept); generated IDs are numbered per concept.
	ScopeConcept Scope = "concept"
)

// ParseScope validates a configured scope name.
func ParseScope(value string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(value))) {
	case "", ScopeDataset:
		return ScopeDataset, nil
	case ScopeConcept:
		return ScopeConcept, nil
	}
	return "", fmt.Errorf("unknown cognate set scope %q (want dataset or concept)", value)
}

// Registry holds the cognate sets of a dataset in table order.
type Registry struct {
	scope Scope
	order []string
	byID  map[string]*lexicon.CognateSet
}

// NewRegistry builds a registry. Duplicate IDs are rejected.
func NewRegistry(scope Scope, sets ...*lexicon.CognateSet) (*Registry, error) {
	if scope == "" {
		scope = ScopeDataset
	}
	r := &Registry{scope: scope, byID: make(map[string]*lexicon.CognateSet, len(sets))}
	for _, set := range sets {
		if err := r.Add(set); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Scope returns the identifier space of the registry.
func (r *Registry) Scope() Scope {
	return r.scope
}

// Get returns a copy of the cognate set with the given ID.
func (r *Registry) Get(id string) (*lexicon.CognateSet, bool) {
	set, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return set.Clone(), true
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Missing returns the IDs that are not registered, in input order.
func (r *Registry) Missing(ids ...string) []string {
	var missing []string
	for _, id := range ids {
		if !r.Has(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// Add registers a new cognate set.
func (r *Registry) Add(set *lexicon.CognateSet) error {
	if set == nil || strings.TrimSpace(set.ID) == "" {
		return fmt.Errorf("cognate set requires an ID")
	}
	if _, ok := r.byID[set.ID]; ok {
		return fmt.Errorf("duplicate cognate set ID %q", set.ID)
	}
	r.order = append(r.order, set.ID)
	r.byID[set.ID] = set.Clone()
	return nil
}

// Update replaces the stored row of an existing cognate set.
func (r *Registry) Update(set *lexicon.CognateSet) error {
	if set == nil {
		return fmt.Errorf("nil cognate set")
	}
	if _, ok := r.byID[set.ID]; !ok {
		return &lexicon.UnknownCognateSetError{IDs: []string{set.ID}}
	}
	r.byID[set.ID] = set.Clone()
	return nil
}

// Remove deletes a cognate set. Judgements are not touched.
func (r *Registry) Remove(id string) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// IDs returns the registered IDs in table order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns copies of all cognate sets in table order.
func (r *Registry) All() []*lexicon.CognateSet {
	out := make([]*lexicon.CognateSet, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out
}

// Len returns the number of registered sets.
func (r *Registry) Len() int {
	return len(r.order)
}

// NextID proposes an unused identifier for a new cognate set. Dataset scope
// yields X<n>_<language>; concept scope yields <concept>-<n> numbered within
// the concept, or X<n>_<language> when there is no concept.
func (r *Registry) NextID(languageID, conceptID string) string {
	if r.scope == ScopeConcept && strings.TrimSpace(conceptID) != "" {
		prefix := textutil.SanitizeToken(conceptID) + "-"
		return r.firstFree(func(n int) string { return prefix + strconv.Itoa(n) })
	}
	suffix := "_" + textutil.SanitizeToken(languageID)
	return r.firstFree(func(n int) string { return "X" + strconv.Itoa(n) + suffix })
}

func (r *Registry) firstFree(candidate func(int) string) string {
	for n := 1; ; n++ {
		id := candidate(n)
		if !r.Has(id) {
			return id
		}
	}
}

// Clone returns a deep copy.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		scope: r.scope,
		order: make([]string, len(r.order)),
		byID:  make(map[string]*lexicon.CognateSet, len(r.byID)),
	}
	copy(out.order, r.order)
	for id, set := range r.byID {
		out.byID[id] = set.Clone()
	}
	return out
}

// SmallestID returns the lexicographically smallest of ids.
func SmallestID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return sorted[0]
}

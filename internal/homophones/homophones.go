// Package homophones lists forms of one language that share a value and
// guesses, from the concept-relatedness graph, whether they are one word
// with several meanings or accidental homophones.
package homophones

import (
	"fmt"
	"sort"
	"strings"

	"lexcurate/internal/lexicon"
	"lexcurate/internal/merge"
)

// Class tells how the concepts of a homophone group relate in the graph.
type Class string

const (
	// Connected groups induce a connected subgraph: likely polysemy.
	Connected Class = "Connected"
	// Unconnected groups fall apart in the graph: likely accidental.
	Unconnected Class = "Unconnected"
	// Unknown groups have fewer than two concepts in the graph.
	Unknown Class = "Unknown"
)

// Graph answers connectivity questions about concepts.
// *conceptgraph.Concepts satisfies it.
type Graph interface {
	Maps(conceptIDs ...string) bool
	MappedNodes(conceptIDs []string) []string
	Connected(conceptIDs []string) bool
}

// Group is a set of forms sharing language and value.
type Group struct {
	LanguageID string
	Value      string
	Forms      []*lexicon.Form
	Class      Class
	// Partial is set when some concept of the group is not in the graph.
	Partial bool
}

// Concepts returns the distinct concepts of the group's forms in order of
// appearance.
func (g Group) Concepts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range g.Forms {
		for _, c := range f.ConceptIDs {
			if c != "" && !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// Find groups forms by language and normalized value. Only groups with two
// or more forms are returned, in order of their first form. Placeholder
// forms are skipped. graph may be nil.
func Find(forms []*lexicon.Form, placeholders lexicon.Placeholders, graph Graph) []Group {
	if placeholders == nil {
		placeholders = lexicon.NewPlaceholders(lexicon.DefaultPlaceholders...)
	}
	type key struct{ language, value string }
	index := make(map[key]int)
	var groups []Group
	for _, f := range forms {
		if placeholders.Match(f.Value) {
			continue
		}
		k := key{language: f.LanguageID, value: lexicon.Normalize(f.Value)}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{LanguageID: k.language, Value: k.value})
		}
		groups[i].Forms = append(groups[i].Forms, f)
	}
	out := groups[:0]
	for _, g := range groups {
		if len(g.Forms) < 2 {
			continue
		}
		g.Class, g.Partial = classify(g.Concepts(), graph)
		out = append(out, g)
	}
	return out
}

func classify(concepts []string, graph Graph) (Class, bool) {
	if graph == nil {
		return Unknown, false
	}
	partial := !graph.Maps(concepts...)
	if len(graph.MappedNodes(concepts)) <= 1 {
		return Unknown, partial
	}
	if graph.Connected(concepts) {
		return Connected, partial
	}
	return Unconnected, partial
}

// Header renders the first line of a group in a cluster file.
func (g Group) Header() string {
	header := fmt.Sprintf("%s, '%s': %s", g.LanguageID, g.Value, g.Class)
	if g.Partial {
		header += " (but at least one concept not found)"
	}
	return header + ":"
}

// ClusterGroups renders groups for merge.WriteGroups. Each member line
// carries the form's concepts.
func ClusterGroups(groups []Group) []merge.Group {
	out := make([]merge.Group, 0, len(groups))
	for _, g := range groups {
		cg := merge.Group{Header: g.Header()}
		for _, f := range g.Forms {
			cg.Members = append(cg.Members, f.ID)
			cg.Details = append(cg.Details, strings.Join(f.ConceptIDs, ", "))
		}
		out = append(out, cg)
	}
	return out
}

// Summary counts groups per class.
func Summary(groups []Group) map[Class]int {
	out := make(map[Class]int, 3)
	for _, g := range groups {
		out[g.Class]++
	}
	return out
}

// SortByLanguage orders groups by language, then value.
func SortByLanguage(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].LanguageID != groups[j].LanguageID {
			return groups[i].LanguageID < groups[j].LanguageID
		}
		return groups[i].Value < groups[j].Value
	})
}

package segment

import (
	"sort"

	"lexcurate/internal/lexicon"
)

// Entry counts one reported symbol in one language.
type Entry struct {
	LanguageID string
	Symbol     string
	Count      int
	Comment    string
}

type entryKey struct {
	language string
	symbol   string
}

// Report aggregates segmenter warnings per language and symbol.
type Report struct {
	entries map[entryKey]*Entry
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{entries: make(map[entryKey]*Entry)}
}

// Add counts warnings. The latest comment for a symbol wins.
func (r *Report) Add(warnings ...lexicon.UnrecognizedSymbol) {
	for _, w := range warnings {
		key := entryKey{language: w.LanguageID, symbol: w.Symbol}
		e, ok := r.entries[key]
		if !ok {
			e = &Entry{LanguageID: w.LanguageID, Symbol: w.Symbol}
			r.entries[key] = e
		}
		e.Count++
		e.Comment = w.Comment
	}
}

// Len returns the number of distinct language and symbol pairs.
func (r *Report) Len() int {
	return len(r.entries)
}

// Entries returns the entries sorted by language and symbol.
func (r *Report) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LanguageID != out[j].LanguageID {
			return out[i].LanguageID < out[j].LanguageID
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

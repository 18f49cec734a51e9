package dataset

import (
	"lexcurate/internal/cognates"
	"lexcurate/internal/lexicon"
)

// StatusColumn names the workflow-status column added to tables on demand.
const StatusColumn = "Status_Column"

// Dataset is an in-memory snapshot of one wordlist.
type Dataset struct {
	Languages   []*lexicon.Language
	Concepts    []*lexicon.Concept
	Forms       *lexicon.FormTable
	CognateSets *cognates.Registry
	Judgements  *cognates.Index

	// Issues lists cells that could not be parsed while loading.
	Issues []lexicon.Violation
}

// New assembles a dataset from records. Judgements are restored without
// invariant checks.
func New(
	languages []*lexicon.Language,
	concepts []*lexicon.Concept,
	forms []*lexicon.Form,
	sets *cognates.Registry,
	judgements []*lexicon.Judgement,
	placeholders lexicon.Placeholders,
) (*Dataset, error) {
	table := lexicon.NewFormTable(forms...)
	index := cognates.NewIndex(table, sets, placeholders)
	if err := index.Restore(judgements); err != nil {
		return nil, err
	}
	return &Dataset{
		Languages:   languages,
		Concepts:    concepts,
		Forms:       table,
		CognateSets: sets,
		Judgements:  index,
	}, nil
}

// Clone returns a copy whose forms, cognate sets and judgements can be
// changed without affecting d. Languages and concepts are shared.
func (d *Dataset) Clone() *Dataset {
	forms := d.Forms.Clone()
	sets := d.CognateSets.Clone()
	return &Dataset{
		Languages:   d.Languages,
		Concepts:    d.Concepts,
		Forms:       forms,
		CognateSets: sets,
		Judgements:  d.Judgements.Clone(forms, sets),
		Issues:      append([]lexicon.Violation(nil), d.Issues...),
	}
}

// Commit replaces the content of d with work, normally a modified Clone.
func (d *Dataset) Commit(work *Dataset) {
	*d = *work
}

// Concept returns a concept by ID.
func (d *Dataset) Concept(id string) (*lexicon.Concept, bool) {
	for _, c := range d.Concepts {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// ConceptOrder maps concept IDs to their position in the concept table.
func (d *Dataset) ConceptOrder() map[string]int {
	order := make(map[string]int, len(d.Concepts))
	for i, c := range d.Concepts {
		order[c.ID] = i
	}
	return order
}

// Placeholders returns the placeholder values the index was built with.
func (d *Dataset) Placeholders() lexicon.Placeholders {
	return d.Judgements.Placeholders()
}

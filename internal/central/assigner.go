package central

import (
	"log/slog"
	"slices"

	"lexcurate/internal/cognates"
	"lexcurate/internal/lexicon"
	"lexcurate/internal/logging"
)

// DefaultTag marks automatically chosen central concepts.
const DefaultTag = "automatic central concepts"

// Relatedness scores concepts inside the subgraph they induce.
// *conceptgraph.Concepts satisfies it.
type Relatedness interface {
	Maps(conceptIDs ...string) bool
	SubgraphCentrality(conceptIDs []string) map[string]float64
}

// Assignment describes the central concept chosen for one cognate set.
type Assignment struct {
	SetID    string
	Concept  string
	Previous string
	Changed  bool
	Scores   map[string]float64
}

// Assigner chooses and stores central concepts.
type Assigner struct {
	index  *cognates.Index
	forms  cognates.FormSource
	graph  Relatedness
	order  map[string]int
	logger *slog.Logger
}

// NewAssigner creates an assigner. order ranks concepts by their position in
// the concept table and breaks ties; graph may be nil.
func NewAssigner(index *cognates.Index, forms cognates.FormSource, graph Relatedness, order map[string]int, logger *slog.Logger) *Assigner {
	return &Assigner{
		index:  index,
		forms:  forms,
		graph:  graph,
		order:  order,
		logger: logging.NewComponentLogger(logger, "central"),
	}
}

// Counts returns how many member forms of the set mean each concept.
// Forms with several concepts count once for each.
func (a *Assigner) Counts(setID string) map[string]int {
	counts := make(map[string]int)
	for _, j := range a.index.ForSet(setID) {
		form, ok := a.forms.Form(j.FormID)
		if !ok {
			continue
		}
		for _, concept := range form.ConceptIDs {
			if concept != "" {
				counts[concept]++
			}
		}
	}
	return counts
}

// Choose scores the concepts of a set and returns the winner. It returns
// an empty concept for sets whose forms carry no concepts.
func (a *Assigner) Choose(setID string) (string, map[string]float64) {
	counts := a.Counts(setID)
	if len(counts) == 0 {
		return "", nil
	}
	concepts := make([]string, 0, len(counts))
	for concept := range counts {
		concepts = append(concepts, concept)
	}
	slices.SortFunc(concepts, a.compareOrder)

	var centrality map[string]float64
	if a.graph != nil && a.graph.Maps(concepts...) {
		centrality = a.graph.SubgraphCentrality(concepts)
	}
	scores := make(map[string]float64, len(concepts))
	best := ""
	for _, concept := range concepts {
		score := float64(counts[concept]) * (1 + centrality[concept])
		scores[concept] = score
		if best == "" || score > scores[best] {
			best = concept
		}
	}
	return best, scores
}

// compareOrder sorts by concept-table position; unknown concepts go last in
// ID order.
func (a *Assigner) compareOrder(x, y string) int {
	px, xok := a.order[x]
	py, yok := a.order[y]
	switch {
	case xok && yok:
		return px - py
	case xok:
		return -1
	case yok:
		return 1
	}
	if x < y {
		return -1
	}
	if x > y {
		return 1
	}
	return 0
}

// Assign stores the central concept of one cognate set. An existing value is
// kept unless overwrite is set.
func (a *Assigner) Assign(setID string, overwrite bool, tag string) (Assignment, error) {
	sets := a.index.Registry()
	set, ok := sets.Get(setID)
	if !ok {
		return Assignment{}, &lexicon.UnknownCognateSetError{IDs: []string{setID}}
	}
	result := Assignment{SetID: setID, Previous: set.CentralConcept, Concept: set.CentralConcept}
	if set.CentralConcept != "" && !overwrite {
		return result, nil
	}
	concept, scores := a.Choose(setID)
	result.Scores = scores
	if concept == "" || concept == set.CentralConcept {
		return result, nil
	}
	set.CentralConcept = concept
	if tag != "" {
		set.Status = tag
	}
	if err := sets.Update(set); err != nil {
		return Assignment{}, err
	}
	result.Concept = concept
	result.Changed = true
	a.logger.Debug("central concept assigned",
		logging.CognateSet(setID),
		logging.String("concept_id", concept),
		logging.String("previous", result.Previous),
	)
	return result, nil
}

// AssignAll assigns central concepts to every registered cognate set in
// table order.
func (a *Assigner) AssignAll(overwrite bool, tag string) ([]Assignment, error) {
	ids := a.index.Registry().IDs()
	out := make([]Assignment, 0, len(ids))
	changed := 0
	for _, id := range ids {
		result, err := a.Assign(id, overwrite, tag)
		if err != nil {
			return nil, err
		}
		if result.Changed {
			changed++
		}
		out = append(out, result)
	}
	a.logger.Info("central concepts assigned",
		logging.Int("cognatesets", len(ids)),
		logging.Int("changed", changed),
	)
	return out, nil
}

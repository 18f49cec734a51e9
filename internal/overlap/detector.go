package overlap

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"lexcurate/internal/cognates"
	"lexcurate/internal/lexicon"
)

// Measure selects the denominator of the overlap fraction.
type Measure string

const (
	// MeasureMin divides the shared count by the shorter slice. A slice
	// contained in another scores 1, so it links even at threshold 1.
	MeasureMin Measure = "min"
	// MeasureMax divides the shared count by the longer slice. Only
	// identical slices score 1.
	MeasureMax Measure = "max"
)

// DefaultThreshold links judgements sharing at least half of the shorter
// slice.
const DefaultThreshold = 0.5

// ParseMeasure validates a configured measure name.
func ParseMeasure(value string) (Measure, error) {
	switch Measure(strings.ToLower(strings.TrimSpace(value))) {
	case "", MeasureMin:
		return MeasureMin, nil
	case MeasureMax:
		return MeasureMax, nil
	}
	return "", fmt.Errorf("unknown overlap measure %q (want min or max)", value)
}

// Options configures a Detector.
type Options struct {
	Threshold float64
	Measure   Measure
}

// Edge is the evidence linking two cognate sets: one form on which their
// judgements overlap.
type Edge struct {
	FormID   string
	SetA     string
	SetB     string
	SliceA   lexicon.Slice
	SliceB   lexicon.Slice
	Shared   []int
	Fraction float64
}

// Cluster is a connected group of overlapping cognate sets.
type Cluster struct {
	Members []string
	Edges   []Edge
}

// Source lists judgements. *cognates.Index satisfies it.
type Source interface {
	All() []*lexicon.Judgement
}

// Detector computes overlap clusters over a judgement source.
type Detector struct {
	judgements Source
	forms      cognates.FormSource
	opts       Options
}

// NewDetector validates opts. A zero threshold selects DefaultThreshold.
func NewDetector(judgements Source, forms cognates.FormSource, opts Options) (*Detector, error) {
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, fmt.Errorf("overlap threshold must be in (0, 1], got %v", opts.Threshold)
	}
	if opts.Measure == "" {
		opts.Measure = MeasureMin
	}
	if opts.Measure != MeasureMin && opts.Measure != MeasureMax {
		return nil, fmt.Errorf("unknown overlap measure %q", opts.Measure)
	}
	return &Detector{judgements: judgements, forms: forms, opts: opts}, nil
}

// Clusters yields the clusters ordered by their smallest member ID. Members
// are sorted; edges follow form order. Every iteration recomputes from the
// current judgements.
func (d *Detector) Clusters() iter.Seq[Cluster] {
	return func(yield func(Cluster) bool) {
		for _, cluster := range d.compute() {
			if !yield(cluster) {
				return
			}
		}
	}
}

// Edges returns every linking pair without grouping.
func (d *Detector) Edges() []Edge {
	var edges []Edge
	byForm, order := d.groupByForm()
	for _, formID := range order {
		edges = append(edges, d.formEdges(formID, byForm[formID])...)
	}
	return edges
}

func (d *Detector) groupByForm() (map[string][]*lexicon.Judgement, []string) {
	byForm := make(map[string][]*lexicon.Judgement)
	var order []string
	for _, j := range d.judgements.All() {
		// An unparsable slice addresses no known segments.
		if j.SliceUnparsed() {
			continue
		}
		if _, ok := byForm[j.FormID]; !ok {
			order = append(order, j.FormID)
		}
		byForm[j.FormID] = append(byForm[j.FormID], j)
	}
	return byForm, order
}

func (d *Detector) formEdges(formID string, judgements []*lexicon.Judgement) []Edge {
	if len(judgements) < 2 {
		return nil
	}
	n := -1
	if form, ok := d.forms.Form(formID); ok {
		n = len(form.Segments)
	}
	var edges []Edge
	for i := 0; i < len(judgements); i++ {
		for k := i + 1; k < len(judgements); k++ {
			a, b := judgements[i], judgements[k]
			if a.CognateSetID == b.CognateSetID {
				continue
			}
			sliceA, sliceB := effective(a.Slice, n), effective(b.Slice, n)
			if sliceA.Len() == 0 || sliceB.Len() == 0 {
				continue
			}
			shared := sliceA.Intersect(sliceB)
			fraction := d.fraction(len(shared), sliceA.Len(), sliceB.Len())
			if len(shared) == 0 || fraction < d.opts.Threshold {
				continue
			}
			if a.CognateSetID > b.CognateSetID {
				a, b = b, a
				sliceA, sliceB = sliceB, sliceA
			}
			edges = append(edges, Edge{
				FormID:   formID,
				SetA:     a.CognateSetID,
				SetB:     b.CognateSetID,
				SliceA:   sliceA,
				SliceB:   sliceB,
				Shared:   shared,
				Fraction: fraction,
			})
		}
	}
	return edges
}

// effective expands an empty slice to the whole form; with an unknown form
// an empty slice stays empty.
func effective(s lexicon.Slice, n int) lexicon.Slice {
	if n < 0 {
		return s
	}
	return s.Effective(n)
}

func (d *Detector) fraction(shared, lenA, lenB int) float64 {
	denominator := min(lenA, lenB)
	if d.opts.Measure == MeasureMax {
		denominator = max(lenA, lenB)
	}
	return float64(shared) / float64(denominator)
}

func (d *Detector) compute() []Cluster {
	edges := d.Edges()
	if len(edges) == 0 {
		return nil
	}

	var ids []string
	seen := make(map[string]bool)
	for _, e := range edges {
		for _, id := range []string{e.SetA, e.SetB} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)
	nodeOf := make(map[string]int64, len(ids))
	for i, id := range ids {
		nodeOf[id] = int64(i)
	}

	g := simple.NewUndirectedGraph()
	for _, id := range ids {
		g.AddNode(simple.Node(nodeOf[id]))
	}
	for _, e := range edges {
		from, to := simple.Node(nodeOf[e.SetA]), simple.Node(nodeOf[e.SetB])
		if !g.HasEdgeBetween(from.ID(), to.ID()) {
			g.SetEdge(g.NewEdge(from, to))
		}
	}

	componentOf := make(map[string]int)
	var clusters []Cluster
	for _, component := range topo.ConnectedComponents(g) {
		if len(component) < 2 {
			continue
		}
		members := make([]string, 0, len(component))
		for _, node := range component {
			members = append(members, ids[node.ID()])
		}
		slices.Sort(members)
		for _, m := range members {
			componentOf[m] = len(clusters)
		}
		clusters = append(clusters, Cluster{Members: members})
	}
	for _, e := range edges {
		i := componentOf[e.SetA]
		clusters[i].Edges = append(clusters[i].Edges, e)
	}
	slices.SortFunc(clusters, func(a, b Cluster) int { return strings.Compare(a.Members[0], b.Members[0]) })
	return clusters
}

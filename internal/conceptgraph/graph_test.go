package conceptgraph

import (
	"math"
	"strings"
	"testing"

	"lexcurate/internal/lexicon"
)

const edges = `source,target,weight
# colexifications
1673,1277,12
1277,493,3
1277,628
9,10
`

func loadTestGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := Read(strings.NewReader(edges))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return g
}

func TestReadSkipsHeaderAndComments(t *testing.T) {
	g := loadTestGraph(t)
	if g.Len() != 6 {
		t.Fatalf("nodes = %d, want 6 (%v)", g.Len(), g.Labels())
	}
	if w, ok := g.Weight("1277", "1673"); !ok || w != 12 {
		t.Fatalf("weight = %v %v, want 12", w, ok)
	}
	if w, _ := g.Weight("628", "1277"); w != 1 {
		t.Fatalf("default weight = %v, want 1", w)
	}
}

func TestReadRejectsShortRows(t *testing.T) {
	if _, err := Read(strings.NewReader("a,b\nc\n")); err == nil {
		t.Fatal("expected error for single-column row")
	}
	if _, err := Read(strings.NewReader("a,b,heavy\n")); err == nil {
		t.Fatal("expected error for bad weight")
	}
}

func TestRelated(t *testing.T) {
	g := loadTestGraph(t)
	tests := []struct {
		a, b string
		want bool
	}{
		{"1673", "1277", true},
		{"1277", "1673", true},
		{"1673", "493", false},
		{"1673", "missing", false},
		{"1277", "1277", false},
	}
	for _, tt := range tests {
		if got := g.Related(tt.a, tt.b); got != tt.want {
			t.Errorf("Related(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestConnected(t *testing.T) {
	g := loadTestGraph(t)
	if !g.Connected([]string{"1673", "493", "1277"}) {
		t.Fatal("star through 1277 should be connected")
	}
	if g.Connected([]string{"1673", "493"}) {
		t.Fatal("leaves without their hub should be unconnected")
	}
	if g.Connected([]string{"missing"}) {
		t.Fatal("empty subgraph should not be connected")
	}
}

func TestSubgraphCentralityStar(t *testing.T) {
	g := loadTestGraph(t)
	got := g.SubgraphCentrality([]string{"1673", "1277", "493", "628"})
	if math.Abs(got["1277"]-1) > 1e-9 {
		t.Fatalf("hub centrality = %v, want 1", got["1277"])
	}
	for _, leaf := range []string{"1673", "493", "628"} {
		if got[leaf] != 0 {
			t.Fatalf("leaf %s centrality = %v, want 0", leaf, got[leaf])
		}
	}
}

func TestSubgraphCentralityOnlyCountsInducedPaths(t *testing.T) {
	g := loadTestGraph(t)
	got := g.SubgraphCentrality([]string{"1673", "493", "628", "9"})
	for label, value := range got {
		if value != 0 {
			t.Fatalf("%s centrality = %v, want 0 without the hub", label, value)
		}
	}
	if len(got) != 4 {
		t.Fatalf("got %d entries, want 4", len(got))
	}
}

func TestConceptsBinding(t *testing.T) {
	g := loadTestGraph(t)
	concepts := []*lexicon.Concept{
		{ID: "arm", ConcepticonID: "1673"},
		{ID: "hand", ConcepticonID: "1277"},
		{ID: "five", ConcepticonID: "493"},
		{ID: "leaf", ConcepticonID: "628"},
		{ID: "tree"},
	}
	view := Bind(g, concepts)
	if !view.Maps("arm", "hand") || view.Maps("arm", "tree") {
		t.Fatal("unexpected Maps result")
	}
	if !view.Related("arm", "hand") || view.Related("arm", "tree") {
		t.Fatal("unexpected Related result")
	}
	centrality := view.SubgraphCentrality([]string{"arm", "hand", "five", "leaf"})
	if centrality["hand"] <= centrality["arm"] {
		t.Fatalf("hand should be most central: %v", centrality)
	}
	if _, ok := centrality["tree"]; ok {
		t.Fatal("unmapped concept must not get a centrality")
	}

	empty := Bind(nil, concepts)
	if empty.Maps("arm") || empty.Connected([]string{"arm", "hand"}) {
		t.Fatal("nil graph should map nothing")
	}
}

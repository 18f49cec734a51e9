package overlap

import (
	"slices"
	"testing"

	"lexcurate/internal/cognates"
	"lexcurate/internal/lexicon"
)

func build(t *testing.T, judgements ...*lexicon.Judgement) (*cognates.Index, *lexicon.FormTable) {
	t.Helper()
	forms := lexicon.NewFormTable(
		&lexicon.Form{ID: "F1", Value: "pɔɾ", Segments: []string{"p", "ɔ", "ɾ"}},
		&lexicon.Form{ID: "F2", Value: "kapa", Segments: []string{"k", "a", "p", "a"}},
	)
	sets, _ := cognates.NewRegistry(cognates.ScopeDataset,
		&lexicon.CognateSet{ID: "A"}, &lexicon.CognateSet{ID: "B"},
		&lexicon.CognateSet{ID: "C"}, &lexicon.CognateSet{ID: "D"},
	)
	idx := cognates.NewIndex(forms, sets, nil)
	if err := idx.Restore(judgements); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	return idx, forms
}

func judgement(id, form, set string, start, end int) *lexicon.Judgement {
	return &lexicon.Judgement{ID: id, FormID: form, CognateSetID: set, Slice: lexicon.Slice{{Start: start, End: end}}}
}

func collect(t *testing.T, d *Detector) []Cluster {
	t.Helper()
	var out []Cluster
	for c := range d.Clusters() {
		out = append(out, c)
	}
	return out
}

func TestHalfOverlapFormsCluster(t *testing.T) {
	idx, forms := build(t, judgement("j1", "F1", "A", 0, 2), judgement("j2", "F1", "B", 1, 3))
	d, err := NewDetector(idx, forms, Options{Threshold: 0.5})
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	clusters := collect(t, d)
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	c := clusters[0]
	if !slices.Equal(c.Members, []string{"A", "B"}) {
		t.Fatalf("members = %v", c.Members)
	}
	if len(c.Edges) != 1 {
		t.Fatalf("edges = %+v", c.Edges)
	}
	e := c.Edges[0]
	if e.FormID != "F1" || e.Fraction != 0.5 || !slices.Equal(e.Shared, []int{1}) {
		t.Fatalf("unexpected edge %+v", e)
	}
	if e.SliceA.String() != "0:2" || e.SliceB.String() != "1:3" {
		t.Fatalf("edge slices %s / %s", e.SliceA, e.SliceB)
	}
}

func TestFullThresholdIgnoresPartialOverlap(t *testing.T) {
	idx, forms := build(t, judgement("j1", "F1", "A", 0, 2), judgement("j2", "F1", "B", 1, 3))
	d, _ := NewDetector(idx, forms, Options{Threshold: 1.0})
	if clusters := collect(t, d); len(clusters) != 0 {
		t.Fatalf("expected no clusters, got %+v", clusters)
	}
}

func TestClustersAreTransitive(t *testing.T) {
	idx, forms := build(t,
		judgement("j1", "F1", "A", 0, 2),
		judgement("j2", "F1", "B", 1, 3),
		judgement("j3", "F2", "B", 0, 2),
		judgement("j4", "F2", "C", 1, 4),
		judgement("j5", "F2", "D", 3, 4),
	)
	d, _ := NewDetector(idx, forms, Options{})
	clusters := collect(t, d)
	if len(clusters) != 1 || !slices.Equal(clusters[0].Members, []string{"A", "B", "C", "D"}) {
		t.Fatalf("clusters = %+v", clusters)
	}
	if len(clusters[0].Edges) != 3 {
		t.Fatalf("edges = %d, want 3", len(clusters[0].Edges))
	}
}

func TestMaxMeasureIsStricter(t *testing.T) {
	idx, forms := build(t, judgement("j1", "F2", "A", 0, 4), judgement("j2", "F2", "B", 0, 1))
	minDetector, _ := NewDetector(idx, forms, Options{Threshold: 0.5, Measure: MeasureMin})
	maxDetector, _ := NewDetector(idx, forms, Options{Threshold: 0.5, Measure: MeasureMax})
	if len(collect(t, minDetector)) != 1 {
		t.Fatal("contained slice should link under the min measure")
	}
	if len(collect(t, maxDetector)) != 0 {
		t.Fatal("1 of 4 segments should not link under the max measure")
	}
}

func TestFullThresholdByMeasure(t *testing.T) {
	tests := []struct {
		name    string
		sliceB  lexicon.Slice
		measure Measure
		want    int
	}{
		{name: "nested slice under min", sliceB: lexicon.Slice{{Start: 0, End: 4}}, measure: MeasureMin, want: 1},
		{name: "nested slice under max", sliceB: lexicon.Slice{{Start: 0, End: 4}}, measure: MeasureMax, want: 0},
		{name: "identical slice under max", sliceB: lexicon.Slice{{Start: 0, End: 1}}, measure: MeasureMax, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, forms := build(t,
				judgement("j1", "F2", "A", 0, 1),
				&lexicon.Judgement{ID: "j2", FormID: "F2", CognateSetID: "B", Slice: tt.sliceB},
			)
			d, err := NewDetector(idx, forms, Options{Threshold: 1.0, Measure: tt.measure})
			if err != nil {
				t.Fatalf("NewDetector: %v", err)
			}
			clusters := collect(t, d)
			if len(clusters) != tt.want {
				t.Fatalf("got %d clusters, want %d", len(clusters), tt.want)
			}
			for _, c := range clusters {
				for _, e := range c.Edges {
					if e.Fraction != 1 {
						t.Fatalf("edge fraction %v below threshold 1", e.Fraction)
					}
				}
			}
		})
	}
}

func TestUnparsableSliceDoesNotLink(t *testing.T) {
	idx, forms := build(t,
		&lexicon.Judgement{ID: "j1", FormID: "F1", CognateSetID: "A", RawSlice: "3:1"},
		judgement("j2", "F1", "B", 0, 1),
	)
	d, _ := NewDetector(idx, forms, Options{Threshold: 0.5})
	if clusters := collect(t, d); len(clusters) != 0 {
		t.Fatalf("unparsable slice should not cover the whole form: %+v", clusters)
	}
	if edges := d.Edges(); len(edges) != 0 {
		t.Fatalf("edges = %+v", edges)
	}
}

func TestSameSetAndEmptySlicesDoNotLink(t *testing.T) {
	idx, forms := build(t,
		judgement("j1", "F1", "A", 0, 2),
		judgement("j2", "F1", "A", 1, 3),
		&lexicon.Judgement{ID: "j3", FormID: "F2", CognateSetID: "C"},
		judgement("j4", "F2", "D", 2, 4),
	)
	d, _ := NewDetector(idx, forms, Options{})
	clusters := collect(t, d)
	if len(clusters) != 1 || !slices.Equal(clusters[0].Members, []string{"C", "D"}) {
		t.Fatalf("whole-form judgement should overlap D only: %+v", clusters)
	}
}

func TestClustersIsRestartable(t *testing.T) {
	idx, forms := build(t, judgement("j1", "F1", "A", 0, 2), judgement("j2", "F1", "B", 1, 3))
	d, _ := NewDetector(idx, forms, Options{})
	first, second := collect(t, d), collect(t, d)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("iterations differ: %d vs %d", len(first), len(second))
	}
	for range d.Clusters() {
		break
	}
}

func TestNewDetectorValidates(t *testing.T) {
	idx, forms := build(t)
	if _, err := NewDetector(idx, forms, Options{Threshold: 1.5}); err == nil {
		t.Fatal("expected error for threshold > 1")
	}
	if _, err := NewDetector(idx, forms, Options{Measure: "mean"}); err == nil {
		t.Fatal("expected error for unknown measure")
	}
}

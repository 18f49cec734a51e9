package merge

import (
	"errors"
	"slices"
	"testing"

	"lexcurate/internal/cognates"
	"lexcurate/internal/dataset"
	"lexcurate/internal/lexicon"
)

func newDataset(t *testing.T, scope cognates.Scope) *dataset.Dataset {
	t.Helper()
	forms := []*lexicon.Form{
		{ID: "F1", LanguageID: "ache", ConceptIDs: []string{"fire"}, Value: "pɔɾ", Segments: []string{"p", "ɔ", "ɾ"}},
		{ID: "F2", LanguageID: "ache", ConceptIDs: []string{"fire"}, Value: "kapa", Segments: []string{"k", "a", "p", "a"}},
		{ID: "F3", LanguageID: "ache", ConceptIDs: []string{"water"}, Value: "ɨ", Segments: []string{"ɨ"}},
	}
	sets, err := cognates.NewRegistry(scope,
		&lexicon.CognateSet{ID: "A", Name: "a", CentralConcept: "fire", Comment: "foo", Sources: []string{"s1"}},
		&lexicon.CognateSet{ID: "B", Name: "b", CentralConcept: "fire", Comment: "bar", Sources: []string{"s1", "s2"}},
		&lexicon.CognateSet{ID: "C", Name: "c", CentralConcept: "water", Comment: "baz"},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	judgements := []*lexicon.Judgement{
		{ID: "j1", FormID: "F1", CognateSetID: "A", Slice: lexicon.Slice{{Start: 0, End: 2}}, Alignment: lexicon.ParseAlignment("p ɔ -")},
		{ID: "j2", FormID: "F1", CognateSetID: "B", Slice: lexicon.Slice{{Start: 1, End: 3}}, Alignment: lexicon.ParseAlignment("ɔ ɾ -")},
		{ID: "j3", FormID: "F2", CognateSetID: "B", Slice: lexicon.Slice{{Start: 0, End: 2}}, Alignment: lexicon.ParseAlignment("k a -")},
		{ID: "j4", FormID: "F3", CognateSetID: "C", Alignment: lexicon.ParseAlignment("ɨ")},
	}
	ds, err := dataset.New(nil, nil, forms, sets, judgements, nil)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := NewEngine(opts)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestMergeFoldsColumnsAndRetargets(t *testing.T) {
	ds := newDataset(t, cognates.ScopeDataset)
	e := newEngine(t, Options{Tag: "MERGED: Review necessary"})

	result, err := e.Merge(ds, Request{Members: []string{"B", "A"}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if result.Target != "A" || !slices.Equal(result.Removed, []string{"B"}) || result.Retargeted != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	a, _ := ds.CognateSets.Get("A")
	if a.Comment != "foo; bar" {
		t.Fatalf("comment = %q, want %q", a.Comment, "foo; bar")
	}
	if !slices.Equal(a.Sources, []string{"s1", "s2"}) || a.Name != "a" || a.Status != "MERGED: Review necessary" {
		t.Fatalf("unexpected survivor %+v", a)
	}
	if ds.CognateSets.Has("B") {
		t.Fatal("B should be removed")
	}
	for _, j := range ds.Judgements.ForSet("A") {
		if j.ID == "j2" && (j.Slice.String() != "1:3" || j.Alignment.String() != "ɔ ɾ -" || j.Status != "MERGED: Review necessary") {
			t.Fatalf("retargeted judgement changed: %+v", j)
		}
	}
	if len(ds.Judgements.ForSet("A")) != 3 {
		t.Fatalf("A has %d judgements, want 3", len(ds.Judgements.ForSet("A")))
	}
	if dups := result.Duplicates["F1"]; !slices.Equal(dups, []string{"j1", "j2"}) {
		t.Fatalf("duplicates = %v", result.Duplicates)
	}
	c, _ := ds.CognateSets.Get("C")
	if c.Comment != "baz" || c.Status != "" || len(ds.Judgements.ForSet("C")) != 1 {
		t.Fatalf("set outside the cluster changed: %+v", c)
	}
}

func TestMergeUnknownMemberLeavesDatasetUnchanged(t *testing.T) {
	ds := newDataset(t, cognates.ScopeDataset)
	e := newEngine(t, Options{})

	_, err := e.Merge(ds, Request{Members: []string{"A", "Z"}})
	var unknown *lexicon.UnknownCognateSetError
	if !errors.As(err, &unknown) || !slices.Equal(unknown.IDs, []string{"Z"}) {
		t.Fatalf("expected UnknownCognateSetError for Z, got %v", err)
	}
	if ds.CognateSets.Len() != 3 || len(ds.Judgements.ForSet("A")) != 1 {
		t.Fatal("dataset changed after a failed merge")
	}
}

func TestMergeAllIsAtomic(t *testing.T) {
	ds := newDataset(t, cognates.ScopeDataset)
	e := newEngine(t, Options{})

	_, err := e.MergeAll(ds, []Request{
		{Members: []string{"A", "B"}},
		{Members: []string{"C", "Q"}},
	})
	if err == nil {
		t.Fatal("expected error from second request")
	}
	if !ds.CognateSets.Has("B") || len(ds.Judgements.ForSet("B")) != 2 {
		t.Fatal("first request was applied despite the batch failing")
	}
}

func TestStrictMergeRejectsWidthMismatch(t *testing.T) {
	ds := newDataset(t, cognates.ScopeDataset)
	strict := newEngine(t, Options{Strict: true})
	_, err := strict.Merge(ds, Request{Members: []string{"A", "C"}})
	var mismatch *lexicon.AlignmentWidthMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected AlignmentWidthMismatch, got %v", err)
	}
	if !ds.CognateSets.Has("C") {
		t.Fatal("strict failure must not change the dataset")
	}

	lenient := newEngine(t, Options{})
	result, err := lenient.Merge(ds, Request{Members: []string{"A", "C"}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if result.WidthMismatch == nil || result.WidthMismatch.Widths["j4"] != 1 {
		t.Fatalf("expected width mismatch in result, got %+v", result.WidthMismatch)
	}
}

func TestMergeTargetSelection(t *testing.T) {
	ds := newDataset(t, cognates.ScopeDataset)
	largest := newEngine(t, Options{Rule: TargetLargest})
	result, err := largest.Merge(ds, Request{Members: []string{"A", "B"}})
	if err != nil || result.Target != "B" {
		t.Fatalf("largest rule picked %+v, %v", result, err)
	}

	ds = newDataset(t, cognates.ScopeDataset)
	e := newEngine(t, Options{})
	if _, err := e.Merge(ds, Request{Members: []string{"A", "B"}, Target: "C"}); err == nil {
		t.Fatal("expected error for a target outside the cluster")
	}
	result, err = e.Merge(ds, Request{Members: []string{"A", "B"}, Target: "B"})
	if err != nil || result.Target != "B" || ds.CognateSets.Has("A") {
		t.Fatalf("explicit target ignored: %+v, %v", result, err)
	}
}

func TestMergeTargetRule(t *testing.T) {
	tests := []struct {
		name    string
		rule    TargetRule
		members []string
		want    string
	}{
		{"smallest id", TargetSmallest, []string{"C", "B"}, "B"},
		{"most judgements over largest id", TargetLargest, []string{"B", "C"}, "B"},
		{"tie goes to smallest id", TargetLargest, []string{"C", "A"}, "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := newDataset(t, cognates.ScopeDataset)
			result, err := newEngine(t, Options{Rule: tt.rule}).Merge(ds, Request{Members: tt.members})
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if result.Target != tt.want {
				t.Fatalf("target = %q, want %q", result.Target, tt.want)
			}
		})
	}
}

func TestConceptScopeRequiresSameConcept(t *testing.T) {
	ds := newDataset(t, cognates.ScopeConcept)
	e := newEngine(t, Options{})
	_, err := e.Merge(ds, Request{Members: []string{"A", "C"}})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if _, err := e.Merge(ds, Request{Members: []string{"A", "B"}}); err != nil {
		t.Fatalf("same-concept merge failed: %v", err)
	}
}

func TestMustBeEqualPolicy(t *testing.T) {
	ds := newDataset(t, cognates.ScopeDataset)
	e := newEngine(t, Options{CognateSetPolicies: Policies{lexicon.ColumnCentralConcept: PolicyMustBeEqual}})
	if _, err := e.Merge(ds, Request{Members: []string{"A", "C"}}); err == nil {
		t.Fatal("expected conflict for differing central concepts")
	}
	if _, err := e.Merge(ds, Request{Members: []string{"A", "B"}}); err != nil {
		t.Fatalf("equal central concepts should merge: %v", err)
	}
}

func TestNewEngineRejectsUnknownPolicy(t *testing.T) {
	if _, err := NewEngine(Options{CognateSetPolicies: Policies{"comment": "shuffle"}}); err == nil {
		t.Fatal("expected error for unknown policy")
	}
	if _, err := ParseTargetRule("oldest"); err == nil {
		t.Fatal("expected error for unknown rule")
	}
}

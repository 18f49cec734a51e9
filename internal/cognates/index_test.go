package cognates

import (
	"errors"
	"testing"

	"lexcurate/internal/lexicon"
)

func newFixture(t *testing.T) (*lexicon.FormTable, *Registry, *Index) {
	t.Helper()
	forms := lexicon.NewFormTable(
		&lexicon.Form{ID: "F1", LanguageID: "ache", ConceptIDs: []string{"fire"}, Value: "pɔɾ", Segments: []string{"p", "ɔ", "ɾ"}},
		&lexicon.Form{ID: "F2", LanguageID: "paraguayan", ConceptIDs: []string{"fire"}, Value: "pɔ", Segments: []string{"p", "ɔ"}},
		&lexicon.Form{ID: "F3", LanguageID: "ache", ConceptIDs: []string{"water"}, Value: "-"},
	)
	sets, err := NewRegistry(ScopeDataset,
		&lexicon.CognateSet{ID: "A"},
		&lexicon.CognateSet{ID: "B"},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return forms, sets, NewIndex(forms, sets, nil)
}

func TestUpsertChecksReferences(t *testing.T) {
	_, _, idx := newFixture(t)

	err := idx.Upsert(&lexicon.Judgement{ID: "j1", FormID: "F9", CognateSetID: "A"}, "")
	var unknownForm *lexicon.UnknownFormError
	if !errors.As(err, &unknownForm) {
		t.Fatalf("expected UnknownFormError, got %v", err)
	}

	err = idx.Upsert(&lexicon.Judgement{ID: "j1", FormID: "F1", CognateSetID: "Z"}, "")
	var unknownSet *lexicon.UnknownCognateSetError
	if !errors.As(err, &unknownSet) {
		t.Fatalf("expected UnknownCognateSetError, got %v", err)
	}
	if idx.Len() != 0 {
		t.Fatalf("failed upserts must not store anything, have %d", idx.Len())
	}
}

func TestUpsertRejectsPlaceholderAndStaleAlignment(t *testing.T) {
	_, _, idx := newFixture(t)

	err := idx.Upsert(&lexicon.Judgement{ID: "j1", FormID: "F3", CognateSetID: "A"}, "")
	var consistency *lexicon.ConsistencyError
	if !errors.As(err, &consistency) || consistency.Invariant != lexicon.InvariantPlaceholder {
		t.Fatalf("expected placeholder violation, got %v", err)
	}

	err = idx.Upsert(&lexicon.Judgement{ID: "j2", FormID: "F1", CognateSetID: "A", Alignment: lexicon.ParseAlignment("p ɔ -")}, "")
	if !errors.As(err, &consistency) || consistency.Invariant != lexicon.InvariantSegmentCount {
		t.Fatalf("expected segment count violation, got %v", err)
	}
}

func TestUpsertEnforcesWidth(t *testing.T) {
	_, _, idx := newFixture(t)
	if err := idx.Upsert(&lexicon.Judgement{ID: "j1", FormID: "F1", CognateSetID: "A", Alignment: lexicon.ParseAlignment("p ɔ ɾ")}, "tag"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	err := idx.Upsert(&lexicon.Judgement{ID: "j2", FormID: "F2", CognateSetID: "A", Alignment: lexicon.ParseAlignment("p ɔ")}, "")
	var consistency *lexicon.ConsistencyError
	if !errors.As(err, &consistency) || consistency.Invariant != lexicon.InvariantWidth {
		t.Fatalf("expected width violation, got %v", err)
	}
	if err := idx.Upsert(&lexicon.Judgement{ID: "j2", FormID: "F2", CognateSetID: "A", Alignment: lexicon.ParseAlignment("p ɔ -")}, ""); err != nil {
		t.Fatalf("padded alignment should be accepted: %v", err)
	}
	j, _ := idx.Get("j1")
	if j.Status != "tag" {
		t.Fatalf("status = %q, want tag", j.Status)
	}
	if got := len(idx.ForSet("A")); got != 2 {
		t.Fatalf("ForSet(A) = %d judgements, want 2", got)
	}
}

func TestUpsertReplacesAndMovesBetweenSets(t *testing.T) {
	_, _, idx := newFixture(t)
	if err := idx.Upsert(&lexicon.Judgement{ID: "j1", FormID: "F1", CognateSetID: "A"}, ""); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := idx.Upsert(&lexicon.Judgement{ID: "j1", FormID: "F1", CognateSetID: "B"}, ""); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(idx.ForSet("A")) != 0 || len(idx.ForSet("B")) != 1 || idx.Len() != 1 {
		t.Fatalf("replacement did not move the judgement: A=%d B=%d len=%d", len(idx.ForSet("A")), len(idx.ForSet("B")), idx.Len())
	}
}

func TestRetargetKeepsSlicesAndAlignments(t *testing.T) {
	_, _, idx := newFixture(t)
	err := idx.Restore([]*lexicon.Judgement{
		{ID: "j1", FormID: "F1", CognateSetID: "A", Slice: lexicon.Slice{{Start: 0, End: 2}}, Alignment: lexicon.ParseAlignment("p ɔ")},
		{ID: "j2", FormID: "F1", CognateSetID: "B", Slice: lexicon.Slice{{Start: 1, End: 3}}, Alignment: lexicon.ParseAlignment("ɔ ɾ")},
	})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	n, err := idx.Retarget("B", "A", "merged")
	if err != nil || n != 1 {
		t.Fatalf("Retarget = %d, %v", n, err)
	}
	moved, _ := idx.Get("j2")
	if moved.CognateSetID != "A" || moved.Slice.String() != "1:3" || moved.Alignment.String() != "ɔ ɾ" || moved.Status != "merged" {
		t.Fatalf("unexpected retargeted judgement %+v", moved)
	}
	ids := []string{}
	for _, j := range idx.ForSet("A") {
		ids = append(ids, j.ID)
	}
	if len(ids) != 2 || ids[0] != "j1" || ids[1] != "j2" {
		t.Fatalf("ForSet(A) = %v, want table order [j1 j2]", ids)
	}
	if _, err := idx.Retarget("A", "Z", ""); err == nil {
		t.Fatal("expected error for unknown target set")
	}
}

func TestReplaceAlignmentsIsAllOrNothing(t *testing.T) {
	_, _, idx := newFixture(t)
	err := idx.Restore([]*lexicon.Judgement{
		{ID: "j1", FormID: "F1", CognateSetID: "A", Alignment: lexicon.ParseAlignment("p ɔ ɾ")},
		{ID: "j2", FormID: "F2", CognateSetID: "A", Alignment: lexicon.ParseAlignment("p ɔ")},
	})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	err = idx.ReplaceAlignments("A", map[string]lexicon.Alignment{
		"j2": lexicon.ParseAlignment("p ɔ - -"),
	}, "")
	var mismatch *lexicon.AlignmentWidthMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected width mismatch, got %v", err)
	}
	if j, _ := idx.Get("j2"); j.Alignment.String() != "p ɔ" {
		t.Fatalf("failed replacement changed j2 to %q", j.Alignment)
	}
	err = idx.ReplaceAlignments("A", map[string]lexicon.Alignment{
		"j2": lexicon.ParseAlignment("p ɔ -"),
	}, "aligned")
	if err != nil {
		t.Fatalf("ReplaceAlignments: %v", err)
	}
	if widths := idx.Widths("A"); widths["j1"] != 3 || widths["j2"] != 3 {
		t.Fatalf("widths = %v", widths)
	}
}

func TestRestoreRejectsDuplicateIDs(t *testing.T) {
	_, _, idx := newFixture(t)
	err := idx.Restore([]*lexicon.Judgement{
		{ID: "j1", FormID: "F1", CognateSetID: "A"},
		{ID: "j1", FormID: "F2", CognateSetID: "A"},
	})
	if err == nil {
		t.Fatal("expected duplicate ID error")
	}
}

func TestDuplicates(t *testing.T) {
	_, _, idx := newFixture(t)
	_ = idx.Restore([]*lexicon.Judgement{
		{ID: "j1", FormID: "F1", CognateSetID: "A", Slice: lexicon.Slice{{Start: 0, End: 1}}},
		{ID: "j2", FormID: "F1", CognateSetID: "A", Slice: lexicon.Slice{{Start: 2, End: 3}}},
		{ID: "j3", FormID: "F2", CognateSetID: "A"},
	})
	dups := idx.Duplicates("A")
	if len(dups) != 1 || len(dups["F1"]) != 2 {
		t.Fatalf("Duplicates = %v", dups)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	forms, sets, idx := newFixture(t)
	_ = idx.Restore([]*lexicon.Judgement{{ID: "j1", FormID: "F1", CognateSetID: "A"}})
	setsCopy := sets.Clone()
	copyIdx := idx.Clone(forms.Clone(), setsCopy)
	if _, err := copyIdx.Retarget("A", "B", ""); err != nil {
		t.Fatalf("Retarget: %v", err)
	}
	setsCopy.Remove("A")
	if j, _ := idx.Get("j1"); j.CognateSetID != "A" || !sets.Has("A") {
		t.Fatal("clone shares state with the original")
	}
}

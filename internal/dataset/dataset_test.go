package dataset

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"lexcurate/internal/cognates"
	"lexcurate/internal/lexicon"
	"lexcurate/internal/tablestore"
	"lexcurate/internal/testsupport"
)

func fixture(t *testing.T) (*tablestore.Store, *Dataset, string) {
	t.Helper()
	path := testsupport.WriteDataset(t, testsupport.Tables{
		Languages: testsupport.LanguagesHeader + "ache,Aché\n",
		Concepts:  testsupport.ConceptsHeader + "fire,FIRE,221\nwater,WATER,948\n",
		Forms: testsupport.FormsHeader +
			"F1,ache,fire,pɔɾ,p ɔ ɾ,,src1;src2\n" +
			"F2,ache,water;fire,ɨ,a\u0303,,\n" +
			"F3,ache,water,-,,,\n",
		CognateSets: testsupport.CognateSetsHeader + "A,fire,,first,\nB,fire,,second,\n",
		Judgements: testsupport.JudgementsHeader +
			"j1,F1,A,0:2,p ɔ,\n" +
			"j2,F1,B,1:3,ɔ ɾ,\n" +
			"j3,F2,B,x:y,,broken\n",
	})
	store, err := tablestore.Open(path, tablestore.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ds, err := Load(store, Options{Scope: cognates.ScopeDataset})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return store, ds, path
}

func TestLoadBuildsRecords(t *testing.T) {
	_, ds, _ := fixture(t)

	f1, ok := ds.Forms.Form("F1")
	if !ok {
		t.Fatal("F1 missing")
	}
	if strings.Join(f1.Segments, " ") != "p ɔ ɾ" || len(f1.Sources) != 2 || f1.Line != 2 {
		t.Fatalf("unexpected form %+v", f1)
	}
	f2, _ := ds.Forms.Form("F2")
	if len(f2.ConceptIDs) != 2 || f2.Segments[0] != "\u00e3" {
		t.Fatalf("F2 concepts/segments not parsed: %+v", f2)
	}
	if ds.CognateSets.Len() != 2 || ds.Judgements.Len() != 3 {
		t.Fatalf("sets=%d judgements=%d", ds.CognateSets.Len(), ds.Judgements.Len())
	}
	j2, _ := ds.Judgements.Get("j2")
	if j2.Slice.String() != "1:3" || j2.Alignment.String() != "ɔ ɾ" || j2.Line != 3 {
		t.Fatalf("unexpected judgement %+v", j2)
	}
	if c, ok := ds.Concept("fire"); !ok || c.ConcepticonID != "221" {
		t.Fatalf("concept fire = %+v", c)
	}
}

func TestLoadReportsUnparsableCells(t *testing.T) {
	_, ds, _ := fixture(t)
	kinds := map[lexicon.ViolationKind]int{}
	for _, issue := range ds.Issues {
		kinds[issue.Kind]++
	}
	if kinds[lexicon.KindSliceRange] != 1 {
		t.Fatalf("expected one slice issue, got %v", ds.Issues)
	}
	if kinds[lexicon.KindNotNormalized] != 1 {
		t.Fatalf("expected one normalization issue for F2, got %v", ds.Issues)
	}
}

func TestUnparsableSliceIsKeptButUnusable(t *testing.T) {
	_, ds, _ := fixture(t)
	j3, ok := ds.Judgements.Get("j3")
	if !ok {
		t.Fatal("j3 not loaded")
	}
	if !j3.SliceUnparsed() || j3.RawSlice != "x:y" || len(j3.Slice) != 0 {
		t.Fatalf("j3 slice = %q raw %q", j3.Slice, j3.RawSlice)
	}
	if runs := ds.Judgements.UncoveredRuns(mustForm(t, ds, "F2")); len(runs) != 1 {
		t.Fatalf("F2 should stay uncovered, runs = %v", runs)
	}
	j3.Comment = "edited"
	err := ds.Judgements.Upsert(j3, "")
	var consistency *lexicon.ConsistencyError
	if !errors.As(err, &consistency) || consistency.Invariant != lexicon.InvariantSliceRange {
		t.Fatalf("expected slice range error, got %v", err)
	}
	clone := ds.Clone()
	if j, _ := clone.Judgements.Get("j3"); j.RawSlice != "x:y" {
		t.Fatalf("clone lost raw slice: %+v", j)
	}
}

func mustForm(t *testing.T, ds *Dataset, id string) *lexicon.Form {
	t.Helper()
	form, ok := ds.Forms.Form(id)
	if !ok {
		t.Fatalf("form %s not loaded", id)
	}
	return form
}

func TestSaveRoundTripKeepsBrokenCellsAndAddsStatus(t *testing.T) {
	store, ds, path := fixture(t)

	j1, _ := ds.Judgements.Get("j1")
	j1.Comment = "checked"
	if err := ds.Judgements.Upsert(j1, "reviewed"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := ds.Save(store, tablestore.CognateTable); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	got := testsupport.ReadText(t, filepath.Join(filepath.Dir(path), "cognates.csv"))
	want := "ID,Form_ID,Cognateset_ID,Segment_Slice,Alignment,Comment,Status_Column\n" +
		"j1,F1,A,0:2,p ɔ,checked,reviewed\n" +
		"j2,F1,B,1:3,ɔ ɾ,,\n" +
		"j3,F2,B,x:y,,broken,\n"
	if got != want {
		t.Fatalf("cognates.csv =\n%s\nwant\n%s", got, want)
	}
	if strings.Contains(testsupport.ReadText(t, filepath.Join(filepath.Dir(path), "forms.csv")), "Status_Column") {
		t.Fatal("forms.csv should not be rewritten")
	}
}

func TestSaveCreatesCognatesetTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Wordlist-metadata.json")
	testsupport.WriteText(t, path, `{"tables": [
		{"url": "forms.csv", "tableSchema": {"columns": [
			{"name": "ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#id"},
			{"name": "Form", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#form"},
			{"name": "Segments", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#segments"}]}},
		{"url": "cognates.csv", "tableSchema": {"columns": [
			{"name": "ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#id"},
			{"name": "Form_ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#formReference"},
			{"name": "Cognateset_ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#cognatesetReference"}]}}
	]}`)
	testsupport.WriteText(t, filepath.Join(dir, "forms.csv"), "ID,Form,Segments\nF1,ka,k a\n")
	testsupport.WriteText(t, filepath.Join(dir, "cognates.csv"), "ID,Form_ID,Cognateset_ID\nj1,F1,S1\n")

	store, err := tablestore.Open(path, tablestore.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ds, err := Load(store, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ds.CognateSets.Has("S1") {
		t.Fatal("registry should be derived from judgements")
	}
	f1, _ := ds.Forms.Form("F1")
	if len(f1.Segments) != 2 {
		t.Fatalf("segments without declared separator = %v", f1.Segments)
	}
	if err := ds.Save(store); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	got := testsupport.ReadText(t, filepath.Join(dir, "cognatesets.csv"))
	if !strings.HasPrefix(got, "ID,Name,Comment,Source\nS1,") {
		t.Fatalf("cognatesets.csv = %q", got)
	}
}

func TestCloneAndCommit(t *testing.T) {
	_, ds, _ := fixture(t)
	work := ds.Clone()
	if _, err := work.Judgements.Retarget("B", "A", ""); err != nil {
		t.Fatalf("Retarget: %v", err)
	}
	work.CognateSets.Remove("B")
	if !ds.CognateSets.Has("B") || len(ds.Judgements.ForSet("B")) != 2 {
		t.Fatal("clone changes leaked into the original")
	}
	ds.Commit(work)
	if ds.CognateSets.Has("B") || len(ds.Judgements.ForSet("A")) != 3 {
		t.Fatal("commit did not apply the work copy")
	}
}

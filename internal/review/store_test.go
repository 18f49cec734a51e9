package review_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"lexcurate/internal/review"
	"lexcurate/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	store := testsupport.MustOpenReview(t)

	health, err := store.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.TableExists || !health.IntegrityCheck || len(health.MissingColumns) != 0 {
		t.Fatalf("unexpected health %+v", health)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	store, err := review.Open(context.Background(), dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", filepath.Join(dir, review.FileName))
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := review.Open(context.Background(), dir); !errors.Is(err, review.ErrSchemaMismatch) {
		t.Fatalf("Open error = %v, want ErrSchemaMismatch", err)
	}
}

func TestAddListResolveClear(t *testing.T) {
	store := testsupport.MustOpenReview(t)
	ctx := context.Background()

	flags := review.DuplicateFlags("A", map[string][]string{
		"F2": {"j2", "j5"},
		"F1": {"j1", "j4"},
	})
	flags = append(flags, review.MergedFormsFlag("F7", []string{"F8"}))
	ids, err := store.Add(ctx, "run-1", "/data/Wordlist-metadata.json", flags...)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("ids = %v", ids)
	}
	if _, err := store.Add(ctx, "run-2", "/data/Wordlist-metadata.json", review.WidthMismatchFlag("B", []string{"j9"})); err != nil {
		t.Fatalf("Add: %v", err)
	}

	all, err := store.List(ctx, review.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("List returned %d flags", len(all))
	}
	first := all[0]
	if first.Kind != review.KindDuplicateJudgement || first.SubjectID != "A" ||
		!slices.Equal(first.RelatedIDs, []string{"F1", "j1", "j4"}) || first.Status != review.StatusPending {
		t.Fatalf("first flag = %+v", first)
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("created_at not parsed")
	}

	run1, err := store.List(ctx, review.Filter{RunID: "run-1"})
	if err != nil || len(run1) != 3 {
		t.Fatalf("run filter = %d, %v", len(run1), err)
	}

	if err := store.Resolve(ctx, ids[0], "kept both"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	resolved, err := store.Get(ctx, ids[0])
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resolved.Status != review.StatusResolved || resolved.Resolution != "kept both" || resolved.ResolvedAt == nil {
		t.Fatalf("resolved flag = %+v", resolved)
	}

	var notFound *review.NotFoundError
	if err := store.Resolve(ctx, 999, ""); !errors.As(err, &notFound) {
		t.Fatalf("Resolve(999) = %v, want NotFoundError", err)
	}

	n, err := store.ResolveSubject(ctx, "CognatesetTable", "A", "")
	if err != nil || n != 1 {
		t.Fatalf("ResolveSubject = %d, %v", n, err)
	}

	summary, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Pending != 2 || summary.Resolved != 2 || summary.Total != 4 {
		t.Fatalf("summary = %+v", summary)
	}

	cleared, err := store.Clear(ctx, true)
	if err != nil || cleared != 2 {
		t.Fatalf("Clear(resolved) = %d, %v", cleared, err)
	}
	pending, err := store.List(ctx, review.Filter{Status: review.StatusPending})
	if err != nil || len(pending) != 2 {
		t.Fatalf("pending = %d, %v", len(pending), err)
	}
	cleared, err = store.Clear(ctx, false)
	if err != nil || cleared != 2 {
		t.Fatalf("Clear(all) = %d, %v", cleared, err)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    review.Status
		wantErr bool
	}{
		{"", "", false},
		{"all", "", false},
		{"Pending", review.StatusPending, false},
		{"resolved", review.StatusResolved, false},
		{"done", "", true},
	}
	for _, tt := range tests {
		got, err := review.ParseStatus(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, %v", tt.in, got, err)
		}
	}
}

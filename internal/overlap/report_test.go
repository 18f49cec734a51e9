package overlap

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"lexcurate/internal/lexicon"
	"lexcurate/internal/merge"
)

func TestClusterGroupsReadBackAsMergeRequests(t *testing.T) {
	idx, forms := build(t,
		judgement("j1", "F1", "A", 0, 2), judgement("j2", "F1", "B", 1, 3),
		judgement("j3", "F2", "C", 0, 2), judgement("j4", "F2", "D", 1, 4),
	)
	if err := idx.Registry().Update(&lexicon.CognateSet{ID: "A", Name: "fire"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	d, err := NewDetector(idx, forms, Options{Threshold: 0.5})
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}

	groups := ClusterGroups(collect(t, d), idx.Registry())
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if !strings.Contains(groups[0].Header, "on F1") || groups[0].Details[0] != "fire" {
		t.Fatalf("unexpected first group %+v", groups[0])
	}

	var buf bytes.Buffer
	if err := merge.WriteGroups(&buf, groups); err != nil {
		t.Fatalf("WriteGroups: %v", err)
	}
	parsed, err := merge.ParseGroups(&buf)
	if err != nil {
		t.Fatalf("ParseGroups: %v", err)
	}
	reqs := merge.Requests(parsed, false)
	if len(reqs) != 2 || !slices.Equal(reqs[0].Members, []string{"A", "B"}) || !slices.Equal(reqs[1].Members, []string{"C", "D"}) {
		t.Fatalf("unexpected requests %+v", reqs)
	}
}

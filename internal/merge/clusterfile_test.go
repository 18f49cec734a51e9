package merge

import (
	"bytes"
	"slices"
	"strings"
	"testing"
)

func TestParseGroupsReadsEditedReport(t *testing.T) {
	input := "ache, 'etakɾã': Unknown (but at least one concept not found):\n" +
		"\t ache_one (one)\n" +
		"    ache_single_3 (single)\n" +
		"# reviewer: dropped the third form\n" +
		"Cluster of overlapping cognate sets:\n" +
		"\t A\n" +
		"\t B\n" +
		"Lonely:\n" +
		"\t C\n"
	groups, err := ParseGroups(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseGroups: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if !slices.Equal(groups[0].Members, []string{"ache_one", "ache_single_3"}) || groups[0].Details[1] != "single" {
		t.Fatalf("unexpected first group %+v", groups[0])
	}
	reqs := Requests(groups[1:], false)
	if len(reqs) != 1 || reqs[0].Target != "" || !slices.Equal(reqs[0].Members, []string{"A", "B"}) {
		t.Fatalf("unexpected requests %+v", reqs)
	}
	if fr := FormRequests(groups[:1]); fr[0].Target != "ache_one" {
		t.Fatalf("form request target = %q", fr[0].Target)
	}
}

func TestWriteGroupsRoundTrip(t *testing.T) {
	groups := []Group{{Header: "Cluster of overlapping cognate sets:", Members: []string{"A", "B"}, Details: []string{"F1 0:2", ""}}}
	var buf bytes.Buffer
	if err := WriteGroups(&buf, groups); err != nil {
		t.Fatalf("WriteGroups: %v", err)
	}
	if buf.String() != "Cluster of overlapping cognate sets:\n\t A (F1 0:2)\n\t B\n" {
		t.Fatalf("output = %q", buf.String())
	}
	parsed, err := ParseGroups(&buf)
	if err != nil || len(parsed) != 1 || !slices.Equal(parsed[0].Members, groups[0].Members) {
		t.Fatalf("round trip = %+v, %v", parsed, err)
	}
}

package overlap

import (
	"fmt"
	"slices"
	"strings"

	"lexcurate/internal/cognates"
	"lexcurate/internal/merge"
)

// ClusterGroups renders clusters in the cluster-file format that the merge
// command reads back. Member details carry the cognate set name when sets
// is given and the set has one.
func ClusterGroups(clusters []Cluster, sets *cognates.Registry) []merge.Group {
	out := make([]merge.Group, 0, len(clusters))
	for i, c := range clusters {
		g := merge.Group{Header: fmt.Sprintf("Cluster %d: %d cognate sets overlap on %s",
			i+1, len(c.Members), strings.Join(c.Forms(), ", "))}
		for _, id := range c.Members {
			detail := ""
			if sets != nil {
				if set, ok := sets.Get(id); ok {
					detail = set.Name
				}
			}
			g.Members = append(g.Members, id)
			g.Details = append(g.Details, detail)
		}
		out = append(out, g)
	}
	return out
}

// Forms lists the distinct forms on which the cluster's sets overlap.
func (c Cluster) Forms() []string {
	var forms []string
	for _, e := range c.Edges {
		if !slices.Contains(forms, e.FormID) {
			forms = append(forms, e.FormID)
		}
	}
	return forms
}

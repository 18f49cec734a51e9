package conceptgraph

import "lexcurate/internal/lexicon"

// Concepts answers graph questions in terms of dataset concept IDs, mapping
// each concept to the node named by its Concepticon reference.
type Concepts struct {
	graph *Graph
	nodes map[string]string
}

// Bind maps concepts onto g. A nil graph yields a view in which no concept
// is mapped.
func Bind(g *Graph, concepts []*lexicon.Concept) *Concepts {
	c := &Concepts{graph: g, nodes: make(map[string]string, len(concepts))}
	if g == nil {
		return c
	}
	for _, concept := range concepts {
		if concept.ConcepticonID != "" && g.Has(concept.ConcepticonID) {
			c.nodes[concept.ID] = concept.ConcepticonID
		}
	}
	return c
}

// Node returns the graph node of a concept.
func (c *Concepts) Node(conceptID string) (string, bool) {
	node, ok := c.nodes[conceptID]
	return node, ok
}

// Maps reports whether every concept has a node in the graph.
func (c *Concepts) Maps(conceptIDs ...string) bool {
	for _, id := range conceptIDs {
		if _, ok := c.nodes[id]; !ok {
			return false
		}
	}
	return true
}

// Related reports whether two concepts are adjacent in the graph.
func (c *Concepts) Related(a, b string) bool {
	na, aok := c.nodes[a]
	nb, bok := c.nodes[b]
	if !aok || !bok {
		return false
	}
	return c.graph.Related(na, nb)
}

// Connected reports whether the mapped concepts form a connected subgraph.
func (c *Concepts) Connected(conceptIDs []string) bool {
	if c.graph == nil {
		return false
	}
	return c.graph.Connected(c.labels(conceptIDs))
}

// SubgraphCentrality returns the betweenness centrality of each mapped
// concept inside the subgraph induced by all mapped concepts. Concepts
// sharing a node share its centrality.
func (c *Concepts) SubgraphCentrality(conceptIDs []string) map[string]float64 {
	out := make(map[string]float64)
	if c.graph == nil {
		return out
	}
	byNode := c.graph.SubgraphCentrality(c.labels(conceptIDs))
	for _, id := range conceptIDs {
		if node, ok := c.nodes[id]; ok {
			out[id] = byNode[node]
		}
	}
	return out
}

// MappedNodes returns the distinct nodes of the mapped concepts.
func (c *Concepts) MappedNodes(conceptIDs []string) []string {
	return c.labels(conceptIDs)
}

func (c *Concepts) labels(conceptIDs []string) []string {
	seen := make(map[string]bool, len(conceptIDs))
	var out []string
	for _, id := range conceptIDs {
		node, ok := c.nodes[id]
		if !ok || seen[node] {
			continue
		}
		seen[node] = true
		out = append(out, node)
	}
	return out
}

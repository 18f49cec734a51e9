// Package conceptgraph loads a concept-relatedness graph, such as a
// colexification network keyed by Concepticon IDs, and answers relatedness
// and centrality questions about groups of concepts.
package conceptgraph

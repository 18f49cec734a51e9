package conceptgraph

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Graph is an undirected graph over string node labels.
type Graph struct {
	g      *simple.WeightedUndirectedGraph
	ids    map[string]int64
	labels map[int64]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		g:      simple.NewWeightedUndirectedGraph(0, 0),
		ids:    make(map[string]int64),
		labels: make(map[int64]string),
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.ids)
}

// Has reports whether label is a node of the graph.
func (g *Graph) Has(label string) bool {
	_, ok := g.ids[label]
	return ok
}

// AddNode adds label if it is not present yet.
func (g *Graph) AddNode(label string) {
	g.node(label)
}

// AddEdge links a and b. Self loops are ignored; repeated edges add up
// their weights.
func (g *Graph) AddEdge(a, b string, weight float64) {
	u, v := g.node(a), g.node(b)
	if u.ID() == v.ID() {
		return
	}
	if existing := g.g.WeightedEdge(u.ID(), v.ID()); existing != nil {
		weight += existing.Weight()
	}
	g.g.SetWeightedEdge(g.g.NewWeightedEdge(u, v, weight))
}

func (g *Graph) node(label string) graph.Node {
	if id, ok := g.ids[label]; ok {
		return g.g.Node(id)
	}
	n := g.g.NewNode()
	g.g.AddNode(n)
	g.ids[label] = n.ID()
	g.labels[n.ID()] = label
	return n
}

// Related reports whether a and b are adjacent.
func (g *Graph) Related(a, b string) bool {
	u, uok := g.ids[a]
	v, vok := g.ids[b]
	if !uok || !vok || u == v {
		return false
	}
	return g.g.HasEdgeBetween(u, v)
}

// Weight returns the weight of the edge between a and b.
func (g *Graph) Weight(a, b string) (float64, bool) {
	u, uok := g.ids[a]
	v, vok := g.ids[b]
	if !uok || !vok {
		return 0, false
	}
	e := g.g.WeightedEdge(u, v)
	if e == nil {
		return 0, false
	}
	return e.Weight(), true
}

// Subgraph returns the subgraph induced by the given labels. Unknown labels
// are skipped.
func (g *Graph) Subgraph(labels []string) *Graph {
	sub := New()
	var present []string
	for _, label := range labels {
		if g.Has(label) && !sub.Has(label) {
			sub.AddNode(label)
			present = append(present, label)
		}
	}
	for i, a := range present {
		for _, b := range present[i+1:] {
			if w, ok := g.Weight(a, b); ok {
				sub.AddEdge(a, b, w)
			}
		}
	}
	return sub
}

// Connected reports whether the subgraph induced by labels is connected.
// Unknown labels are skipped; an empty subgraph is not connected.
func (g *Graph) Connected(labels []string) bool {
	sub := g.Subgraph(labels)
	if sub.Len() == 0 {
		return false
	}
	return len(topo.ConnectedComponents(sub.g)) == 1
}

// SubgraphCentrality returns the normalized betweenness centrality of each
// known label inside the subgraph induced by labels. Labels without shortest
// paths through them map to 0.
func (g *Graph) SubgraphCentrality(labels []string) map[string]float64 {
	sub := g.Subgraph(labels)
	out := make(map[string]float64, sub.Len())
	for label := range sub.ids {
		out[label] = 0
	}
	n := float64(sub.Len())
	if n < 3 {
		return out
	}
	// Betweenness sums over ordered pairs, which for an undirected graph
	// counts every pair twice.
	scale := (n - 1) * (n - 2)
	for id, value := range network.Betweenness(sub.g) {
		out[sub.labels[id]] = value / scale
	}
	return out
}

// Labels returns all node labels in sorted order.
func (g *Graph) Labels() []string {
	out := make([]string, 0, len(g.ids))
	for label := range g.ids {
		out = append(out, label)
	}
	slices.Sort(out)
	return out
}

// Read parses an edge list: CSV rows of source, target and an optional
// weight. A leading header row naming source and target is skipped, as are
// lines starting with '#'.
func Read(r io.Reader) (*Graph, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	g := New()
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read concept graph: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("concept graph line %d: want source,target[,weight]", line)
		}
		source := strings.TrimSpace(record[0])
		target := strings.TrimSpace(record[1])
		if source == "" || target == "" {
			return nil, fmt.Errorf("concept graph line %d: empty node", line)
		}
		weight := 1.0
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			weight, err = strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("concept graph line %d: weight: %w", line, err)
			}
		}
		g.AddEdge(source, target, weight)
	}
	return g, nil
}

func isHeader(record []string) bool {
	return len(record) >= 2 &&
		strings.EqualFold(strings.TrimSpace(record[0]), "source") &&
		strings.EqualFold(strings.TrimSpace(record[1]), "target")
}

// Load reads an edge list file.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open concept graph: %w", err)
	}
	defer f.Close()
	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/mvp-joe/csplice/internal/extract"
)

var (
	// ErrSelfLoop indicates an edge from a node to itself.
	ErrSelfLoop = errors.New("self-loop edge")

	// ErrUnknownNode indicates an edge endpoint that is not in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNode indicates two elements with the same identity.
	ErrDuplicateNode = errors.New("duplicate node")
)

// Edge means From must appear before To in the output.
type Edge struct {
	From string
	To   string
}

// DependencyGraph is a directed graph over CodeElement identities whose edges
// encode a "must precede" relation.
type DependencyGraph struct {
	g      graph.Graph[string, extract.CodeElement]
	origin map[string]int // ID -> OriginLine, for deterministic ordering
}

// New creates an empty DependencyGraph.
func New() *DependencyGraph {
	return &DependencyGraph{
		g:      graph.New(func(e extract.CodeElement) string { return e.ID }, graph.Directed()),
		origin: make(map[string]int),
	}
}

// AddNode adds an element. Each identity may be added once.
func (d *DependencyGraph) AddNode(e extract.CodeElement) error {
	if err := d.g.AddVertex(e); err != nil {
		if errors.Is(err, graph.ErrVertexAlreadyExists) {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, e.ID)
		}
		return fmt.Errorf("failed to add node %s: %w", e.ID, err)
	}
	d.origin[e.ID] = e.OriginLine
	return nil
}

// AddEdge records that from must precede to. Adding an existing edge is a no-op.
func (d *DependencyGraph) AddEdge(from, to string) error {
	if from == to {
		return fmt.Errorf("%w: %s", ErrSelfLoop, from)
	}
	for _, id := range []string{from, to} {
		if _, ok := d.origin[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
	}
	if err := d.g.AddEdge(from, to); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return fmt.Errorf("failed to add edge %s -> %s: %w", from, to, err)
	}
	return nil
}

// Len returns the number of nodes.
func (d *DependencyGraph) Len() int {
	return len(d.origin)
}

// Node returns the element with the given identity.
func (d *DependencyGraph) Node(id string) (extract.CodeElement, bool) {
	e, err := d.g.Vertex(id)
	if err != nil {
		return extract.CodeElement{}, false
	}
	return e, true
}

// Nodes returns all elements in ascending OriginLine order.
func (d *DependencyGraph) Nodes() []extract.CodeElement {
	nodes := make([]extract.CodeElement, 0, len(d.origin))
	for _, id := range d.sortedIDs() {
		e, _ := d.g.Vertex(id)
		nodes = append(nodes, e)
	}
	return nodes
}

// Edges returns all edges ordered by the origin of their endpoints.
func (d *DependencyGraph) Edges() []Edge {
	raw, err := d.g.Edges()
	if err != nil {
		return nil
	}
	edges := make([]Edge, 0, len(raw))
	for _, e := range raw {
		edges = append(edges, Edge{From: e.Source, To: e.Target})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return d.origin[edges[i].From] < d.origin[edges[j].From]
		}
		return d.origin[edges[i].To] < d.origin[edges[j].To]
	})
	return edges
}

func (d *DependencyGraph) sortedIDs() []string {
	ids := make([]string, 0, len(d.origin))
	for id := range d.origin {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return d.less(ids[i], ids[j]) })
	return ids
}

// less orders identities by extraction position.
func (d *DependencyGraph) less(a, b string) bool {
	if d.origin[a] != d.origin[b] {
		return d.origin[a] < d.origin[b]
	}
	return a < b
}

// Build creates the graph for elements given in extraction order.
//
// Edges follow a linear chain: every element must precede the next one. This
// stands in for real dependency inference; no call-graph analysis is done.
func Build(elements []extract.CodeElement) (*DependencyGraph, error) {
	d := New()
	for _, e := range elements {
		if err := d.AddNode(e); err != nil {
			return nil, err
		}
	}
	for i := 0; i+1 < len(elements); i++ {
		if err := d.AddEdge(elements[i].ID, elements[i+1].ID); err != nil {
			return nil, err
		}
	}
	return d, nil
}

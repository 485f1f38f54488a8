package depgraph

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when the ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [Graph.AddEdge] for an edge from a node to itself.
	ErrSelfLoop = errors.New("self-loop")
)

// Metadata stores annotations on nodes and edges, such as the resolved
// version or the instability value. It never affects graph structure.
type Metadata map[string]any

// Handle is a node's dense index, valid only for the graph that issued it.
type Handle int

// Edge is a directed dependency: From depends on To.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph without self-loops or parallel edges.
// The zero value is not usable; use [New]. Not safe for concurrent mutation.
type Graph struct {
	ids      []string
	handles  map[string]Handle
	out      [][]Handle
	in       [][]Handle
	nodeMeta []Metadata
	edgeMeta map[[2]Handle]Metadata
	edges    int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		handles:  make(map[string]Handle),
		edgeMeta: make(map[[2]Handle]Metadata),
	}
}

// AddNode adds a node and returns its handle.
func (g *Graph) AddNode(id string) (Handle, error) {
	if id == "" {
		return 0, ErrInvalidNodeID
	}
	if _, ok := g.handles[id]; ok {
		return 0, ErrDuplicateNodeID
	}
	return g.ensure(id), nil
}

func (g *Graph) ensure(id string) Handle {
	if h, ok := g.handles[id]; ok {
		return h
	}
	h := Handle(len(g.ids))
	g.ids = append(g.ids, id)
	g.handles[id] = h
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	g.nodeMeta = append(g.nodeMeta, Metadata{})
	return h
}

// AddEdge adds from→to. Adding an existing edge is a no-op.
func (g *Graph) AddEdge(from, to string) error {
	f, ok := g.handles[from]
	if !ok {
		return ErrUnknownSourceNode
	}
	t, ok := g.handles[to]
	if !ok {
		return ErrUnknownTargetNode
	}
	if f == t {
		return ErrSelfLoop
	}
	if slices.Contains(g.out[f], t) {
		return nil
	}
	g.out[f] = append(g.out[f], t)
	g.in[t] = append(g.in[t], f)
	g.edges++
	return nil
}

// SetEdges replaces all outgoing edges of from with edges to targets, in
// order. Unknown targets, self-loops and repeats are skipped.
func (g *Graph) SetEdges(from string, targets []string) error {
	f, ok := g.handles[from]
	if !ok {
		return ErrUnknownSourceNode
	}
	for _, t := range g.out[f] {
		g.in[t] = slices.DeleteFunc(g.in[t], func(h Handle) bool { return h == f })
		delete(g.edgeMeta, [2]Handle{f, t})
	}
	g.edges -= len(g.out[f])
	g.out[f] = nil
	for _, to := range targets {
		_ = g.AddEdge(from, to)
	}
	return nil
}

// Handle returns the handle of id.
func (g *Graph) Handle(id string) (Handle, bool) {
	h, ok := g.handles[id]
	return h, ok
}

// ID returns the identity of h. It panics if h was not issued by g.
func (g *Graph) ID(h Handle) string { return g.ids[h] }

// Has reports whether id is a node.
func (g *Graph) Has(id string) bool {
	_, ok := g.handles[id]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Nodes returns node identities in handle order.
func (g *Graph) Nodes() []string { return append(make([]string, 0, len(g.ids)), g.ids...) }

// Edges returns all edges grouped by source in handle order, each source's
// targets in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for f, targets := range g.out {
		for _, t := range targets {
			out = append(out, Edge{From: g.ids[f], To: g.ids[t]})
		}
	}
	return out
}

// Successors returns the dependencies of id in insertion order.
func (g *Graph) Successors(id string) []string {
	h, ok := g.handles[id]
	if !ok {
		return nil
	}
	return g.names(g.out[h])
}

// Predecessors returns the dependants of id in insertion order.
func (g *Graph) Predecessors(id string) []string {
	h, ok := g.handles[id]
	if !ok {
		return nil
	}
	return g.names(g.in[h])
}

// SuccessorHandles returns the successor handles of h. The slice must not be modified.
func (g *Graph) SuccessorHandles(h Handle) []Handle { return g.out[h] }

// OutDegree returns the number of dependencies of id; 0 for unknown nodes.
func (g *Graph) OutDegree(id string) int {
	if h, ok := g.handles[id]; ok {
		return len(g.out[h])
	}
	return 0
}

// InDegree returns the number of dependants of id; 0 for unknown nodes.
func (g *Graph) InDegree(id string) int {
	if h, ok := g.handles[id]; ok {
		return len(g.in[h])
	}
	return 0
}

// NodeMeta returns the metadata map of id, or nil for unknown nodes.
// The returned map can be modified.
func (g *Graph) NodeMeta(id string) Metadata {
	if h, ok := g.handles[id]; ok {
		return g.nodeMeta[h]
	}
	return nil
}

// EdgeMeta returns the metadata map of from→to, creating it on first use.
// Returns nil if the edge does not exist.
func (g *Graph) EdgeMeta(from, to string) Metadata {
	f, ok1 := g.handles[from]
	t, ok2 := g.handles[to]
	if !ok1 || !ok2 || !slices.Contains(g.out[f], t) {
		return nil
	}
	key := [2]Handle{f, t}
	m, ok := g.edgeMeta[key]
	if !ok {
		m = Metadata{}
		g.edgeMeta[key] = m
	}
	return m
}

// Clone returns a deep copy of the structure. Metadata maps are copied one level deep.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		ids:      slices.Clone(g.ids),
		handles:  maps.Clone(g.handles),
		out:      make([][]Handle, len(g.out)),
		in:       make([][]Handle, len(g.in)),
		nodeMeta: make([]Metadata, len(g.nodeMeta)),
		edgeMeta: make(map[[2]Handle]Metadata, len(g.edgeMeta)),
		edges:    g.edges,
	}
	for i := range g.out {
		c.out[i] = slices.Clone(g.out[i])
		c.in[i] = slices.Clone(g.in[i])
		c.nodeMeta[i] = maps.Clone(g.nodeMeta[i])
	}
	for k, m := range g.edgeMeta {
		c.edgeMeta[k] = maps.Clone(m)
	}
	return c
}

func (g *Graph) names(hs []Handle) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = g.ids[h]
	}
	return out
}

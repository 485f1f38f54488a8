package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/repograph/pkg/depgraph"
)

type graph struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID   string            `json:"id"`
	Meta depgraph.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From string            `json:"from"`
	To   string            `json:"to"`
	Meta depgraph.Metadata `json:"meta,omitempty"`
}

// WriteJSON encodes g with its node and edge metadata and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *depgraph.Graph, w io.Writer) error {
	edges := g.Edges()
	out := graph{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, len(edges)),
	}
	for _, id := range g.Nodes() {
		out.Nodes = append(out.Nodes, node{ID: id, Meta: g.NodeMeta(id)})
	}
	for _, e := range edges {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To, Meta: g.EdgeMeta(e.From, e.To)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *depgraph.Graph, path string) error {
	return writeFileAtomic(path, func(w io.Writer) error { return WriteJSON(g, w) })
}

// ReadJSON decodes a graph written by [WriteJSON]. Errors name the node or
// edge that could not be added and wrap the [depgraph] sentinel errors.
func ReadJSON(r io.Reader) (*depgraph.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := depgraph.New()
	for _, n := range data.Nodes {
		if _, err := g.AddNode(n.ID); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		for k, v := range n.Meta {
			g.NodeMeta(n.ID)[k] = v
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
		if len(e.Meta) > 0 {
			m := g.EdgeMeta(e.From, e.To)
			for k, v := range e.Meta {
				m[k] = v
			}
		}
	}
	return g, nil
}

// ImportJSON reads a graph JSON file at path.
func ImportJSON(path string) (*depgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

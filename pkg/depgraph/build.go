package depgraph

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matzehuels/repograph/pkg/deps"
)

// Node metadata keys set by [Build].
const (
	MetaLatest     = "latest"
	MetaDescriptor = "descriptor"
)

// Build constructs the dependency graph of records. Nodes are the
// records' project identities in first-seen order. Each record replaces
// the outgoing edges of its node with its dependencies that are
// themselves records, excluding itself.
func Build(records []*deps.Record) *Graph {
	g := New()
	universe := mapset.NewThreadUnsafeSet[string]()
	for _, r := range records {
		id := r.ProjectID()
		universe.Add(id)
		g.ensure(id)
	}

	for _, r := range records {
		src := r.ProjectID()
		targets := make([]string, 0, len(r.Dependencies))
		for _, d := range r.Dependencies {
			if id := d.ProjectID(); id != src && universe.Contains(id) {
				targets = append(targets, id)
			}
		}
		_ = g.SetEdges(src, targets)

		meta := g.NodeMeta(src)
		meta[MetaLatest] = r.Latest
		meta[MetaDescriptor] = r.DescriptorURL
	}
	return g
}

package analysis

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repograph/pkg/depgraph"
)

// TopN is the length of the ranked lists in [Stats].
const TopN = 5

// Ranked is a node with its degree.
type Ranked struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Stats summarizes the connectivity of a graph.
type Stats struct {
	Projects         int      `json:"projects"`
	Dependencies     int      `json:"dependencies"`
	Orphans          int      `json:"orphans"`           // no edges at all
	Connected        int      `json:"connected"`         // at least one edge
	DependantsOnly   int      `json:"dependants_only"`   // incoming edges only
	DependenciesOnly int      `json:"dependencies_only"` // outgoing edges only
	MostDependants   []Ranked `json:"most_dependants"`
	MostDependencies []Ranked `json:"most_dependencies"`
}

// ComputeStats counts node categories of g and ranks the TopN nodes by
// in-degree and by out-degree. Ties are broken by ID. Nodes with degree
// zero are never ranked.
func ComputeStats(g *depgraph.Graph) Stats {
	s := Stats{Projects: g.NodeCount(), Dependencies: g.EdgeCount()}
	var ins, outs []Ranked
	for _, id := range g.Nodes() {
		in, out := g.InDegree(id), g.OutDegree(id)
		switch {
		case in == 0 && out == 0:
			s.Orphans++
		case out == 0:
			s.DependantsOnly++
		case in == 0:
			s.DependenciesOnly++
		}
		if in > 0 {
			ins = append(ins, Ranked{id, in})
		}
		if out > 0 {
			outs = append(outs, Ranked{id, out})
		}
	}
	s.Connected = s.Projects - s.Orphans
	s.MostDependants = top(ins)
	s.MostDependencies = top(outs)
	return s
}

func top(rs []Ranked) []Ranked {
	slices.SortFunc(rs, func(a, b Ranked) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return rs[:min(TopN, len(rs))]
}

// Log writes s to logger, one line per figure.
func (s Stats) Log(logger *log.Logger, name string) {
	logger.Info("number of projects", "graph", name, "count", s.Projects)
	logger.Info("number of dependencies", "graph", name, "count", s.Dependencies)
	logger.Info("projects with no visible dependencies", "graph", name, "count", s.Orphans)
	logger.Info("projects with dependency connection", "graph", name, "count", s.Connected)
	logger.Info("projects with dependants only", "graph", name, "count", s.DependantsOnly)
	logger.Info("projects with dependencies only", "graph", name, "count", s.DependenciesOnly)
	logger.Info("projects with most direct dependants", "graph", name, "top", s.MostDependants)
	logger.Info("projects with most direct dependencies", "graph", name, "top", s.MostDependencies)
}

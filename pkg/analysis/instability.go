package analysis

import (
	"math"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repograph/pkg/depgraph"
)

// Metadata keys written by [Annotate].
const (
	MetaInstability = "instability"
	MetaViolation   = "violation"
	MetaColor       = "color"
)

// ViolationColor is the edge color of stable-dependencies violations.
const ViolationColor = "red"

// Violation is an edge from a more stable to a less stable node.
type Violation struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	SourceInst  float64 `json:"source_instability"`
	DestInst    float64 `json:"destination_instability"`
}

// String returns "source->destination".
func (v Violation) String() string { return v.Source + "->" + v.Destination }

// Instability computes the instability of every node of g.
func Instability(g *depgraph.Graph) map[string]float64 {
	inst := make(map[string]float64, g.NodeCount())
	for _, id := range g.Nodes() {
		inst[id] = instability(g.InDegree(id), g.OutDegree(id))
	}
	return inst
}

func instability(in, out int) float64 {
	if in+out == 0 {
		return 1
	}
	return math.Round(float64(out)/float64(in+out)*1000) / 1000
}

// Violations returns every edge (s, d) of g with inst[s] < inst[d], in
// edge enumeration order.
func Violations(g *depgraph.Graph, inst map[string]float64) []Violation {
	var out []Violation
	for _, e := range g.Edges() {
		s, d := inst[e.From], inst[e.To]
		if s < d {
			out = append(out, Violation{Source: e.From, Destination: e.To, SourceInst: s, DestInst: d})
		}
	}
	return out
}

// LogViolations logs the violation count and then each violation.
func LogViolations(logger *log.Logger, name string, vs []Violation) {
	logger.Info("SDP violations found", "graph", name, "count", len(vs))
	for _, v := range vs {
		logger.Info("SDP violation", "graph", name, "edge", v.String())
	}
}

// Annotate records inst on each node and marks violating edges.
// Existing annotations of the same keys are overwritten.
func Annotate(g *depgraph.Graph, inst map[string]float64, vs []Violation) {
	for _, id := range g.Nodes() {
		g.NodeMeta(id)[MetaInstability] = inst[id]
	}
	for _, e := range g.Edges() {
		m := g.EdgeMeta(e.From, e.To)
		delete(m, MetaViolation)
		delete(m, MetaColor)
	}
	for _, v := range vs {
		if m := g.EdgeMeta(v.Source, v.Destination); m != nil {
			m[MetaViolation] = true
			m[MetaColor] = ViolationColor
		}
	}
}

// FormatInstability renders v with the fewest digits that round-trip,
// e.g. "1", "0.5", "0.333".
func FormatInstability(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

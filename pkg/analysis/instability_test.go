package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/repograph/pkg/depgraph"
)

// graphOf builds a graph from "from->to" pairs plus isolated nodes.
func graphOf(t *testing.T, nodes []string, edges [][2]string) *depgraph.Graph {
	t.Helper()
	g := depgraph.New()
	for _, n := range nodes {
		if _, err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%q): %v", n, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%q, %q): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestInstability(t *testing.T) {
	// X isolated, Y has in=2 out=0, Z has in=1 out=1.
	g := graphOf(t,
		[]string{"X", "Y", "Z", "W"},
		[][2]string{{"Z", "Y"}, {"W", "Y"}, {"W", "Z"}})

	want := map[string]float64{
		"X": 1,
		"Y": 0,
		"Z": 0.5,
		"W": 1,
	}
	if diff := cmp.Diff(want, Instability(g)); diff != "" {
		t.Errorf("Instability mismatch (-want +got):\n%s", diff)
	}
}

func TestInstabilityRounding(t *testing.T) {
	tests := []struct {
		in, out int
		want    float64
	}{
		{0, 0, 1},
		{2, 1, 0.333},
		{1, 2, 0.667},
		{5, 0, 0},
		{0, 3, 1},
		{4, 3, 0.429},
	}
	for _, tt := range tests {
		got := instability(tt.in, tt.out)
		if got != tt.want {
			t.Errorf("instability(%d, %d) = %v, want %v", tt.in, tt.out, got, tt.want)
		}
		if got < 0 || got > 1 {
			t.Errorf("instability(%d, %d) = %v out of range", tt.in, tt.out, got)
		}
	}
}

func TestViolations(t *testing.T) {
	inst := map[string]float64{"P": 0.2, "Q": 0.8, "R": 0.8}
	g := graphOf(t,
		[]string{"P", "Q", "R"},
		[][2]string{{"Q", "P"}, {"P", "Q"}, {"Q", "R"}, {"P", "R"}})

	got := Violations(g, inst)
	want := []Violation{
		{Source: "P", Destination: "Q", SourceInst: 0.2, DestInst: 0.8},
		{Source: "P", Destination: "R", SourceInst: 0.2, DestInst: 0.8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Violations mismatch (-want +got):\n%s", diff)
	}
	if got[0].String() != "P->Q" {
		t.Errorf("String() = %q", got[0].String())
	}
}

func TestViolationsComputed(t *testing.T) {
	// core is depended on by app and lib and depends on util, which nobody
	// else uses: util (I=0) is more stable than core (I=0.333).
	g := graphOf(t,
		[]string{"app", "lib", "core", "util"},
		[][2]string{{"app", "core"}, {"lib", "core"}, {"core", "util"}, {"util", "lib"}})
	inst := Instability(g)
	vs := Violations(g, inst)

	for _, v := range vs {
		if !(inst[v.Source] < inst[v.Destination]) {
			t.Errorf("%s flagged but %v >= %v", v, inst[v.Source], inst[v.Destination])
		}
	}
	flagged := map[string]bool{}
	for _, v := range vs {
		flagged[v.String()] = true
	}
	for _, e := range g.Edges() {
		key := e.From + "->" + e.To
		if inst[e.From] < inst[e.To] && !flagged[key] {
			t.Errorf("%s not flagged", key)
		}
	}
}

func TestAnnotate(t *testing.T) {
	g := graphOf(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
	inst := map[string]float64{"a": 0.1, "b": 0.9}
	Annotate(g, inst, Violations(g, inst))

	if g.NodeMeta("a")[MetaInstability] != 0.1 {
		t.Errorf("a instability = %v", g.NodeMeta("a")[MetaInstability])
	}
	if g.EdgeMeta("a", "b")[MetaColor] != ViolationColor {
		t.Errorf("a->b color = %v", g.EdgeMeta("a", "b")[MetaColor])
	}
	if _, ok := g.EdgeMeta("b", "a")[MetaColor]; ok {
		t.Error("b->a should not be colored")
	}

	// Re-annotating with no violations clears the marks.
	Annotate(g, inst, nil)
	if _, ok := g.EdgeMeta("a", "b")[MetaViolation]; ok {
		t.Error("stale violation mark after re-annotation")
	}
}

func TestFormatInstability(t *testing.T) {
	for v, want := range map[float64]string{1: "1", 0.5: "0.5", 0.333: "0.333", 0: "0"} {
		if got := FormatInstability(v); got != want {
			t.Errorf("FormatInstability(%v) = %q, want %q", v, got, want)
		}
	}
}

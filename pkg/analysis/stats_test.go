package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeStats(t *testing.T) {
	g := graphOf(t,
		[]string{"app", "cli", "lib", "core", "lonely"},
		[][2]string{{"app", "lib"}, {"app", "core"}, {"cli", "core"}, {"lib", "core"}})

	want := Stats{
		Projects:         5,
		Dependencies:     4,
		Orphans:          1,
		Connected:        4,
		DependantsOnly:   1,
		DependenciesOnly: 2,
		MostDependants:   []Ranked{{"core", 3}, {"lib", 1}},
		MostDependencies: []Ranked{{"app", 2}, {"cli", 1}, {"lib", 1}},
	}
	if diff := cmp.Diff(want, ComputeStats(g)); diff != "" {
		t.Errorf("ComputeStats mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeStatsTopN(t *testing.T) {
	nodes := []string{"hub", "a", "b", "c", "d", "e", "f"}
	var edges [][2]string
	for _, n := range nodes[1:] {
		edges = append(edges, [2]string{n, "hub"})
	}
	s := ComputeStats(graphOf(t, nodes, edges))
	if len(s.MostDependencies) != TopN {
		t.Errorf("MostDependencies has %d entries, want %d", len(s.MostDependencies), TopN)
	}
	if s.MostDependencies[0].ID != "a" {
		t.Errorf("ties should break by ID, got %v", s.MostDependencies)
	}
}

package analysis

import (
	"errors"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matzehuels/repograph/pkg/depgraph"
)

// ErrTooManyCycles is returned with a partial result when
// [CycleOptions.MaxCycles] is exceeded.
var ErrTooManyCycles = errors.New("too many cycles")

// Cycle is a closed path: its first and last elements are equal and the
// first is the smallest member.
type Cycle []string

// Len returns the number of edges in the cycle.
func (c Cycle) Len() int { return max(len(c)-1, 0) }

// String returns the cycle joined by " -> ".
func (c Cycle) String() string { return strings.Join(c, " -> ") }

// CycleOptions bounds the search. The zero value is unbounded.
type CycleOptions struct {
	// MaxLength skips cycles with more edges than this. 0 means no limit.
	MaxLength int
	// MaxCycles stops the search when a cycle beyond this many is found;
	// the first MaxCycles are returned with [ErrTooManyCycles]. 0 means no limit.
	MaxCycles int
}

type frame struct {
	node depgraph.Handle
	next int // index of the next successor to explore
}

// Cycles enumerates every simple cycle of g, sorted lexicographically.
// The search from each start node is an explicit-stack depth-first walk
// over paths that never revisit a node.
func Cycles(g *depgraph.Graph, opts CycleOptions) ([]Cycle, error) {
	seen := mapset.NewThreadUnsafeSet[string]()
	var found []Cycle
	onPath := make([]bool, g.NodeCount())

	for s := range g.NodeCount() {
		start := depgraph.Handle(s)
		path := []depgraph.Handle{start}
		stack := []frame{{node: start}}
		onPath[start] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succ := g.SuccessorHandles(top.node)
			if top.next == len(succ) {
				onPath[top.node] = false
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
				continue
			}
			child := succ[top.next]
			top.next++

			if child == start {
				c := canonical(g, path)
				if !seen.Add(strings.Join(c, "\x00")) {
					continue
				}
				if opts.MaxCycles > 0 && len(found) == opts.MaxCycles {
					sortCycles(found)
					return found, ErrTooManyCycles
				}
				found = append(found, c)
				continue
			}
			if onPath[child] {
				continue
			}
			if opts.MaxLength > 0 && len(path) >= opts.MaxLength {
				continue
			}
			onPath[child] = true
			path = append(path, child)
			stack = append(stack, frame{node: child})
		}
	}
	sortCycles(found)
	return found, nil
}

// canonical rotates path to start at its smallest ID and closes it.
func canonical(g *depgraph.Graph, path []depgraph.Handle) Cycle {
	ids := make([]string, len(path))
	minAt := 0
	for i, h := range path {
		ids[i] = g.ID(h)
		if ids[i] < ids[minAt] {
			minAt = i
		}
	}
	c := slices.Concat(ids[minAt:], ids[:minAt])
	return append(c, c[0])
}

func sortCycles(cs []Cycle) {
	slices.SortFunc(cs, func(a, b Cycle) int { return slices.Compare(a, b) })
}

// Package analysis computes architectural-quality metrics over a
// [depgraph.Graph].
//
// # Instability
//
// [Instability] assigns every node the ratio out/(in+out) of its outgoing
// edges to all its edges, rounded to three decimals. Degrees are counted
// over the whole graph. A node without edges scores 1.
//
// # Stable-dependencies violations
//
// [Violations] reports every edge whose source is strictly less unstable
// than its target, in the graph's edge enumeration order. Equal values are
// never a violation.
//
// # Cycles
//
// [Cycles] enumerates every simple directed cycle. Each cycle is reported
// once, rotated to start at its lexicographically smallest member and
// closed by repeating that member. Direction is kept: a→b→c→a and
// a→c→b→a are distinct cycles. The search is exponential in the worst
// case; [CycleOptions] can bound it.
package analysis

// Package depgraph provides the directed dependency graph among the
// artifacts of one repository.
//
// # Overview
//
// Nodes are project identities ("group/artifact"). Internally every node
// is addressed by a dense integer [Handle] assigned in insertion order; the
// identity-to-handle table is built once and is bijective, so algorithms
// can keep per-node state in slices instead of maps.
//
// # Building
//
// [Build] turns resolved records into a graph under three rules:
//
//   - Closed world: an edge is kept only if its target is itself one of
//     the records. Dependencies on artifacts published elsewhere are dropped.
//   - No self-edges: an artifact depending on itself contributes nothing.
//   - Last write wins: if two records share a project identity, the edges
//     of the later record replace those of the earlier one.
//
// # Enumeration order
//
// [Graph.Nodes] returns nodes in handle order and [Graph.Edges] returns
// edges grouped by source in handle order, targets in insertion order.
// Derived results such as stable-dependency violations inherit this order.
package depgraph

package algorithms

import (
	"context"

	"minflow/pkg/domain"
)

// =============================================================================
// Bellman-Ford Algorithm
// =============================================================================
//
// Bellman-Ford computes shortest paths from a single source in a graph
// that may carry negative edge costs, and detects negative cycles. The
// cycle-canceling solver runs it on residual graphs, where every reverse
// edge has a negative cost: a negative cycle there is exactly a set of
// flow redirections that lowers the total cost without changing the flow
// value.
//
// Time Complexity: O(V * E)
// Space Complexity: O(V)
//
// Algorithm:
//  1. dist[source] = 0, dist[v] = Infinity for all v != source
//  2. Relax every edge, up to V-1 rounds; a round without updates is a
//     fixpoint and ends the loop early
//  3. One extra scan: an edge that would still relax proves a negative
//     cycle reachable from the source
//
// References:
//   - Bellman, R. (1958). "On a routing problem"
//   - Ford, L.R. (1956). "Network Flow Theory"
// =============================================================================

// BellmanFordResult contains the outcome of a Bellman-Ford run.
type BellmanFordResult struct {
	// Distances holds each node's shortest distance from the source.
	// Unreachable nodes stay at domain.Infinity.
	Distances []int64

	// Parent holds each node's predecessor on its shortest path; the
	// source and unreachable nodes hold domain.ParentSentinel.
	Parent []int

	// NegativeCycle is a negative-cost cycle reachable from the source,
	// in traversal order without the closing node repeated. Nil when
	// none was found.
	NegativeCycle []int

	// Canceled indicates whether the run was interrupted via context.
	Canceled bool
}

// HasNegativeCycle reports whether the run found a negative cycle.
func (r *BellmanFordResult) HasNegativeCycle() bool {
	return len(r.NegativeCycle) > 0
}

// BellmanFord executes the algorithm without cancellation support.
// This is a convenience wrapper around BellmanFordWithContext using
// context.Background().
func BellmanFord(g *domain.Graph, source int) *BellmanFordResult {
	return BellmanFordWithContext(context.Background(), g, source)
}

// BellmanFordWithContext executes the algorithm with context cancellation.
//
// Nodes are relaxed in id order and edges in adjacency order, so a given
// graph always yields the same distances, the same parents, and the same
// extracted cycle. Residual graphs never hold zero-capacity edges, so
// every adjacency entry participates in relaxation.
//
// The context is checked every 100 rounds; on cancellation the partial
// result is returned with Canceled set. An out-of-range source yields a
// result where every node is unreachable.
func BellmanFordWithContext(ctx context.Context, g *domain.Graph, source int) *BellmanFordResult {
	n := g.NumNodes()

	dist := make([]int64, n)
	parent := make([]int, n)
	for i := range dist {
		dist[i] = domain.Infinity
		parent[i] = domain.ParentSentinel
	}

	if source < 0 || source >= n {
		return &BellmanFordResult{Distances: dist, Parent: parent}
	}
	dist[source] = 0

	const checkInterval = 100

	for i := 0; i < n-1; i++ {
		if i%checkInterval == 0 {
			select {
			case <-ctx.Done():
				return &BellmanFordResult{Distances: dist, Parent: parent, Canceled: true}
			default:
			}
		}

		// A round without updates is a fixpoint: no later round, and no
		// cycle scan, could change anything.
		if !relaxAllEdges(g, dist, parent) {
			break
		}
	}

	return &BellmanFordResult{
		Distances:     dist,
		Parent:        parent,
		NegativeCycle: findNegativeCycle(g, dist, parent),
	}
}

// relaxAllEdges performs one relaxation round over every edge, nodes in
// id order and edges in adjacency order. Nodes still at Infinity are
// skipped: their distance must not be added to, and cycles unreachable
// from the source stay invisible. Reports whether any distance improved.
func relaxAllEdges(g *domain.Graph, dist []int64, parent []int) bool {
	updated := false
	for u := 0; u < g.NumNodes(); u++ {
		if dist[u] == domain.Infinity {
			continue
		}
		for _, e := range g.Adjacency(u) {
			if next := dist[u] + e.Cost; next < dist[e.Sink] {
				dist[e.Sink] = next
				parent[e.Sink] = u
				updated = true
			}
		}
	}
	return updated
}

// findNegativeCycle performs the extra scan after the main rounds. The
// first edge that would still relax proves a negative cycle; the cycle
// itself is the parent-chain walk from the edge's sink, which stops when
// a node repeats. Parents are left untouched by the scan.
func findNegativeCycle(g *domain.Graph, dist []int64, parent []int) []int {
	for u := 0; u < g.NumNodes(); u++ {
		if dist[u] == domain.Infinity {
			continue
		}
		for _, e := range g.Adjacency(u) {
			if dist[u]+e.Cost < dist[e.Sink] {
				return domain.RetrievePath(parent, e.Sink)
			}
		}
	}
	return nil
}

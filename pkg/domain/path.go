package domain

import "fmt"

// =============================================================================
// Path reconstruction
// =============================================================================

// RetrievePath rebuilds a node sequence from a parent slice, starting
// at start and walking predecessor pointers until it meets
// ParentSentinel or a node it has already collected. The collected
// nodes are returned in walk order reversed, so the sequence reads
// from the earliest ancestor to start.
//
// The same walk serves two callers: for BFS parents rooted at the
// source it yields the source -> start path, and for Bellman-Ford
// parents it yields a negative cycle, because the walk stops exactly
// when the cycle closes on itself. The closing node is not repeated at
// the end of the returned sequence.
func RetrievePath(parent []int, start int) []int {
	if start < 0 || start >= len(parent) {
		return nil
	}

	path := []int{start}
	seen := map[int]bool{start: true}

	for tmp := parent[start]; tmp != ParentSentinel && !seen[tmp]; tmp = parent[tmp] {
		path = append(path, tmp)
		seen[tmp] = true
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// =============================================================================
// Capacity along a path
// =============================================================================

// BottleneckCapacity returns the smallest capacity over the consecutive
// edges of path. Paths with fewer than two nodes have no edges and
// yield 0. A pair without a connecting edge means the path does not
// belong to this graph and reports ErrInternalInconsistency.
func BottleneckCapacity(g *Graph, path []int) (int64, error) {
	if len(path) < 2 {
		return 0, nil
	}

	bottleneck := Infinity
	for i := 0; i+1 < len(path); i++ {
		e, err := g.GetEdge(path[i], path[i+1])
		if err != nil {
			return 0, fmt.Errorf("%w: path edge %d -> %d: %v", ErrInternalInconsistency, path[i], path[i+1], err)
		}
		if e.Capacity < bottleneck {
			bottleneck = e.Capacity
		}
	}
	return bottleneck, nil
}

// =============================================================================
// Augmentation
// =============================================================================

// AugmentAlongPath pushes flow along consecutive path edges and keeps
// the residual graph consistent.
//
// For each edge a -> b with cost c:
//   - c < 0 means the path traverses a reverse edge, canceling earlier
//     flow: the edge's capacity grows by flow.
//   - otherwise flow may not exceed the remaining capacity
//     (ErrFlowExceedsCapacity); the capacity shrinks by flow and the
//     edge is removed when it reaches exactly zero, keeping the
//     invariant that residual graphs never hold zero-capacity edges.
//
// Either way the opposite edge b -> a with cost -c is then ensured:
// created with capacity flow when absent, grown by flow otherwise.
func AugmentAlongPath(g *Graph, path []int, flow int64) error {
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]

		e, err := g.GetEdge(a, b)
		if err != nil {
			return fmt.Errorf("%w: path edge %d -> %d: %v", ErrInternalInconsistency, a, b, err)
		}

		if e.Cost < 0 {
			if err := g.SetEdgeCapacity(a, b, e.Capacity+flow); err != nil {
				return err
			}
		} else {
			if flow > e.Capacity {
				return fmt.Errorf("%w: flow %d, capacity %d on edge %d -> %d", ErrFlowExceedsCapacity, flow, e.Capacity, a, b)
			}
			if err := g.SetEdgeCapacity(a, b, e.Capacity-flow); err != nil {
				return err
			}
			if e.Capacity-flow == 0 {
				if err := g.RemoveEdge(a, b); err != nil {
					return err
				}
			}
		}

		if g.HasEdge(b, a) {
			reverse, err := g.GetEdge(b, a)
			if err != nil {
				return err
			}
			if err := g.SetEdgeCapacity(b, a, reverse.Capacity+flow); err != nil {
				return err
			}
		} else {
			if err := g.AddEdge(b, a, flow, -e.Cost); err != nil {
				return err
			}
		}
	}
	return nil
}

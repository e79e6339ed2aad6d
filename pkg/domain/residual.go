package domain

import "fmt"

// =============================================================================
// Residual graph construction
// =============================================================================

// BuildResidualGraph derives the residual graph a flow search runs on.
//
// Every positive-capacity edge is copied in node-id-then-adjacency
// order; zero-capacity edges are dropped, because in a residual graph
// a missing edge is what encodes "no residual capacity". Reverse edges
// are not materialized here; AugmentAlongPath creates them lazily as
// flow is pushed.
//
// Anti-parallel pairs cannot share a residual graph with their lazily
// created reverse edges, so they are split: when u -> v is visited,
// u < v, and v -> u also exists, an artificial node w is allocated and
// u -> v is replaced by u -> w -> v, both halves carrying the original
// capacity and cost. The artificial map remembers w so the optimal
// extraction can undo the split. Only the lower-indexed direction
// splits, which guarantees each pair splits exactly once.
func BuildResidualGraph(g *Graph) *Graph {
	residual := NewGraph(g.NumNodes())
	for u := 0; u < g.NumNodes(); u++ {
		for _, e := range g.Adjacency(u) {
			if e.Capacity <= 0 {
				continue
			}
			if u < e.Sink && g.HasEdge(e.Sink, u) {
				w := residual.NumNodes()
				residual.addEdgeUnchecked(Edge{Source: u, Sink: w, Capacity: e.Capacity, Cost: e.Cost})
				residual.addEdgeUnchecked(Edge{Source: w, Sink: e.Sink, Capacity: e.Capacity, Cost: e.Cost})
				residual.artificial[w] = e
				continue
			}
			residual.addEdgeUnchecked(e)
		}
	}
	return residual
}

// addEdgeUnchecked appends an edge that is valid by construction,
// growing the node range as needed. Only for package-internal builders.
func (g *Graph) addEdgeUnchecked(e Edge) {
	for len(g.adjacency) <= e.Source || len(g.adjacency) <= e.Sink {
		g.adjacency = append(g.adjacency, nil)
	}
	g.adjacency[e.Source] = append(g.adjacency[e.Source], e)
}

// =============================================================================
// Optimal flow extraction
// =============================================================================

// ExtractOptimalFlow reads the flow assignment out of a solved residual
// graph.
//
// After augmentation, flow pushed over an original edge x -> y shows up
// as a reverse residual edge y -> x with negative cost and capacity
// equal to the flow. The extraction therefore walks every
// negative-cost residual edge whose source is a real node and emits the
// original edge direction with the flow as its capacity and the negated
// residual cost. A reverse edge pointing at an artificial node is
// resolved through the artificial map back to the edge the split stood
// in for. Original edges that carry no flow are added with capacity 0.
//
// Restricting the walk to real sources keeps split edges from being
// counted twice: of the two reverse halves y -> w and w -> x only the
// first has a real source.
func ExtractOptimalFlow(residual, original *Graph) (*Graph, error) {
	optimal := NewGraph(original.NumNodes())

	for u := 0; u < residual.StartingNumNodes(); u++ {
		for _, e := range residual.Adjacency(u) {
			if e.Cost >= 0 {
				continue
			}
			trueSource := e.Sink
			if trueSource >= residual.StartingNumNodes() {
				orig, ok := residual.ArtificialEdge(trueSource)
				if !ok {
					return nil, fmt.Errorf("%w: artificial node %d has no recorded edge", ErrInternalInconsistency, trueSource)
				}
				trueSource = orig.Source
			}
			if err := optimal.AddEdge(trueSource, u, e.Capacity, -e.Cost); err != nil {
				return nil, fmt.Errorf("extract optimal flow: %w", err)
			}
		}
	}

	// Edges the flow never touched still belong in the assignment.
	for _, e := range original.Edges() {
		if optimal.HasEdge(e.Source, e.Sink) {
			continue
		}
		if err := optimal.AddEdge(e.Source, e.Sink, 0, e.Cost); err != nil {
			return nil, fmt.Errorf("extract optimal flow: %w", err)
		}
	}

	return optimal, nil
}

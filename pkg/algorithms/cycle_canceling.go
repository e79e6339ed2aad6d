package algorithms

import (
	"context"
	"fmt"

	"minflow/pkg/domain"
)

// =============================================================================
// Cycle-Canceling Algorithm
// =============================================================================
//
// Cycle canceling finds a minimum-cost maximum flow in two phases. The
// first phase runs Edmonds-Karp to obtain any feasible maximum flow.
// The second phase repeatedly runs Bellman-Ford from the flow source on
// the residual graph: a negative-cost cycle there describes a set of
// redirections that keeps the flow value intact while lowering its total
// cost, so the cycle is augmented by its bottleneck and the search
// repeats. A flow is cost-optimal among flows of its value exactly when
// its residual graph holds no negative cycle.
//
// Time Complexity: O(V^2 * E^2 * C * U), C the largest cost magnitude
// and U the largest capacity
// Space Complexity: O(V + E)
//
// The flow network convention is fixed: node 0 is the source and the
// highest node id is the sink.
//
// References:
//   - Klein, M. (1967). "A primal method for minimal cost flows"
// =============================================================================

// MinCostFlowResult contains the result of a cycle-canceling run.
type MinCostFlowResult struct {
	// Residual is the final residual graph, with no negative cycle left
	// reachable from the source.
	Residual *domain.Graph

	// MaxFlow is the feasible maximum flow found by the first phase.
	MaxFlow int64

	// MinCost is the total cost of the final flow.
	MinCost int64

	// CyclesCanceled is the number of negative cycles augmented away.
	CyclesCanceled int

	// Iterations counts every augmentation across both phases:
	// augmenting paths of the max-flow phase plus canceled cycles.
	Iterations int

	// Canceled indicates whether the run was interrupted via context.
	Canceled bool
}

// CycleCanceling computes a minimum-cost maximum flow from node 0 to the
// highest node id, without cancellation support.
func CycleCanceling(g *domain.Graph) (*MinCostFlowResult, error) {
	return CycleCancelingWithContext(context.Background(), g)
}

// CycleCancelingWithContext computes a minimum-cost maximum flow with
// context cancellation. On cancellation the partial result carries
// whatever both phases achieved so far and Canceled set; its MinCost is
// not filled in.
func CycleCancelingWithContext(ctx context.Context, g *domain.Graph) (*MinCostFlowResult, error) {
	return CycleCancelingWithOptions(ctx, g, nil)
}

// CycleCancelingWithOptions computes a minimum-cost maximum flow
// honoring the iteration cap of options. Only MaxIterations is
// consulted, and it bounds the combined number of augmentations across
// both phases; the Source/Sink overrides never apply, the 0 to
// NumNodes()-1 convention is part of the algorithm.
//
// The input graph is never modified. The number of cancellation rounds
// is not bounded by the graph size alone, so callers solving untrusted
// networks should set MaxIterations; exceeding it fails with
// ErrMaxIterations.
func CycleCancelingWithOptions(ctx context.Context, g *domain.Graph, options *SolverOptions) (*MinCostFlowResult, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if g.NumNodes() < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewNodes, g.NumNodes())
	}

	maxIterations := 0
	if options != nil {
		maxIterations = options.MaxIterations
	}

	source, sink := domain.Source, g.NumNodes()-1

	residual := domain.BuildResidualGraph(g)
	feasible, err := maxFlowOnResidual(ctx, residual, source, sink, maxIterations)
	if err != nil {
		return nil, err
	}

	result := &MinCostFlowResult{
		Residual:   residual,
		MaxFlow:    feasible.MaxFlow,
		Iterations: feasible.Iterations,
	}
	if feasible.Canceled {
		result.Canceled = true
		return result, nil
	}

	for {
		bf := BellmanFordWithContext(ctx, residual, source)
		if bf.Canceled {
			result.Canceled = true
			return result, nil
		}
		if !bf.HasNegativeCycle() {
			break
		}
		if maxIterations > 0 && result.Iterations >= maxIterations {
			return nil, fmt.Errorf("%w: %d", ErrMaxIterations, maxIterations)
		}

		bottleneck, err := domain.BottleneckCapacity(residual, bf.NegativeCycle)
		if err != nil {
			return nil, err
		}
		if err := domain.AugmentAlongPath(residual, bf.NegativeCycle, bottleneck); err != nil {
			return nil, err
		}

		result.CyclesCanceled++
		result.Iterations++
	}

	result.MinCost = ResidualFlowCost(residual)
	return result, nil
}

// ResidualFlowCost computes the cost of the flow encoded in a residual
// graph by summing (-cost) * capacity over its negative-cost edges.
// Those are exactly the reverse edges augmentation created, and their
// capacity equals the flow that crossed the corresponding forward edge.
func ResidualFlowCost(residual *domain.Graph) int64 {
	var total int64
	for u := 0; u < residual.NumNodes(); u++ {
		for _, e := range residual.Adjacency(u) {
			if e.Cost < 0 {
				total += -e.Cost * e.Capacity
			}
		}
	}
	return total
}

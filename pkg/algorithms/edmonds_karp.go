package algorithms

import (
	"context"
	"fmt"

	"minflow/pkg/domain"
)

// =============================================================================
// Edmonds-Karp Algorithm
// =============================================================================
//
// Edmonds-Karp is the Ford-Fulkerson method with BFS choosing every
// augmenting path. BFS always finds a fewest-edges path, which bounds
// the number of augmentations polynomially.
//
// Time Complexity: O(V * E^2)
// Space Complexity: O(V + E)
//
// The run derives the residual graph of the input network
// (domain.BuildResidualGraph) and then alternates BFS, path
// reconstruction, bottleneck computation, and augmentation until the
// sink becomes unreachable. The final residual graph encodes the found
// flow: each negative-cost edge is a reverse edge whose capacity equals
// the flow that crossed the corresponding forward edge.
//
// References:
//   - Edmonds, J. & Karp, R.M. (1972). "Theoretical improvements in
//     algorithmic efficiency for network flow problems"
// =============================================================================

// MaxFlowResult contains the result of a maximum-flow computation.
type MaxFlowResult struct {
	// Residual is the final residual graph; the source can no longer
	// reach the sink in it. Per-edge flow over the original network can
	// be read out of it with domain.ExtractOptimalFlow.
	Residual *domain.Graph

	// MaxFlow is the total flow pushed from source to sink.
	MaxFlow int64

	// Iterations is the number of augmenting paths applied.
	Iterations int

	// Canceled indicates whether the run was interrupted via context.
	Canceled bool
}

// EdmondsKarp computes a maximum flow without cancellation support.
//
// The input graph is never modified; the algorithm works on its own
// residual copy.
func EdmondsKarp(g *domain.Graph, source, sink int) (*MaxFlowResult, error) {
	return EdmondsKarpWithContext(context.Background(), g, source, sink)
}

// EdmondsKarpWithContext computes a maximum flow with context
// cancellation. On cancellation the partial result carries the flow
// found so far and Canceled set.
func EdmondsKarpWithContext(ctx context.Context, g *domain.Graph, source, sink int) (*MaxFlowResult, error) {
	return EdmondsKarpWithOptions(ctx, g, source, sink, nil)
}

// EdmondsKarpWithOptions computes a maximum flow honoring the iteration
// cap of options. Only MaxIterations is consulted; timeouts are the
// caller's concern and arrive through ctx. Nil options means no cap.
//
// Reaching the cap while an augmenting path still exists fails with
// ErrMaxIterations: a silently truncated flow would be indistinguishable
// from a maximum one.
func EdmondsKarpWithOptions(ctx context.Context, g *domain.Graph, source, sink int, options *SolverOptions) (*MaxFlowResult, error) {
	if err := validateNetwork(g, source, sink); err != nil {
		return nil, err
	}

	maxIterations := 0
	if options != nil {
		maxIterations = options.MaxIterations
	}

	residual := domain.BuildResidualGraph(g)
	return maxFlowOnResidual(ctx, residual, source, sink, maxIterations)
}

// maxFlowOnResidual runs the augmenting loop on an already built
// residual graph, mutating it in place. maxIterations <= 0 means
// unlimited. The cycle-canceling solver shares this loop for its
// feasible-flow phase.
func maxFlowOnResidual(ctx context.Context, residual *domain.Graph, source, sink, maxIterations int) (*MaxFlowResult, error) {
	result := &MaxFlowResult{Residual: residual}

	const checkInterval = 100

	for {
		if result.Iterations%checkInterval == 0 {
			select {
			case <-ctx.Done():
				result.Canceled = true
				return result, nil
			default:
			}
		}

		search := domain.BFS(residual, source, sink)
		if !search.Found {
			return result, nil
		}
		if maxIterations > 0 && result.Iterations >= maxIterations {
			return nil, fmt.Errorf("%w: %d", ErrMaxIterations, maxIterations)
		}

		path := domain.RetrievePath(search.Parent, sink)
		bottleneck, err := domain.BottleneckCapacity(residual, path)
		if err != nil {
			return nil, err
		}
		if err := domain.AugmentAlongPath(residual, path, bottleneck); err != nil {
			return nil, err
		}

		result.MaxFlow += bottleneck
		result.Iterations++
	}
}

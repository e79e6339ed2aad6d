// Package algorithms implements the flow solvers of minflow: Edmonds-Karp
// maximum flow and the cycle-canceling minimum-cost flow built on top of
// it, plus the Bellman-Ford negative-cycle detector the canceling loop
// relies on.
//
// # Thread Safety
//
// Algorithm functions never modify the input graph; every run derives
// its own residual graph and mutates only that. Concurrent solves over
// one shared input graph are safe as long as nothing mutates the graph
// meanwhile. SolverPool bounds the number of simultaneous runs.
//
// # Determinism
//
// All algorithms iterate nodes in id order and edges in adjacency
// (insertion) order. The same input graph therefore always produces the
// same augmenting paths, the same canceled cycles, and the same final
// residual graph.
//
// # Context Support
//
// All algorithms support context cancellation. The XxxWithContext
// variants should be preferred for production use; Solve additionally
// applies the configured timeout.
//
// # Example Usage
//
//	g := domain.NewGraph(4)
//	_ = g.AddEdge(0, 1, 2, 1)
//	_ = g.AddEdge(0, 2, 1, 2)
//	_ = g.AddEdge(1, 3, 1, 2)
//	_ = g.AddEdge(2, 3, 2, 1)
//
//	result, err := algorithms.Solve(ctx, g, algorithms.AlgorithmCycleCanceling, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("flow=%d cost=%d\n", result.MaxFlow, result.TotalCost)
package algorithms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"minflow/pkg/domain"
)

// =============================================================================
// Error Definitions
// =============================================================================

// Standard errors returned by solver operations.
// Check them with errors.Is; most are returned wrapped with detail.
var (
	// ErrNilGraph indicates that a nil graph was passed to a solver.
	ErrNilGraph = errors.New("graph is nil")

	// ErrTooFewNodes indicates a graph too small to hold distinct
	// source and sink nodes.
	ErrTooFewNodes = errors.New("graph needs at least two nodes")

	// ErrNodeNotFound indicates a source or sink outside the node range.
	ErrNodeNotFound = errors.New("node not in graph")

	// ErrSourceEqualsSink indicates that source and sink coincide.
	ErrSourceEqualsSink = errors.New("source equals sink")

	// ErrUnknownAlgorithm indicates an algorithm name the registry does
	// not know.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrContextCanceled indicates that the operation was canceled via
	// context.
	ErrContextCanceled = errors.New("context canceled")

	// ErrTimeout indicates that the operation exceeded the configured
	// timeout.
	ErrTimeout = errors.New("operation timeout")

	// ErrMaxIterations indicates that the iteration cap was reached
	// before the algorithm finished.
	ErrMaxIterations = errors.New("iteration limit reached")

	// ErrFlowExceedsCapacity mirrors the domain sentinel so solver
	// callers can match augmentation failures without importing
	// pkg/domain.
	ErrFlowExceedsCapacity = domain.ErrFlowExceedsCapacity
)

// =============================================================================
// Solver Options
// =============================================================================

// SolverOptions configures the behavior of flow algorithms.
//
// Nil options are safe everywhere and mean DefaultSolverOptions().
// Options can be chained using the builder pattern:
//
//	opts := DefaultSolverOptions().
//	    WithTimeout(10 * time.Second).
//	    WithMaxIterations(10000)
type SolverOptions struct {
	// MaxIterations caps the total number of augmentations of a run;
	// for cycle canceling that is augmenting paths plus canceled
	// cycles combined. Zero or negative means unlimited.
	// Default: 0 (unlimited)
	MaxIterations int

	// Timeout bounds the wall-clock duration of a Solve call. Zero
	// relies entirely on the caller's context.
	// Default: 30 seconds
	Timeout time.Duration

	// Source overrides the flow source for max-flow runs. Negative
	// selects the convention, node 0. Cycle canceling ignores it.
	// Default: -1
	Source int

	// Sink overrides the flow sink for max-flow runs. Negative selects
	// the convention, the highest node id. Cycle canceling ignores it.
	// Default: -1
	Sink int
}

// DefaultSolverOptions returns options with sensible defaults: no
// iteration cap, a 30 second timeout, and the conventional endpoints.
func DefaultSolverOptions() *SolverOptions {
	return &SolverOptions{
		MaxIterations: 0,
		Timeout:       30 * time.Second,
		Source:        -1,
		Sink:          -1,
	}
}

// WithMaxIterations sets the iteration cap and returns the options for chaining.
func (o *SolverOptions) WithMaxIterations(max int) *SolverOptions {
	o.MaxIterations = max
	return o
}

// WithTimeout sets the timeout and returns the options for chaining.
func (o *SolverOptions) WithTimeout(timeout time.Duration) *SolverOptions {
	o.Timeout = timeout
	return o
}

// WithSource sets the max-flow source override and returns the options for chaining.
func (o *SolverOptions) WithSource(source int) *SolverOptions {
	o.Source = source
	return o
}

// WithSink sets the max-flow sink override and returns the options for chaining.
func (o *SolverOptions) WithSink(sink int) *SolverOptions {
	o.Sink = sink
	return o
}

// =============================================================================
// Solver Result
// =============================================================================

// SolverResult contains the complete outcome of a Solve call.
type SolverResult struct {
	// Algorithm is the solver that produced the result.
	Algorithm Algorithm

	// MaxFlow is the flow value pushed from source to sink.
	MaxFlow int64

	// TotalCost is the total cost of the computed flow. Cycle canceling
	// minimizes it; Edmonds-Karp merely reports the cost of the flow it
	// happened to find.
	TotalCost int64

	// Flow assigns the computed flow to the edges of the original
	// network: every original edge appears once with its flow as
	// capacity. Artificial split nodes are already resolved.
	Flow *domain.Graph

	// Residual is the final residual graph the run ended on.
	Residual *domain.Graph

	// Iterations is the total number of augmentations performed.
	Iterations int

	// CyclesCanceled is the number of negative cycles canceled.
	// Zero for pure max-flow runs.
	CyclesCanceled int

	// Duration is the wall-clock time taken by the run.
	Duration time.Duration
}

// =============================================================================
// Validation
// =============================================================================

// validateNetwork checks the graph and endpoints every solver run needs.
// The returned error wraps one of the package sentinels for errors.Is.
func validateNetwork(g *domain.Graph, source, sink int) error {
	if g == nil {
		return ErrNilGraph
	}
	if g.NumNodes() < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewNodes, g.NumNodes())
	}
	if source < 0 || source >= g.NumNodes() {
		return fmt.Errorf("%w: source %d", ErrNodeNotFound, source)
	}
	if sink < 0 || sink >= g.NumNodes() {
		return fmt.Errorf("%w: sink %d", ErrNodeNotFound, sink)
	}
	if source == sink {
		return fmt.Errorf("%w: node %d", ErrSourceEqualsSink, source)
	}
	return nil
}

// resolveEndpoints applies the endpoint conventions: a negative override
// selects node 0 for the source and the highest node id for the sink.
func resolveEndpoints(g *domain.Graph, options *SolverOptions) (source, sink int) {
	source, sink = domain.Source, g.NumNodes()-1
	if options == nil {
		return source, sink
	}
	if options.Source >= 0 {
		source = options.Source
	}
	if options.Sink >= 0 {
		sink = options.Sink
	}
	return source, sink
}

// canceledError maps a context interruption onto the solver sentinels.
func canceledError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ErrContextCanceled
}

// =============================================================================
// Main Solver Entry Point
// =============================================================================

// Solve is the primary entry point for solving flow problems.
//
// It dispatches on the algorithm, applies the options' timeout on top of
// ctx, extracts the per-edge flow assignment from the final residual
// graph, and maps interruptions onto ErrTimeout and ErrContextCanceled.
//
// The input graph is never modified; see the package documentation for
// the concurrency rules. An empty algorithm selects cycle canceling,
// the system default.
func Solve(ctx context.Context, g *domain.Graph, algorithm Algorithm, options *SolverOptions) (*SolverResult, error) {
	start := time.Now()

	if options == nil {
		options = DefaultSolverOptions()
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	result, err := solveInternal(ctx, g, algorithm, options)
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

// solveInternal dispatches to the algorithm implementation.
func solveInternal(ctx context.Context, g *domain.Graph, algorithm Algorithm, options *SolverOptions) (*SolverResult, error) {
	switch algorithm {
	case AlgorithmEdmondsKarp:
		return solveMaxFlow(ctx, g, options)

	case AlgorithmCycleCanceling, "":
		return solveMinCostFlow(ctx, g, options)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// solveMaxFlow runs Edmonds-Karp and wraps the result.
func solveMaxFlow(ctx context.Context, g *domain.Graph, options *SolverOptions) (*SolverResult, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	source, sink := resolveEndpoints(g, options)
	ek, err := EdmondsKarpWithOptions(ctx, g, source, sink, options)
	if err != nil {
		return nil, err
	}
	if ek.Canceled {
		return nil, canceledError(ctx)
	}

	flow, err := domain.ExtractOptimalFlow(ek.Residual, g)
	if err != nil {
		return nil, err
	}

	return &SolverResult{
		Algorithm:  AlgorithmEdmondsKarp,
		MaxFlow:    ek.MaxFlow,
		TotalCost:  ResidualFlowCost(ek.Residual),
		Flow:       flow,
		Residual:   ek.Residual,
		Iterations: ek.Iterations,
	}, nil
}

// solveMinCostFlow runs cycle canceling and wraps the result.
func solveMinCostFlow(ctx context.Context, g *domain.Graph, options *SolverOptions) (*SolverResult, error) {
	cc, err := CycleCancelingWithOptions(ctx, g, options)
	if err != nil {
		return nil, err
	}
	if cc.Canceled {
		return nil, canceledError(ctx)
	}

	flow, err := domain.ExtractOptimalFlow(cc.Residual, g)
	if err != nil {
		return nil, err
	}

	return &SolverResult{
		Algorithm:      AlgorithmCycleCanceling,
		MaxFlow:        cc.MaxFlow,
		TotalCost:      cc.MinCost,
		Flow:           flow,
		Residual:       cc.Residual,
		Iterations:     cc.Iterations,
		CyclesCanceled: cc.CyclesCanceled,
	}, nil
}

// =============================================================================
// Algorithm Registry
// =============================================================================

// Algorithm identifies a solver implementation.
type Algorithm string

const (
	// AlgorithmCycleCanceling is the minimum-cost maximum-flow solver.
	AlgorithmCycleCanceling Algorithm = "cycle_canceling"

	// AlgorithmEdmondsKarp is the plain maximum-flow solver.
	AlgorithmEdmondsKarp Algorithm = "edmonds_karp"
)

// String returns the canonical algorithm name.
func (a Algorithm) String() string {
	return string(a)
}

// ParseAlgorithm resolves a user-facing algorithm name. Kebab-case and
// snake_case spellings are both accepted; the empty string selects cycle
// canceling, the system default.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cycle-canceling", "cycle_canceling", "min-cost", "min_cost":
		return AlgorithmCycleCanceling, nil
	case "edmonds-karp", "edmonds_karp", "max-flow", "max_flow":
		return AlgorithmEdmondsKarp, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// AlgorithmInfo provides metadata about a solver for display and for
// selection logic.
type AlgorithmInfo struct {
	// Algorithm is the registry key.
	Algorithm Algorithm

	// Name is the human-readable name.
	Name string

	// Description is a brief description of the algorithm.
	Description string

	// TimeComplexity is the Big-O time complexity.
	TimeComplexity string

	// SpaceComplexity is the Big-O space complexity.
	SpaceComplexity string

	// SupportsMinCost indicates whether the algorithm minimizes cost.
	SupportsMinCost bool

	// SupportsNegativeCosts indicates whether the algorithm handles
	// negative edge costs.
	SupportsNegativeCosts bool

	// BestFor lists scenarios where the algorithm excels.
	BestFor []string

	// Caveats lists limitations worth knowing before picking it.
	Caveats []string
}

// GetAlgorithmInfo returns detailed information about a specific
// algorithm, or nil for unknown ones.
func GetAlgorithmInfo(algo Algorithm) *AlgorithmInfo {
	infos := map[Algorithm]*AlgorithmInfo{
		AlgorithmCycleCanceling: {
			Algorithm:             AlgorithmCycleCanceling,
			Name:                  "Cycle Canceling",
			Description:           "Edmonds-Karp feasible flow, then Bellman-Ford negative-cycle cancellation",
			TimeComplexity:        "O(V² × E² × C × U)",
			SpaceComplexity:       "O(V + E)",
			SupportsMinCost:       true,
			SupportsNegativeCosts: true,
			BestFor:               []string{"cost_optimization", "transportation_problems", "integer_networks"},
			Caveats: []string{
				"Cancellation rounds grow with cost and capacity magnitudes",
				"Set MaxIterations when solving untrusted networks",
			},
		},
		AlgorithmEdmondsKarp: {
			Algorithm:       AlgorithmEdmondsKarp,
			Name:            "Edmonds-Karp",
			Description:     "Ford-Fulkerson with BFS choosing shortest augmenting paths",
			TimeComplexity:  "O(V × E²)",
			SpaceComplexity: "O(V + E)",
			BestFor:         []string{"max_flow_only", "small_to_medium_graphs"},
			Caveats:         []string{"Ignores edge costs entirely"},
		},
	}

	return infos[algo]
}

// GetAllAlgorithms returns information about all available algorithms
// in a stable order suitable for display.
func GetAllAlgorithms() []*AlgorithmInfo {
	order := []Algorithm{
		AlgorithmCycleCanceling,
		AlgorithmEdmondsKarp,
	}

	infos := make([]*AlgorithmInfo, 0, len(order))
	for _, algo := range order {
		if info := GetAlgorithmInfo(algo); info != nil {
			infos = append(infos, info)
		}
	}
	return infos
}

// RecommendAlgorithm suggests a solver based on what the caller needs.
// Cost optimization and negative costs both demand cycle canceling;
// plain capacity questions are cheaper with Edmonds-Karp.
func RecommendAlgorithm(needMinCost, hasNegativeCosts bool) Algorithm {
	if needMinCost || hasNegativeCosts {
		return AlgorithmCycleCanceling
	}
	return AlgorithmEdmondsKarp
}

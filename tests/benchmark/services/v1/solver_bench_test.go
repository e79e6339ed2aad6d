package services_benchmark

import (
	"context"
	"math/rand"
	"testing"

	apiv1 "minflow/pkg/api/v1"
)

// =============================================================================
// GRAPH GENERATORS
// =============================================================================

// generateGridGraph creates an NxN grid graph.
// Grid graphs are good for testing algorithms on regular structures.
func generateGridGraph(n int) *apiv1.Graph {
	var edges []apiv1.Edge

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			id := i*n + j

			// Edge to the right
			if j < n-1 {
				edges = append(edges, apiv1.Edge{
					Source:   id,
					Sink:     id + 1,
					Capacity: 10,
					Cost:     1,
				})
			}
			// Edge downward
			if i < n-1 {
				edges = append(edges, apiv1.Edge{
					Source:   id,
					Sink:     id + n,
					Capacity: 10,
					Cost:     1,
				})
			}
		}
	}

	return &apiv1.Graph{NumNodes: n * n, Edges: edges}
}

// generateLineGraph creates a linear graph (chain).
// Linear graphs represent the simplest case with a single path.
func generateLineGraph(n int) *apiv1.Graph {
	edges := make([]apiv1.Edge, n-1)
	for i := 0; i < n-1; i++ {
		edges[i] = apiv1.Edge{
			Source:   i,
			Sink:     i + 1,
			Capacity: 100,
			Cost:     1,
		}
	}
	return &apiv1.Graph{NumNodes: n, Edges: edges}
}

// generateLayeredGraph creates a layered graph, the typical structure
// for network flow problems. Connection targets are deterministic so
// the generator never produces duplicate edges.
func generateLayeredGraph(layers, width, connectionsPerNode int) *apiv1.Graph {
	r := rand.New(rand.NewSource(42))

	totalNodes := layers*width + 2
	var edges []apiv1.Edge

	source := 0
	sink := totalNodes - 1

	// Source -> first layer
	for i := 0; i < width; i++ {
		edges = append(edges, apiv1.Edge{
			Source:   source,
			Sink:     1 + i,
			Capacity: 100,
			Cost:     1,
		})
	}

	// Inter-layer connections
	for l := 0; l < layers-1; l++ {
		for i := 0; i < width; i++ {
			from := 1 + l*width + i
			for c := 0; c < connectionsPerNode; c++ {
				to := 1 + (l+1)*width + (i+c)%width
				edges = append(edges, apiv1.Edge{
					Source:   from,
					Sink:     to,
					Capacity: int64(r.Intn(50) + 10),
					Cost:     int64(r.Intn(10) + 1),
				})
			}
		}
	}

	// Last layer -> sink
	for i := 0; i < width; i++ {
		edges = append(edges, apiv1.Edge{
			Source:   1 + (layers-1)*width + i,
			Sink:     sink,
			Capacity: 100,
			Cost:     1,
		})
	}

	return &apiv1.Graph{NumNodes: totalNodes, Edges: edges}
}

// generateDenseGraph creates a dense graph with the specified density
// percentage. Dense graphs test performance on highly connected networks.
func generateDenseGraph(n, densityPercent int) *apiv1.Graph {
	r := rand.New(rand.NewSource(42))

	var edges []apiv1.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r.Intn(100) < densityPercent {
				edges = append(edges, apiv1.Edge{
					Source:   i,
					Sink:     j,
					Capacity: int64(r.Intn(100) + 1),
					Cost:     int64(r.Intn(10) + 1),
				})
			}
		}
	}

	return &apiv1.Graph{NumNodes: n, Edges: edges}
}

// generateDiamondGraph creates a diamond-shaped graph for quick tests.
func generateDiamondGraph() *apiv1.Graph {
	return &apiv1.Graph{
		NumNodes: 4,
		Edges: []apiv1.Edge{
			{Source: 0, Sink: 1, Capacity: 10, Cost: 1},
			{Source: 0, Sink: 2, Capacity: 10, Cost: 1},
			{Source: 1, Sink: 3, Capacity: 10, Cost: 1},
			{Source: 2, Sink: 3, Capacity: 10, Cost: 1},
		},
	}
}

// generateCompleteGraph creates a directed complete graph with all
// edges oriented from lower to higher index.
func generateCompleteGraph(n int) *apiv1.Graph {
	r := rand.New(rand.NewSource(42))

	var edges []apiv1.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, apiv1.Edge{
				Source:   i,
				Sink:     j,
				Capacity: int64(r.Intn(100) + 10),
				Cost:     int64(r.Intn(10) + 1),
			})
		}
	}

	return &apiv1.Graph{NumNodes: n, Edges: edges}
}

// generateBipartiteGraph creates a bipartite graph wrapped between a
// source and a sink. Common structure for matching problems.
func generateBipartiteGraph(leftSize, rightSize, edgesPerLeft int) *apiv1.Graph {
	r := rand.New(rand.NewSource(42))

	totalNodes := leftSize + rightSize + 2
	var edges []apiv1.Edge

	source := 0
	sink := totalNodes - 1

	for i := 0; i < leftSize; i++ {
		edges = append(edges, apiv1.Edge{
			Source:   source,
			Sink:     1 + i,
			Capacity: 1,
		})
	}

	for i := 0; i < leftSize; i++ {
		from := 1 + i
		for e := 0; e < edgesPerLeft; e++ {
			to := 1 + leftSize + (i+e)%rightSize
			edges = append(edges, apiv1.Edge{
				Source:   from,
				Sink:     to,
				Capacity: 1,
				Cost:     int64(r.Intn(10) + 1),
			})
		}
	}

	for i := 0; i < rightSize; i++ {
		edges = append(edges, apiv1.Edge{
			Source:   1 + leftSize + i,
			Sink:     sink,
			Capacity: 1,
		})
	}

	return &apiv1.Graph{NumNodes: totalNodes, Edges: edges}
}

// generateUnitCapacityGraph creates a layered graph with unit capacities,
// the shape typical for matching problems.
func generateUnitCapacityGraph(layers, width int) *apiv1.Graph {
	r := rand.New(rand.NewSource(42))

	totalNodes := layers*width + 2
	var edges []apiv1.Edge

	source := 0
	sink := totalNodes - 1

	for i := 0; i < width; i++ {
		edges = append(edges, apiv1.Edge{
			Source:   source,
			Sink:     1 + i,
			Capacity: 1,
			Cost:     1,
		})
	}

	for l := 0; l < layers-1; l++ {
		for i := 0; i < width; i++ {
			from := 1 + l*width + i
			connections := 2 + r.Intn(2)
			for c := 0; c < connections; c++ {
				to := 1 + (l+1)*width + (i+c)%width
				edges = append(edges, apiv1.Edge{
					Source:   from,
					Sink:     to,
					Capacity: 1,
					Cost:     int64(r.Intn(10) + 1),
				})
			}
		}
	}

	for i := 0; i < width; i++ {
		edges = append(edges, apiv1.Edge{
			Source:   1 + (layers-1)*width + i,
			Sink:     sink,
			Capacity: 1,
			Cost:     1,
		})
	}

	return &apiv1.Graph{NumNodes: totalNodes, Edges: edges}
}

// generateHighCapacityGraph creates a chain with skip edges and
// capacities above 10^6 to exercise wide augmenting paths.
func generateHighCapacityGraph(n int) *apiv1.Graph {
	r := rand.New(rand.NewSource(42))

	var edges []apiv1.Edge
	for i := 0; i < n-1; i++ {
		edges = append(edges, apiv1.Edge{
			Source:   i,
			Sink:     i + 1,
			Capacity: int64(1e6 + r.Intn(1e6)),
			Cost:     int64(r.Intn(10) + 1),
		})

		if i < n-2 && r.Intn(100) < 50 {
			edges = append(edges, apiv1.Edge{
				Source:   i,
				Sink:     i + 2,
				Capacity: int64(5e5 + r.Intn(5e5)),
				Cost:     int64(r.Intn(5) + 1),
			})
		}
	}

	return &apiv1.Graph{NumNodes: n, Edges: edges}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// solveGraph executes a benchmark solving the graph with the given algorithm.
func solveGraph(b *testing.B, graph *apiv1.Graph, algorithm string) {
	b.Helper()

	ctx := context.Background()
	req := &apiv1.SolveRequest{
		Graph:     *graph,
		Algorithm: algorithm,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := benchClient.Solve(ctx, req); err != nil {
			b.Fatalf("Solve failed: %v", err)
		}
	}
}

// =============================================================================
// EDMONDS-KARP BENCHMARKS
// =============================================================================

func BenchmarkClient_EdmondsKarp_Diamond(b *testing.B) {
	solveGraph(b, generateDiamondGraph(), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Grid_10x10(b *testing.B) {
	solveGraph(b, generateGridGraph(10), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Grid_20x20(b *testing.B) {
	solveGraph(b, generateGridGraph(20), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Grid_30x30(b *testing.B) {
	solveGraph(b, generateGridGraph(30), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Grid_50x50(b *testing.B) {
	solveGraph(b, generateGridGraph(50), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Line_100(b *testing.B) {
	solveGraph(b, generateLineGraph(100), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Line_500(b *testing.B) {
	solveGraph(b, generateLineGraph(500), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Line_1000(b *testing.B) {
	solveGraph(b, generateLineGraph(1000), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Layered_5x20(b *testing.B) {
	solveGraph(b, generateLayeredGraph(5, 20, 3), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Layered_10x50(b *testing.B) {
	solveGraph(b, generateLayeredGraph(10, 50, 5), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Dense_50_30pct(b *testing.B) {
	solveGraph(b, generateDenseGraph(50, 30), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Dense_100_20pct(b *testing.B) {
	solveGraph(b, generateDenseGraph(100, 20), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Complete_30(b *testing.B) {
	solveGraph(b, generateCompleteGraph(30), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Complete_50(b *testing.B) {
	solveGraph(b, generateCompleteGraph(50), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Bipartite_50x50(b *testing.B) {
	solveGraph(b, generateBipartiteGraph(50, 50, 3), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_Bipartite_100x100(b *testing.B) {
	solveGraph(b, generateBipartiteGraph(100, 100, 5), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_UnitCapacity_10x50(b *testing.B) {
	solveGraph(b, generateUnitCapacityGraph(10, 50), "edmonds_karp")
}

func BenchmarkClient_EdmondsKarp_HighCapacity_100(b *testing.B) {
	solveGraph(b, generateHighCapacityGraph(100), "edmonds_karp")
}

// =============================================================================
// CYCLE CANCELING BENCHMARKS
// =============================================================================

func BenchmarkClient_CycleCanceling_Diamond(b *testing.B) {
	solveGraph(b, generateDiamondGraph(), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_Grid_10x10(b *testing.B) {
	solveGraph(b, generateGridGraph(10), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_Grid_20x20(b *testing.B) {
	solveGraph(b, generateGridGraph(20), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_Grid_30x30(b *testing.B) {
	solveGraph(b, generateGridGraph(30), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_Line_100(b *testing.B) {
	solveGraph(b, generateLineGraph(100), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_Line_500(b *testing.B) {
	solveGraph(b, generateLineGraph(500), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_Layered_5x20(b *testing.B) {
	solveGraph(b, generateLayeredGraph(5, 20, 3), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_Layered_10x50(b *testing.B) {
	solveGraph(b, generateLayeredGraph(10, 50, 5), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_Dense_50_30pct(b *testing.B) {
	solveGraph(b, generateDenseGraph(50, 30), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_Dense_100_20pct(b *testing.B) {
	solveGraph(b, generateDenseGraph(100, 20), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_Complete_30(b *testing.B) {
	solveGraph(b, generateCompleteGraph(30), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_Complete_50(b *testing.B) {
	solveGraph(b, generateCompleteGraph(50), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_Bipartite_50x50(b *testing.B) {
	solveGraph(b, generateBipartiteGraph(50, 50, 3), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_UnitCapacity_10x50(b *testing.B) {
	solveGraph(b, generateUnitCapacityGraph(10, 50), "cycle_canceling")
}

func BenchmarkClient_CycleCanceling_HighCapacity_100(b *testing.B) {
	solveGraph(b, generateHighCapacityGraph(100), "cycle_canceling")
}

package domain

import "math"

// Алгоритмические константы
const (
	// Source is the conventional source node of a flow network.
	// Cycle canceling always pushes flow from node 0.
	Source = 0

	// ParentSentinel marks a node without a predecessor in parent
	// slices produced by BFS and Bellman-Ford.
	ParentSentinel = -1

	// Infinity is the distance assigned to unreachable nodes.
	// Relaxation must skip nodes at Infinity before adding edge
	// costs, otherwise the sum overflows.
	Infinity int64 = math.MaxInt64
)

// Пороги загрузки рёбер для анализа узких мест
const (
	MediumUtilizationThreshold   = 0.7
	HighUtilizationThreshold     = 0.85
	CriticalUtilizationThreshold = 0.95
)

// IsArtificialNode reports whether a node id belongs to the artificial
// range of a residual graph, i.e. it was allocated while splitting an
// anti-parallel edge pair and does not exist in the original network.
func IsArtificialNode(g *Graph, node int) bool {
	return node >= g.StartingNumNodes()
}

// MinInt64 returns the smaller of two int64 values.
func MinInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// MaxInt64 returns the larger of two int64 values.
func MaxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

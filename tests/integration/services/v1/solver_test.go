package v1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiv1 "minflow/pkg/api/v1"
	"minflow/pkg/apperror"
	"minflow/tests/integration/testutil"
)

func TestSolve_CycleCanceling(t *testing.T) {
	c := startAuthedSolver(t)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	resp, err := c.Solve(ctx, &apiv1.SolveRequest{Graph: diamondGraph()})
	require.NoError(t, err)

	assert.Equal(t, "cycle_canceling", resp.Algorithm)
	assert.Equal(t, int64(2), resp.MaxFlow)
	assert.Equal(t, int64(6), resp.MinCost)
	assert.Len(t, resp.FlowEdges, 4)
	assert.NotEmpty(t, resp.SolutionID)
	assert.False(t, resp.Cached)

	require.NotNil(t, resp.Stats)
	assert.Equal(t, int64(2), resp.Stats.TotalFlow)
	assert.Equal(t, int64(6), resp.Stats.TotalCost)
}

func TestSolve_EdmondsKarp(t *testing.T) {
	c := startAuthedSolver(t)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	resp, err := c.Solve(ctx, &apiv1.SolveRequest{
		Graph:     supplyGraph(),
		Algorithm: "edmonds_karp",
	})
	require.NoError(t, err)

	assert.Equal(t, "edmonds_karp", resp.Algorithm)
	assert.Equal(t, int64(20), resp.MaxFlow)
	assert.Zero(t, resp.CyclesCanceled)
}

func TestSolve_MinCostMatchesAnyRouting(t *testing.T) {
	c := startAuthedSolver(t)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	// В supplyGraph каждый путь 0→3 стоит 4, поэтому минимальная
	// стоимость совпадает с любой маршрутизацией полного потока
	resp, err := c.Solve(ctx, &apiv1.SolveRequest{Graph: supplyGraph()})
	require.NoError(t, err)

	assert.Equal(t, int64(20), resp.MaxFlow)
	assert.Equal(t, int64(80), resp.MinCost)
}

func TestSolve_Layered(t *testing.T) {
	c := startAuthedSolver(t)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	resp, err := c.Solve(ctx, &apiv1.SolveRequest{Graph: layeredGraph(12)})
	require.NoError(t, err)

	assert.Equal(t, int64(15), resp.MaxFlow)
	assert.Positive(t, resp.Iterations)
}

func TestSolve_SourceSinkOverride(t *testing.T) {
	c := startAuthedSolver(t)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	source, sink := 1, 3
	resp, err := c.Solve(ctx, &apiv1.SolveRequest{
		Graph:     supplyGraph(),
		Algorithm: "edmonds_karp",
		Options:   &apiv1.SolveOptions{Source: &source, Sink: &sink},
	})
	require.NoError(t, err)

	// Из узла 1: 10 напрямую в сток и 5 через узел 2
	assert.Equal(t, int64(15), resp.MaxFlow)
}

func TestSolve_CachedSecondCall(t *testing.T) {
	c := startAuthedSolver(t)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	first, err := c.Solve(ctx, &apiv1.SolveRequest{Graph: diamondGraph()})
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := c.Solve(ctx, &apiv1.SolveRequest{Graph: diamondGraph()})
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, first.MaxFlow, second.MaxFlow)
	assert.Equal(t, first.MinCost, second.MinCost)
}

func TestSolve_DisconnectedGraphHasZeroFlow(t *testing.T) {
	c := startAuthedSolver(t)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	resp, err := c.Solve(ctx, &apiv1.SolveRequest{Graph: disconnectedGraph()})
	require.NoError(t, err)

	assert.Zero(t, resp.MaxFlow)
	assert.Zero(t, resp.MinCost)
}

func TestSolve_UnknownAlgorithm(t *testing.T) {
	c := startAuthedSolver(t)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	_, err := c.Solve(ctx, &apiv1.SolveRequest{
		Graph:     diamondGraph(),
		Algorithm: "simplex",
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidArgument))
}

func TestSolve_InvalidGraph(t *testing.T) {
	c := startAuthedSolver(t)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	_, err := c.Solve(ctx, &apiv1.SolveRequest{Graph: invalidGraph()})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidArgument))
}

func TestAlgorithms_List(t *testing.T) {
	c := startSolver(t)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	resp, err := c.GetAlgorithms(ctx)
	require.NoError(t, err)

	require.Len(t, resp.Algorithms, 2)
	assert.Equal(t, "cycle_canceling", resp.Default)

	names := []string{resp.Algorithms[0].Algorithm, resp.Algorithms[1].Algorithm}
	assert.Contains(t, names, "cycle_canceling")
	assert.Contains(t, names, "edmonds_karp")
}

func TestHealth(t *testing.T) {
	c := startSolver(t)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	resp, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

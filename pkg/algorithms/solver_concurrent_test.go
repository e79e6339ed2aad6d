package algorithms

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolverPool_ConcurrentSolves(t *testing.T) {
	const goroutines = 50

	pool := NewSolverPool(10)
	g := diamondGraph(t) // shared across all goroutines, never mutated

	var wg sync.WaitGroup
	errCh := make(chan error, goroutines)
	results := make(chan *SolverResult, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := pool.SolvePooled(context.Background(), g, AlgorithmCycleCanceling, nil)
			if err != nil {
				errCh <- err
				return
			}
			results <- result
		}()
	}

	wg.Wait()
	close(errCh)
	close(results)

	for err := range errCh {
		t.Errorf("concurrent solve failed: %v", err)
	}

	count := 0
	for result := range results {
		assert.Equal(t, int64(2), result.MaxFlow)
		assert.Equal(t, int64(6), result.TotalCost)
		count++
	}
	assert.Equal(t, goroutines, count)
}

func TestSolverPool_Exhaustion(t *testing.T) {
	pool := NewSolverPool(1)

	require.NoError(t, pool.Acquire(context.Background()))
	defer pool.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := pool.Acquire(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSolverPool_BatchSolve(t *testing.T) {
	pool := NewSolverPool(2)
	g := diamondGraph(t)

	tasks := []BatchTask{
		{TaskID: "min-cost", Graph: g, Algorithm: AlgorithmCycleCanceling},
		{TaskID: "max-flow", Graph: g, Algorithm: AlgorithmEdmondsKarp},
		{TaskID: "broken", Graph: nil, Algorithm: AlgorithmCycleCanceling},
	}

	results := pool.BatchSolve(context.Background(), tasks)

	require.Len(t, results, 3)

	assert.Equal(t, "min-cost", results[0].TaskID)
	require.NoError(t, results[0].Err)
	assert.Equal(t, int64(2), results[0].Result.MaxFlow)
	assert.Equal(t, int64(6), results[0].Result.TotalCost)

	assert.Equal(t, "max-flow", results[1].TaskID)
	require.NoError(t, results[1].Err)
	assert.Equal(t, AlgorithmEdmondsKarp, results[1].Result.Algorithm)

	assert.Equal(t, "broken", results[2].TaskID)
	assert.ErrorIs(t, results[2].Err, ErrNilGraph)
	assert.Nil(t, results[2].Result)
}

func TestSolverPool_BatchSolveMoreTasksThanWorkers(t *testing.T) {
	const tasks = 20

	pool := NewSolverPool(3)
	g := diamondGraph(t)

	batch := make([]BatchTask, 0, tasks)
	for i := 0; i < tasks; i++ {
		batch = append(batch, BatchTask{
			TaskID:    fmt.Sprintf("task-%d", i),
			Graph:     g,
			Algorithm: AlgorithmCycleCanceling,
		})
	}

	results := pool.BatchSolve(context.Background(), batch)

	require.Len(t, results, tasks)
	for i, result := range results {
		assert.Equal(t, fmt.Sprintf("task-%d", i), result.TaskID)
		require.NoError(t, result.Err)
		assert.Equal(t, int64(2), result.Result.MaxFlow)
	}
}

func TestSolverPool_BatchSolveEmpty(t *testing.T) {
	pool := NewSolverPool(2)

	results := pool.BatchSolve(context.Background(), nil)

	assert.Empty(t, results)
}

func TestNewSolverPool_ClampsConcurrency(t *testing.T) {
	assert.Equal(t, 10, cap(NewSolverPool(0).workers))
	assert.Equal(t, 10, cap(NewSolverPool(-3).workers))
	assert.Equal(t, 4, cap(NewSolverPool(4).workers))
}

package algorithms

import (
	"context"
	"sync"

	"minflow/pkg/domain"
)

// =============================================================================
// Solver Pool
// =============================================================================

// SolverPool bounds the number of simultaneously running solvers.
//
// Solves are CPU-bound; running arbitrarily many of them concurrently
// only adds scheduling overhead and memory pressure. The pool is a plain
// semaphore: Acquire blocks until a slot frees up or the context ends.
//
// Algorithm functions never mutate their input graph, so batch tasks may
// share one graph, provided nothing mutates it while the batch runs.
//
// # Example
//
//	pool := NewSolverPool(runtime.NumCPU())
//	results := pool.BatchSolve(ctx, tasks)
//	for _, r := range results {
//	    if r.Err != nil {
//	        log.Printf("task %s: %v", r.TaskID, r.Err)
//	    }
//	}
type SolverPool struct {
	workers chan struct{} // semaphore, one slot per running solve
}

// NewSolverPool creates a pool running at most maxConcurrency solves at
// once. Non-positive values default to 10.
func NewSolverPool(maxConcurrency int) *SolverPool {
	if maxConcurrency <= 0 {
		maxConcurrency = 10
	}
	return &SolverPool{
		workers: make(chan struct{}, maxConcurrency),
	}
}

// Acquire obtains a worker slot, blocking until one is available or the
// context is done. Returns nil on success, ctx.Err() otherwise.
//
// Call Release exactly once per successful Acquire.
func (sp *SolverPool) Acquire(ctx context.Context) error {
	select {
	case sp.workers <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a worker slot to the pool.
func (sp *SolverPool) Release() {
	<-sp.workers
}

// SolvePooled runs Solve under the pool's concurrency limit. It blocks
// while the pool is at capacity.
func (sp *SolverPool) SolvePooled(ctx context.Context, g *domain.Graph, algorithm Algorithm, options *SolverOptions) (*SolverResult, error) {
	if err := sp.Acquire(ctx); err != nil {
		return nil, err
	}
	defer sp.Release()

	return Solve(ctx, g, algorithm, options)
}

// BatchTask is a single problem of a BatchSolve call.
type BatchTask struct {
	// TaskID correlates the result with the task.
	TaskID string

	// Graph is the input network.
	Graph *domain.Graph

	// Algorithm selects the solver.
	Algorithm Algorithm

	// Options configure the run; nil uses defaults.
	Options *SolverOptions
}

// BatchResult pairs a task id with its outcome.
type BatchResult struct {
	// TaskID matches the input BatchTask.TaskID.
	TaskID string

	// Result is the solver result; nil when Err is set.
	Result *SolverResult

	// Err is the failure of this task, if any.
	Err error
}

// BatchSolve runs every task under the pool's concurrency limit and
// returns the results in task order. It blocks until all tasks finished
// or failed; a canceled context surfaces as per-task errors.
func (sp *SolverPool) BatchSolve(ctx context.Context, tasks []BatchTask) []BatchResult {
	results := make([]BatchResult, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(idx int, t BatchTask) {
			defer wg.Done()
			result, err := sp.SolvePooled(ctx, t.Graph, t.Algorithm, t.Options)
			results[idx] = BatchResult{
				TaskID: t.TaskID,
				Result: result,
				Err:    err,
			}
		}(i, task)
	}

	wg.Wait()
	return results
}

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySolutionRepository — in-memory реализация Repository. Живёт в
// тестах, бенчмарках и в режиме без базы данных; семантика фильтров и
// сортировок повторяет Postgres-реализацию.
type MemorySolutionRepository struct {
	mu        sync.RWMutex
	solutions map[string]*Solution
}

// NewMemorySolutionRepository создаёт новый in-memory репозиторий
func NewMemorySolutionRepository() *MemorySolutionRepository {
	return &MemorySolutionRepository{
		solutions: make(map[string]*Solution),
	}
}

func (r *MemorySolutionRepository) Create(ctx context.Context, solution *Solution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if solution.ID == uuid.Nil {
		solution.ID = uuid.New()
	}
	solution.CreatedAt = time.Now().UTC()

	// Сохраняем копию
	stored := *solution
	r.solutions[solution.ID.String()] = &stored

	return nil
}

func (r *MemorySolutionRepository) GetByID(ctx context.Context, id string) (*Solution, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	solution, exists := r.solutions[id]
	if !exists {
		return nil, ErrSolutionNotFound
	}

	result := *solution
	return &result, nil
}

func (r *MemorySolutionRepository) List(ctx context.Context, opts *ListOptions) ([]*SolutionSummary, int64, error) {
	if opts == nil {
		opts = &ListOptions{}
	}

	r.mu.RLock()
	matched := make([]*Solution, 0, len(r.solutions))
	for _, solution := range r.solutions {
		if matchesFilter(solution, opts.Filter) {
			matched = append(matched, solution)
		}
	}
	r.mu.RUnlock()

	sortSolutions(matched, opts.Sort)
	total := int64(len(matched))

	offset := opts.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}

	summaries := make([]*SolutionSummary, 0, len(matched))
	for _, solution := range matched {
		summaries = append(summaries, &SolutionSummary{
			ID:             solution.ID,
			Name:           solution.Name,
			Algorithm:      solution.Algorithm,
			GraphHash:      solution.GraphHash,
			NodeCount:      solution.NodeCount,
			EdgeCount:      solution.EdgeCount,
			MaxFlow:        solution.MaxFlow,
			MinCost:        solution.MinCost,
			Iterations:     solution.Iterations,
			CyclesCanceled: solution.CyclesCanceled,
			DurationMs:     solution.DurationMs,
			Tags:           solution.Tags,
			CreatedBy:      solution.CreatedBy,
			CreatedAt:      solution.CreatedAt,
		})
	}

	return summaries, total, nil
}

func (r *MemorySolutionRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.solutions[id]; !exists {
		return ErrSolutionNotFound
	}
	delete(r.solutions, id)

	return nil
}

func (r *MemorySolutionRepository) Statistics(ctx context.Context) (*Statistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &Statistics{ByAlgorithm: make(map[string]int64)}
	if len(r.solutions) == 0 {
		return stats, nil
	}

	var sumDuration, sumFlow, sumCost float64
	for _, solution := range r.solutions {
		stats.TotalSolutions++
		stats.ByAlgorithm[solution.Algorithm]++
		sumDuration += solution.DurationMs
		sumFlow += float64(solution.MaxFlow)
		sumCost += float64(solution.MinCost)

		if solution.NodeCount > stats.LargestGraphNodes {
			stats.LargestGraphNodes = solution.NodeCount
		}
		if stats.LastSolvedAt == nil || solution.CreatedAt.After(*stats.LastSolvedAt) {
			created := solution.CreatedAt
			stats.LastSolvedAt = &created
		}
	}

	count := float64(stats.TotalSolutions)
	stats.AvgDurationMs = sumDuration / count
	stats.AvgMaxFlow = sumFlow / count
	stats.AvgMinCost = sumCost / count

	return stats, nil
}

func (r *MemorySolutionRepository) Ping(ctx context.Context) error {
	return nil
}

// matchesFilter повторяет условия buildWhereClause Postgres-репозитория:
// Tags — пересечение (оператор &&), остальное — точные совпадения и
// границы.
func matchesFilter(solution *Solution, filter *ListFilter) bool {
	if filter == nil {
		return true
	}

	if filter.Algorithm != "" && solution.Algorithm != filter.Algorithm {
		return false
	}
	if filter.CreatedBy != "" && solution.CreatedBy != filter.CreatedBy {
		return false
	}
	if filter.GraphHash != "" && solution.GraphHash != filter.GraphHash {
		return false
	}
	if filter.MinFlow != nil && solution.MaxFlow < *filter.MinFlow {
		return false
	}
	if filter.MaxFlow != nil && solution.MaxFlow > *filter.MaxFlow {
		return false
	}
	if filter.StartTime != nil && solution.CreatedAt.Before(*filter.StartTime) {
		return false
	}
	if filter.EndTime != nil && solution.CreatedAt.After(*filter.EndTime) {
		return false
	}

	if len(filter.Tags) > 0 {
		overlap := false
		for _, want := range filter.Tags {
			for _, have := range solution.Tags {
				if want == have {
					overlap = true
					break
				}
			}
			if overlap {
				break
			}
		}
		if !overlap {
			return false
		}
	}

	return true
}

func sortSolutions(solutions []*Solution, order SortOrder) {
	sort.SliceStable(solutions, func(i, j int) bool {
		a, b := solutions[i], solutions[j]
		switch order {
		case SortByCreatedAsc:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortByMaxFlowDesc:
			return a.MaxFlow > b.MaxFlow
		case SortByMinCostAsc:
			return a.MinCost < b.MinCost
		case SortByDurationDesc:
			return a.DurationMs > b.DurationMs
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

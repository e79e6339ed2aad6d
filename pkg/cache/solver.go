package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"minflow/pkg/algorithms"
	"minflow/pkg/domain"
)

// SolverCache специализированный кэш для результатов solver
type SolverCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// CachedSolveResult кэшированный результат
type CachedSolveResult struct {
	Algorithm      string           `json:"algorithm"`
	MaxFlow        int64            `json:"max_flow"`
	TotalCost      int64            `json:"total_cost"`
	Iterations     int              `json:"iterations"`
	CyclesCanceled int              `json:"cycles_canceled"`
	DurationMs     float64          `json:"duration_ms"`
	NumNodes       int              `json:"num_nodes"`
	FlowEdges      []*FlowEdgeCache `json:"flow_edges,omitempty"`
	ComputedAt     time.Time        `json:"computed_at"`
}

// FlowEdgeCache кэшированное ребро с потоком
type FlowEdgeCache struct {
	From int   `json:"from"`
	To   int   `json:"to"`
	Flow int64 `json:"flow"`
	Cost int64 `json:"cost"`
}

// NewSolverCache создаёт кэш для solver результатов
func NewSolverCache(cache Cache, defaultTTL time.Duration) *SolverCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &SolverCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get получает кэшированный результат
func (sc *SolverCache) Get(ctx context.Context, graph *domain.Graph, algorithm string) (*CachedSolveResult, bool, error) {
	graphHash := GraphHash(graph)
	key := BuildSolveKey(graphHash, algorithm)

	data, err := sc.cache.Get(ctx, key)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result CachedSolveResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Повреждённый кэш — удаляем, ошибку удаления игнорируем намеренно
		_ = sc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}

	return &result, true, nil
}

// Set сохраняет результат в кэш
func (sc *SolverCache) Set(ctx context.Context, graph *domain.Graph, algorithm string, result *CachedSolveResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = sc.defaultTTL
	}

	graphHash := GraphHash(graph)
	key := BuildSolveKey(graphHash, algorithm)

	result.ComputedAt = time.Now()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return sc.cache.Set(ctx, key, data, ttl)
}

// SetFromResult сохраняет результат из SolverResult
func (sc *SolverCache) SetFromResult(ctx context.Context, graph *domain.Graph, result *algorithms.SolverResult, ttl time.Duration) error {
	if result == nil {
		return nil
	}

	cached := &CachedSolveResult{
		Algorithm:      string(result.Algorithm),
		MaxFlow:        result.MaxFlow,
		TotalCost:      result.TotalCost,
		Iterations:     result.Iterations,
		CyclesCanceled: result.CyclesCanceled,
		DurationMs:     float64(result.Duration.Microseconds()) / 1000.0,
	}

	// Кэшируем flow edges
	if result.Flow != nil {
		cached.NumNodes = result.Flow.NumNodes()
		for _, edge := range result.Flow.Edges() {
			cached.FlowEdges = append(cached.FlowEdges, &FlowEdgeCache{
				From: edge.Source,
				To:   edge.Sink,
				Flow: edge.Capacity,
				Cost: edge.Cost,
			})
		}
	}

	return sc.Set(ctx, graph, string(result.Algorithm), cached, ttl)
}

// Ping проверяет доступность backend кэша
func (sc *SolverCache) Ping(ctx context.Context) error {
	_, err := sc.cache.Exists(ctx, "solve:ping")
	return err
}

// Invalidate удаляет кэш для графа
func (sc *SolverCache) Invalidate(ctx context.Context, graph *domain.Graph) error {
	graphHash := GraphHash(graph)
	pattern := fmt.Sprintf("solve:*:%s", graphHash)
	_, err := sc.cache.DeleteByPattern(ctx, pattern)
	return err
}

// InvalidateAll удаляет весь кэш solver результатов
func (sc *SolverCache) InvalidateAll(ctx context.Context) (int64, error) {
	return sc.cache.DeleteByPattern(ctx, "solve:*")
}

// ToFlowGraph восстанавливает граф потока из кэшированных рёбер
func (r *CachedSolveResult) ToFlowGraph() (*domain.Graph, error) {
	g := domain.NewGraph(r.NumNodes)
	for _, e := range r.FlowEdges {
		if err := g.AddEdge(e.From, e.To, e.Flow, e.Cost); err != nil {
			return nil, err
		}
	}
	return g, nil
}

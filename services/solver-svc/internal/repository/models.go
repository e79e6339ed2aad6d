package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apiv1 "minflow/pkg/api/v1"
)

// Solution — сохранённое решение задачи о потоке
type Solution struct {
	ID             uuid.UUID
	Name           string
	Algorithm      string
	GraphHash      string
	NodeCount      int
	EdgeCount      int
	MaxFlow        int64
	MinCost        int64
	Iterations     int
	CyclesCanceled int
	DurationMs     float64

	// Graph и FlowEdges хранятся как jsonb в wire-формате
	Graph     []byte
	FlowEdges []byte

	Tags      []string
	CreatedBy string
	CreatedAt time.Time
}

// SolutionSummary — строка списка без jsonb-полей
type SolutionSummary struct {
	ID             uuid.UUID
	Name           string
	Algorithm      string
	GraphHash      string
	NodeCount      int
	EdgeCount      int
	MaxFlow        int64
	MinCost        int64
	Iterations     int
	CyclesCanceled int
	DurationMs     float64
	Tags           []string
	CreatedBy      string
	CreatedAt      time.Time
}

// ToAPI конвертирует решение в wire-формат вместе с графом и потоком
func (s *Solution) ToAPI() (*apiv1.Solution, error) {
	out := &apiv1.Solution{
		ID:             s.ID.String(),
		Name:           s.Name,
		Algorithm:      s.Algorithm,
		GraphHash:      s.GraphHash,
		NodeCount:      s.NodeCount,
		EdgeCount:      s.EdgeCount,
		MaxFlow:        s.MaxFlow,
		MinCost:        s.MinCost,
		Iterations:     s.Iterations,
		CyclesCanceled: s.CyclesCanceled,
		DurationMs:     s.DurationMs,
		Tags:           s.Tags,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
	}

	if len(s.Graph) > 0 {
		var g apiv1.Graph
		if err := json.Unmarshal(s.Graph, &g); err != nil {
			return nil, fmt.Errorf("failed to decode stored graph: %w", err)
		}
		out.Graph = &g
	}

	if len(s.FlowEdges) > 0 {
		if err := json.Unmarshal(s.FlowEdges, &out.FlowEdges); err != nil {
			return nil, fmt.Errorf("failed to decode stored flow edges: %w", err)
		}
	}

	return out, nil
}

// ToAPI конвертирует строку списка в wire-формат
func (s *SolutionSummary) ToAPI() apiv1.Solution {
	return apiv1.Solution{
		ID:             s.ID.String(),
		Name:           s.Name,
		Algorithm:      s.Algorithm,
		GraphHash:      s.GraphHash,
		NodeCount:      s.NodeCount,
		EdgeCount:      s.EdgeCount,
		MaxFlow:        s.MaxFlow,
		MinCost:        s.MinCost,
		Iterations:     s.Iterations,
		CyclesCanceled: s.CyclesCanceled,
		DurationMs:     s.DurationMs,
		Tags:           s.Tags,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
	}
}

// SortOrder задаёт порядок сортировки списка
type SortOrder int

const (
	SortByCreatedDesc SortOrder = iota
	SortByCreatedAsc
	SortByMaxFlowDesc
	SortByMinCostAsc
	SortByDurationDesc
)

// ParseSortOrder разбирает порядок сортировки из строки запроса
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "created_desc":
		return SortByCreatedDesc, nil
	case "created_asc":
		return SortByCreatedAsc, nil
	case "max_flow_desc":
		return SortByMaxFlowDesc, nil
	case "min_cost_asc":
		return SortByMinCostAsc, nil
	case "duration_desc":
		return SortByDurationDesc, nil
	default:
		return SortByCreatedDesc, fmt.Errorf("unknown sort order %q", s)
	}
}

// ListFilter — фильтры списка решений
type ListFilter struct {
	Algorithm string
	Tags      []string
	CreatedBy string
	GraphHash string
	MinFlow   *int64
	MaxFlow   *int64
	StartTime *time.Time
	EndTime   *time.Time
}

// ListOptions — пагинация и сортировка списка
type ListOptions struct {
	Filter *ListFilter
	Sort   SortOrder
	Limit  int
	Offset int
}

// Statistics — агрегированная статистика по сохранённым решениям
type Statistics struct {
	TotalSolutions    int64
	ByAlgorithm       map[string]int64
	AvgDurationMs     float64
	AvgMaxFlow        float64
	AvgMinCost        float64
	LargestGraphNodes int
	LastSolvedAt      *time.Time
}

// ToAPI конвертирует статистику в wire-формат
func (s *Statistics) ToAPI() *apiv1.StatisticsResponse {
	return &apiv1.StatisticsResponse{
		TotalSolutions: s.TotalSolutions,
		ByAlgorithm:    s.ByAlgorithm,
		AvgDurationMs:  s.AvgDurationMs,
		AvgMaxFlow:     s.AvgMaxFlow,
		AvgMinCost:     s.AvgMinCost,
		LargestGraph:   s.LargestGraphNodes,
		LastSolvedAt:   s.LastSolvedAt,
	}
}

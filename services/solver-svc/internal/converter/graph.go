package converter

import (
	"fmt"
	"sort"

	"minflow/pkg/algorithms"
	apiv1 "minflow/pkg/api/v1"
	"minflow/pkg/cache"
	"minflow/pkg/domain"
)

// ToDomainGraph конвертирует wire-граф во внутреннее представление
func ToDomainGraph(g *apiv1.Graph) (*domain.Graph, error) {
	dg := domain.NewGraph(g.NumNodes)
	for _, e := range g.Edges {
		if err := dg.AddEdge(e.Source, e.Sink, e.Capacity, e.Cost); err != nil {
			return nil, err
		}
	}
	return dg, nil
}

// FromDomainGraph конвертирует внутренний граф обратно в wire-формат
func FromDomainGraph(g *domain.Graph) *apiv1.Graph {
	if g == nil {
		return nil
	}

	edges := g.Edges()
	out := &apiv1.Graph{
		NumNodes: g.NumNodes(),
		Edges:    make([]apiv1.Edge, 0, len(edges)),
	}
	for _, e := range edges {
		out.Edges = append(out.Edges, apiv1.Edge{
			Source:   e.Source,
			Sink:     e.Sink,
			Capacity: e.Capacity,
			Cost:     e.Cost,
		})
	}
	return out
}

// ToFlowEdges извлекает рёбра с положительным потоком из результата решения.
//
// The flow graph assigns each original edge its routed flow as capacity;
// the network supplies the capacity limit for utilization. Edges the flow
// never touched are omitted. The result is ordered by source, then sink.
func ToFlowEdges(flow, network *domain.Graph) []apiv1.FlowEdge {
	if flow == nil {
		return nil
	}

	var result []apiv1.FlowEdge
	for _, e := range flow.Edges() {
		if e.Capacity == 0 {
			continue
		}

		fe := apiv1.FlowEdge{
			Source: e.Source,
			Sink:   e.Sink,
			Flow:   e.Capacity,
			Cost:   e.Cost,
		}
		if network != nil {
			if limit, err := network.GetEdge(e.Source, e.Sink); err == nil {
				fe.Capacity = limit.Capacity
				if limit.Capacity > 0 {
					fe.Utilization = float64(e.Capacity) / float64(limit.Capacity)
				}
			}
		}
		result = append(result, fe)
	}

	sortFlowEdges(result)
	return result
}

// FlowEdgesFromCache восстанавливает wire-рёбра из кэшированного результата
func FlowEdgesFromCache(cached *cache.CachedSolveResult, network *domain.Graph) []apiv1.FlowEdge {
	if cached == nil {
		return nil
	}

	result := make([]apiv1.FlowEdge, 0, len(cached.FlowEdges))
	for _, e := range cached.FlowEdges {
		if e.Flow == 0 {
			continue
		}

		fe := apiv1.FlowEdge{
			Source: e.From,
			Sink:   e.To,
			Flow:   e.Flow,
			Cost:   e.Cost,
		}
		if network != nil {
			if limit, err := network.GetEdge(e.From, e.To); err == nil {
				fe.Capacity = limit.Capacity
				if limit.Capacity > 0 {
					fe.Utilization = float64(e.Flow) / float64(limit.Capacity)
				}
			}
		}
		result = append(result, fe)
	}

	sortFlowEdges(result)
	return result
}

// FlowGraphFromEdges восстанавливает граф потока из сохранённых рёбер.
//
// Stored flow edges omit rows the flow never touched, while the flow
// statistics expect every network edge to be present with its routed
// flow as capacity. Missing rows are rebuilt with zero flow; a stored
// edge that is not part of the network reports an error.
func FlowGraphFromEdges(network *domain.Graph, edges []apiv1.FlowEdge) (*domain.Graph, error) {
	if network == nil {
		return nil, fmt.Errorf("network graph is required")
	}

	type pair struct{ source, sink int }
	routed := make(map[pair]int64, len(edges))
	for _, e := range edges {
		routed[pair{e.Source, e.Sink}] = e.Flow
	}

	flow := domain.NewGraph(network.NumNodes())
	for _, e := range network.Edges() {
		p := pair{e.Source, e.Sink}
		if err := flow.AddEdge(e.Source, e.Sink, routed[p], e.Cost); err != nil {
			return nil, err
		}
		delete(routed, p)
	}
	for p := range routed {
		return nil, fmt.Errorf("flow edge %d -> %d is not part of the network", p.source, p.sink)
	}
	return flow, nil
}

func sortFlowEdges(edges []apiv1.FlowEdge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Sink < edges[j].Sink
	})
}

// ToFlowStats конвертирует статистику потока в wire-формат
func ToFlowStats(s *domain.FlowStatistics) *apiv1.FlowStats {
	if s == nil {
		return nil
	}
	return &apiv1.FlowStats{
		TotalFlow:          s.TotalFlow,
		TotalCost:          s.TotalCost,
		AverageUtilization: s.AverageUtilization,
		MaxUtilization:     s.MaxUtilization,
		SaturatedEdges:     s.SaturatedEdges,
		ActiveEdges:        s.ActiveEdges,
		ZeroFlowEdges:      s.ZeroFlowEdges,
	}
}

// ToGraphStats конвертирует статистику графа в wire-формат
func ToGraphStats(s *domain.GraphStatistics) *apiv1.GraphStats {
	if s == nil {
		return nil
	}
	return &apiv1.GraphStats{
		NodeCount:     s.NodeCount,
		EdgeCount:     s.EdgeCount,
		TotalCapacity: s.TotalCapacity,
		TotalCost:     s.TotalCost,
		Density:       s.Density,
		AverageDegree: s.AverageDegree,
		MaxDegree:     s.MaxDegree,
		MinDegree:     s.MinDegree,
		IsConnected:   s.IsConnected,
	}
}

// ToAlgorithmInfos конвертирует метаданные алгоритмов в wire-формат
func ToAlgorithmInfos(infos []*algorithms.AlgorithmInfo) []apiv1.AlgorithmInfo {
	result := make([]apiv1.AlgorithmInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, apiv1.AlgorithmInfo{
			Algorithm:             string(info.Algorithm),
			Name:                  info.Name,
			Description:           info.Description,
			TimeComplexity:        info.TimeComplexity,
			SpaceComplexity:       info.SpaceComplexity,
			SupportsMinCost:       info.SupportsMinCost,
			SupportsNegativeCosts: info.SupportsNegativeCosts,
			BestFor:               info.BestFor,
			Caveats:               info.Caveats,
		})
	}
	return result
}

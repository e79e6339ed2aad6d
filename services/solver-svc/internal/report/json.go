package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// JSONGenerator генератор JSON отчётов
type JSONGenerator struct {
	BaseGenerator
}

// NewJSONGenerator создаёт новый генератор
func NewJSONGenerator() *JSONGenerator {
	return &JSONGenerator{}
}

// Format возвращает формат генератора
func (g *JSONGenerator) Format() Format {
	return FormatJSON
}

// JSONReport структура JSON отчёта
type JSONReport struct {
	Metadata   JSONMetadata    `json:"metadata"`
	Solution   JSONSolution    `json:"solution"`
	FlowStats  *JSONFlowStats  `json:"flowStats,omitempty"`
	GraphStats *JSONGraphStats `json:"graphStats,omitempty"`
	Edges      []*JSONFlowEdge `json:"edges,omitempty"`
}

type JSONMetadata struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	GeneratedAt string `json:"generatedAt"`
	GeneratedBy string `json:"generatedBy"`
	Version     string `json:"version"`
}

type JSONSolution struct {
	ID             string   `json:"id"`
	Name           string   `json:"name,omitempty"`
	Algorithm      string   `json:"algorithm"`
	GraphHash      string   `json:"graphHash"`
	NodeCount      int      `json:"nodeCount"`
	EdgeCount      int      `json:"edgeCount"`
	MaxFlow        int64    `json:"maxFlow"`
	MinCost        int64    `json:"minCost"`
	Iterations     int      `json:"iterations"`
	CyclesCanceled int      `json:"cyclesCanceled"`
	DurationMs     float64  `json:"durationMs"`
	Tags           []string `json:"tags,omitempty"`
	CreatedBy      string   `json:"createdBy,omitempty"`
	SolvedAt       string   `json:"solvedAt"`
}

type JSONFlowEdge struct {
	From        int     `json:"from"`
	To          int     `json:"to"`
	Flow        int64   `json:"flow"`
	Capacity    int64   `json:"capacity"`
	Cost        int64   `json:"cost"`
	Utilization float64 `json:"utilization"`
}

type JSONFlowStats struct {
	TotalFlow          int64   `json:"totalFlow"`
	TotalCost          int64   `json:"totalCost"`
	AverageUtilization float64 `json:"averageUtilization"`
	MaxUtilization     float64 `json:"maxUtilization"`
	SaturatedEdges     int64   `json:"saturatedEdges"`
	ActiveEdges        int64   `json:"activeEdges"`
	ZeroFlowEdges      int64   `json:"zeroFlowEdges"`
}

type JSONGraphStats struct {
	NodeCount     int64   `json:"nodeCount"`
	EdgeCount     int64   `json:"edgeCount"`
	TotalCapacity int64   `json:"totalCapacity"`
	TotalCost     int64   `json:"totalCost"`
	Density       float64 `json:"density"`
	AverageDegree float64 `json:"averageDegree"`
	MaxDegree     int     `json:"maxDegree"`
	MinDegree     int     `json:"minDegree"`
	IsConnected   bool    `json:"isConnected"`
}

// Generate генерирует JSON отчёт
func (g *JSONGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	if data.Solution == nil {
		return nil, fmt.Errorf("json report requires a solution")
	}

	sol := data.Solution

	report := JSONReport{
		Metadata: JSONMetadata{
			Title:       g.GetTitle(data),
			Author:      g.GetAuthor(data),
			Description: g.GetDescription(data),
			GeneratedAt: time.Now().Format(time.RFC3339),
			GeneratedBy: g.GetCompanyName(data),
			Version:     "1.0",
		},
		Solution: JSONSolution{
			ID:             sol.ID,
			Name:           sol.Name,
			Algorithm:      sol.Algorithm,
			GraphHash:      sol.GraphHash,
			NodeCount:      sol.NodeCount,
			EdgeCount:      sol.EdgeCount,
			MaxFlow:        sol.MaxFlow,
			MinCost:        sol.MinCost,
			Iterations:     sol.Iterations,
			CyclesCanceled: sol.CyclesCanceled,
			DurationMs:     sol.DurationMs,
			Tags:           sol.Tags,
			CreatedBy:      sol.CreatedBy,
			SolvedAt:       sol.CreatedAt.Format(time.RFC3339),
		},
	}

	if data.FlowStats != nil {
		fs := data.FlowStats
		report.FlowStats = &JSONFlowStats{
			TotalFlow:          fs.TotalFlow,
			TotalCost:          fs.TotalCost,
			AverageUtilization: fs.AverageUtilization,
			MaxUtilization:     fs.MaxUtilization,
			SaturatedEdges:     fs.SaturatedEdges,
			ActiveEdges:        fs.ActiveEdges,
			ZeroFlowEdges:      fs.ZeroFlowEdges,
		}
	}

	if data.GraphStats != nil {
		gs := data.GraphStats
		report.GraphStats = &JSONGraphStats{
			NodeCount:     gs.NodeCount,
			EdgeCount:     gs.EdgeCount,
			TotalCapacity: gs.TotalCapacity,
			TotalCost:     gs.TotalCost,
			Density:       gs.Density,
			AverageDegree: gs.AverageDegree,
			MaxDegree:     gs.MaxDegree,
			MinDegree:     gs.MinDegree,
			IsConnected:   gs.IsConnected,
		}
	}

	if g.ShouldIncludeRawData(data) {
		for _, e := range sol.FlowEdges {
			if e.Flow <= 0 {
				continue
			}
			report.Edges = append(report.Edges, &JSONFlowEdge{
				From:        e.Source,
				To:          e.Sink,
				Flow:        e.Flow,
				Capacity:    e.Capacity,
				Cost:        e.Cost,
				Utilization: e.Utilization,
			})
		}
	}

	return json.MarshalIndent(report, "", "  ")
}

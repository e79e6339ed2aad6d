package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
)

// CSVGenerator генератор CSV отчётов
type CSVGenerator struct {
	BaseGenerator
}

// NewCSVGenerator создаёт новый генератор
func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

// Format возвращает формат генератора
func (g *CSVGenerator) Format() Format {
	return FormatCSV
}

// csvWriter обёртка для отслеживания ошибок
type csvWriter struct {
	w   *csv.Writer
	err error
}

func (cw *csvWriter) Write(record []string) {
	if cw.err != nil {
		return
	}
	cw.err = cw.w.Write(record)
}

func (cw *csvWriter) Flush() {
	if cw.err != nil {
		return
	}
	cw.w.Flush()
	cw.err = cw.w.Error()
}

func (cw *csvWriter) Error() error {
	return cw.err
}

// Generate генерирует CSV отчёт
func (g *CSVGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	if data.Solution == nil {
		return nil, fmt.Errorf("csv report requires a solution")
	}

	var buf bytes.Buffer
	cw := &csvWriter{w: csv.NewWriter(&buf)}

	g.writeSolutionCSV(cw, data)

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("csv write error: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *CSVGenerator) writeSolutionCSV(w *csvWriter, data *ReportData) {
	sol := data.Solution

	w.Write([]string{"# " + g.GetTitle(data)})
	w.Write([]string{"# Generated", time.Now().Format("2006-01-02 15:04:05"), "by", g.GetCompanyName(data)})
	w.Write([]string{""})

	w.Write([]string{"Solution Info"})
	w.Write([]string{"ID", sol.ID})
	if sol.Name != "" {
		w.Write([]string{"Name", sol.Name})
	}
	w.Write([]string{"Algorithm", sol.Algorithm})
	w.Write([]string{"Graph Hash", sol.GraphHash})
	w.Write([]string{"Nodes", fmt.Sprintf("%d", sol.NodeCount)})
	w.Write([]string{"Edges", fmt.Sprintf("%d", sol.EdgeCount)})
	if len(sol.Tags) > 0 {
		w.Write([]string{"Tags", strings.Join(sol.Tags, ";")})
	}
	if sol.CreatedBy != "" {
		w.Write([]string{"Created By", sol.CreatedBy})
	}
	w.Write([]string{"Solved At", g.FormatTimestamp(sol.CreatedAt)})
	w.Write([]string{""})

	w.Write([]string{"Results"})
	w.Write([]string{"Max Flow", fmt.Sprintf("%d", sol.MaxFlow)})
	w.Write([]string{"Min Cost", fmt.Sprintf("%d", sol.MinCost)})
	w.Write([]string{"Iterations", fmt.Sprintf("%d", sol.Iterations)})
	w.Write([]string{"Cycles Canceled", fmt.Sprintf("%d", sol.CyclesCanceled)})
	w.Write([]string{"Computation Time (ms)", g.FormatFloat(sol.DurationMs, 2)})
	w.Write([]string{""})

	if data.FlowStats != nil {
		fs := data.FlowStats
		w.Write([]string{"Flow Statistics"})
		w.Write([]string{"Active Edges", fmt.Sprintf("%d", fs.ActiveEdges)})
		w.Write([]string{"Saturated Edges", fmt.Sprintf("%d", fs.SaturatedEdges)})
		w.Write([]string{"Zero-Flow Edges", fmt.Sprintf("%d", fs.ZeroFlowEdges)})
		w.Write([]string{"Average Utilization", g.FormatFloat(fs.AverageUtilization, 4)})
		w.Write([]string{"Max Utilization", g.FormatFloat(fs.MaxUtilization, 4)})
		w.Write([]string{""})
	}

	if data.GraphStats != nil {
		gs := data.GraphStats
		w.Write([]string{"Graph Statistics"})
		w.Write([]string{"Total Capacity", fmt.Sprintf("%d", gs.TotalCapacity)})
		w.Write([]string{"Total Cost", fmt.Sprintf("%d", gs.TotalCost)})
		w.Write([]string{"Density", g.FormatFloat(gs.Density, 4)})
		w.Write([]string{"Average Degree", g.FormatFloat(gs.AverageDegree, 2)})
		w.Write([]string{"Connected", fmt.Sprintf("%v", gs.IsConnected)})
		w.Write([]string{""})
	}

	if len(sol.FlowEdges) > 0 && g.ShouldIncludeRawData(data) {
		w.Write([]string{"Edge Flows"})
		w.Write([]string{"From", "To", "Flow", "Capacity", "Cost", "Utilization"})
		for _, edge := range sol.FlowEdges {
			if edge.Flow <= 0 {
				continue
			}
			w.Write([]string{
				fmt.Sprintf("%d", edge.Source),
				fmt.Sprintf("%d", edge.Sink),
				fmt.Sprintf("%d", edge.Flow),
				fmt.Sprintf("%d", edge.Capacity),
				fmt.Sprintf("%d", edge.Cost),
				g.FormatFloat(edge.Utilization, 4),
			})
		}
	}
}

package report

import (
	"context"
	"encoding/json"
	"testing"
)

func TestNewJSONGenerator(t *testing.T) {
	g := NewJSONGenerator()
	if g == nil {
		t.Fatal("NewJSONGenerator should not return nil")
	}
}

func TestJSONGenerator_Format(t *testing.T) {
	g := NewJSONGenerator()
	if g.Format() != FormatJSON {
		t.Errorf("Format() = %v, want json", g.Format())
	}
}

func TestJSONGenerator_Generate(t *testing.T) {
	g := NewJSONGenerator()
	ctx := context.Background()

	data := testReportData()
	data.Options = &Options{
		Title:          "Test Flow Report",
		Author:         "Test Author",
		IncludeRawData: true,
	}

	result, err := g.Generate(ctx, data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Проверяем валидность JSON
	var report JSONReport
	if err := json.Unmarshal(result, &report); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	// Метаданные
	if report.Metadata.Title != "Test Flow Report" {
		t.Errorf("Title = %v, want 'Test Flow Report'", report.Metadata.Title)
	}
	if report.Metadata.Author != "Test Author" {
		t.Errorf("Author = %v, want 'Test Author'", report.Metadata.Author)
	}
	if report.Metadata.GeneratedBy != "minflow" {
		t.Errorf("GeneratedBy = %v, want minflow", report.Metadata.GeneratedBy)
	}

	// Решение
	if report.Solution.MaxFlow != 2 {
		t.Errorf("MaxFlow = %d, want 2", report.Solution.MaxFlow)
	}
	if report.Solution.MinCost != 6 {
		t.Errorf("MinCost = %d, want 6", report.Solution.MinCost)
	}
	if report.Solution.Algorithm != "cycle_canceling" {
		t.Errorf("Algorithm = %v, want cycle_canceling", report.Solution.Algorithm)
	}
	if report.Solution.SolvedAt == "" {
		t.Error("SolvedAt should not be empty")
	}

	// Статистика
	if report.FlowStats == nil {
		t.Fatal("FlowStats should not be nil")
	}
	if report.FlowStats.SaturatedEdges != 3 {
		t.Errorf("SaturatedEdges = %d, want 3", report.FlowStats.SaturatedEdges)
	}
	if report.GraphStats == nil {
		t.Fatal("GraphStats should not be nil")
	}
	if !report.GraphStats.IsConnected {
		t.Error("IsConnected should be true")
	}

	// Рёбра с потоком
	if len(report.Edges) != 4 {
		t.Fatalf("Edges count = %d, want 4", len(report.Edges))
	}
	if report.Edges[0].From != 0 || report.Edges[0].To != 1 {
		t.Errorf("first edge = %d->%d, want 0->1", report.Edges[0].From, report.Edges[0].To)
	}
	if report.Edges[0].Flow != 2 {
		t.Errorf("first edge flow = %d, want 2", report.Edges[0].Flow)
	}
}

func TestJSONGenerator_Generate_NoRawData(t *testing.T) {
	g := NewJSONGenerator()
	ctx := context.Background()

	data := testReportData()
	data.Options = &Options{IncludeRawData: false}

	result, err := g.Generate(ctx, data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var report JSONReport
	if err := json.Unmarshal(result, &report); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	if len(report.Edges) != 0 {
		t.Errorf("Edges count = %d, want 0 without raw data", len(report.Edges))
	}

	// Сводка решения остаётся в отчёте
	if report.Solution.MaxFlow != 2 {
		t.Errorf("MaxFlow = %d, want 2", report.Solution.MaxFlow)
	}
}

func TestJSONGenerator_Generate_NilSolution(t *testing.T) {
	g := NewJSONGenerator()
	ctx := context.Background()

	if _, err := g.Generate(ctx, &ReportData{}); err == nil {
		t.Error("Generate() should fail without a solution")
	}
}

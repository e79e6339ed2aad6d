package report

import (
	"context"
	"strings"
	"testing"
)

func TestNewCSVGenerator(t *testing.T) {
	g := NewCSVGenerator()
	if g == nil {
		t.Fatal("NewCSVGenerator should not return nil")
	}
}

func TestCSVGenerator_Format(t *testing.T) {
	g := NewCSVGenerator()
	if g.Format() != FormatCSV {
		t.Errorf("Format() = %v, want csv", g.Format())
	}
}

func TestCSVGenerator_Generate(t *testing.T) {
	g := NewCSVGenerator()
	ctx := context.Background()

	data := testReportData()
	data.Options = &Options{IncludeRawData: true}

	result, err := g.Generate(ctx, data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	csv := string(result)

	// Проверяем наличие ключевых элементов
	if !strings.Contains(csv, "Flow Solution: nightly-run") {
		t.Error("CSV should contain the report title")
	}
	if !strings.Contains(csv, "cycle_canceling") {
		t.Error("CSV should contain the algorithm")
	}
	if !strings.Contains(csv, "Max Flow,2") {
		t.Error("CSV should contain max flow value")
	}
	if !strings.Contains(csv, "Min Cost,6") {
		t.Error("CSV should contain min cost value")
	}
	if !strings.Contains(csv, "From,To,Flow,Capacity,Cost,Utilization") {
		t.Error("CSV should contain the edge flows header")
	}
	if !strings.Contains(csv, "Tags,test;nightly") {
		t.Error("CSV should contain tags")
	}
}

func TestCSVGenerator_Generate_EdgeRows(t *testing.T) {
	g := NewCSVGenerator()
	ctx := context.Background()

	result, err := g.Generate(ctx, testReportData())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	csv := string(result)

	// Все четыре ребра с ненулевым потоком присутствуют
	for _, row := range []string{"0,1,2,2,1,", "1,2,1,1,1,", "1,3,1,1,3,", "2,3,1,2,1,"} {
		if !strings.Contains(csv, row) {
			t.Errorf("CSV should contain edge row prefix %q", row)
		}
	}
}

func TestCSVGenerator_Generate_NoRawData(t *testing.T) {
	g := NewCSVGenerator()
	ctx := context.Background()

	data := testReportData()
	data.Options = &Options{IncludeRawData: false}

	result, err := g.Generate(ctx, data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	csv := string(result)

	if strings.Contains(csv, "Edge Flows") {
		t.Error("CSV should not contain the edge table without raw data")
	}
	if !strings.Contains(csv, "Max Flow,2") {
		t.Error("CSV should still contain solution results")
	}
}

func TestCSVGenerator_Generate_NilSolution(t *testing.T) {
	g := NewCSVGenerator()
	ctx := context.Background()

	if _, err := g.Generate(ctx, &ReportData{}); err == nil {
		t.Error("Generate() should fail without a solution")
	}
}

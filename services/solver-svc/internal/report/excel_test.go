package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestNewExcelGenerator(t *testing.T) {
	g := NewExcelGenerator()
	if g == nil {
		t.Fatal("NewExcelGenerator should not return nil")
	}
}

func TestExcelGenerator_Format(t *testing.T) {
	g := NewExcelGenerator()
	if g.Format() != FormatXLSX {
		t.Errorf("Format() = %v, want xlsx", g.Format())
	}
}

func TestExcelGenerator_Generate(t *testing.T) {
	g := NewExcelGenerator()
	ctx := context.Background()

	data := testReportData()
	data.Options = &Options{
		Title:          "Excel Flow Report",
		IncludeRawData: true,
	}

	result, err := g.Generate(ctx, data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Проверяем что результат не пустой и начинается с XLSX signature
	if len(result) < 4 {
		t.Fatal("Excel file too small")
	}

	// XLSX files start with PK (zip signature)
	if result[0] != 'P' || result[1] != 'K' {
		t.Error("Result doesn't look like a valid XLSX file")
	}
}

func TestExcelGenerator_Generate_SheetContents(t *testing.T) {
	g := NewExcelGenerator()
	ctx := context.Background()

	data := testReportData()
	data.Options = &Options{
		Title:          "Excel Flow Report",
		IncludeRawData: true,
	}

	result, err := g.Generate(ctx, data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue("Solution", "A1")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if title != "Excel Flow Report" {
		t.Errorf("title cell = %q, want 'Excel Flow Report'", title)
	}

	idx, err := f.GetSheetIndex("Edge Flows")
	if err != nil {
		t.Fatalf("GetSheetIndex() error = %v", err)
	}
	if idx < 0 {
		t.Error("Edge Flows sheet should exist when raw data is included")
	}

	idx, err = f.GetSheetIndex("Input Graph")
	if err != nil {
		t.Fatalf("GetSheetIndex() error = %v", err)
	}
	if idx < 0 {
		t.Error("Input Graph sheet should exist when raw data is included")
	}

	// Первая строка таблицы потоков
	from, _ := f.GetCellValue("Edge Flows", "A2")
	if from != "0" {
		t.Errorf("first flow edge source = %q, want 0", from)
	}
}

func TestExcelGenerator_Generate_NoRawData(t *testing.T) {
	g := NewExcelGenerator()
	ctx := context.Background()

	data := testReportData()
	data.Options = &Options{IncludeRawData: false}

	result, err := g.Generate(ctx, data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex("Edge Flows")
	if err != nil {
		t.Fatalf("GetSheetIndex() error = %v", err)
	}
	if idx >= 0 {
		t.Error("Edge Flows sheet should be absent without raw data")
	}
}

func TestExcelGenerator_Generate_NilSolution(t *testing.T) {
	g := NewExcelGenerator()
	ctx := context.Background()

	if _, err := g.Generate(ctx, &ReportData{}); err == nil {
		t.Error("Generate() should fail without a solution")
	}
}

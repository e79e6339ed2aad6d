package report

import (
	"context"
	"testing"

	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
)

func TestNewPDFGenerator(t *testing.T) {
	g := NewPDFGenerator(nil)
	if g == nil {
		t.Fatal("NewPDFGenerator should not return nil")
	}
	if g.layout == nil {
		t.Fatal("nil layout should fall back to defaults")
	}
	if g.layout.PageSize != "A4" {
		t.Errorf("default page size = %v, want A4", g.layout.PageSize)
	}
}

func TestPDFGenerator_Format(t *testing.T) {
	g := NewPDFGenerator(nil)
	if g.Format() != FormatPDF {
		t.Errorf("Format() = %v, want pdf", g.Format())
	}
}

func TestPDFGenerator_Generate(t *testing.T) {
	g := NewPDFGenerator(nil)
	ctx := context.Background()

	data := testReportData()
	data.Options = &Options{
		Title:          "PDF Flow Report",
		Author:         "Test Author",
		IncludeRawData: true,
	}

	result, err := g.Generate(ctx, data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// PDF signature: %PDF-
	if len(result) < 5 {
		t.Fatal("PDF file too small")
	}
	if string(result[:5]) != "%PDF-" {
		t.Error("Result doesn't look like a valid PDF file")
	}
}

func TestPDFGenerator_Generate_LandscapeLetter(t *testing.T) {
	g := NewPDFGenerator(&PDFLayout{
		PageSize:    "Letter",
		Orientation: "landscape",
		MarginTop:   10,
		MarginLeft:  10,
		MarginRight: 10,
	})
	ctx := context.Background()

	result, err := g.Generate(ctx, testReportData())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if string(result[:5]) != "%PDF-" {
		t.Error("Result doesn't look like a valid PDF file")
	}
}

func TestPDFGenerator_Generate_EdgeTableCapped(t *testing.T) {
	g := NewPDFGenerator(nil)
	ctx := context.Background()

	data := testReportData()
	data.Options = &Options{
		IncludeRawData:  true,
		MaxEdgesInTable: 2,
	}

	result, err := g.Generate(ctx, data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if string(result[:5]) != "%PDF-" {
		t.Error("Result doesn't look like a valid PDF file")
	}
}

func TestPDFGenerator_Generate_WithoutStats(t *testing.T) {
	g := NewPDFGenerator(nil)
	ctx := context.Background()

	data := testReportData()
	data.FlowStats = nil
	data.GraphStats = nil

	result, err := g.Generate(ctx, data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if string(result[:5]) != "%PDF-" {
		t.Error("Result doesn't look like a valid PDF file")
	}
}

func TestPDFGenerator_Generate_NilSolution(t *testing.T) {
	g := NewPDFGenerator(nil)
	ctx := context.Background()

	if _, err := g.Generate(ctx, &ReportData{}); err == nil {
		t.Error("Generate() should fail without a solution")
	}
}

func TestPDFGenerator_PageSize(t *testing.T) {
	tests := []struct {
		configured string
		expected   pagesize.Type
	}{
		{"A4", pagesize.A4},
		{"A3", pagesize.A3},
		{"Letter", pagesize.Letter},
		{"Legal", pagesize.Legal},
		{"", pagesize.A4},
		{"unknown", pagesize.A4},
	}

	for _, tt := range tests {
		g := NewPDFGenerator(&PDFLayout{PageSize: tt.configured})
		if got := g.pageSize(); got != tt.expected {
			t.Errorf("pageSize(%q) = %v, want %v", tt.configured, got, tt.expected)
		}
	}
}

func TestPDFGenerator_Orientation(t *testing.T) {
	g := NewPDFGenerator(&PDFLayout{Orientation: "landscape"})
	if got := g.pageOrientation(); got != orientation.Horizontal {
		t.Errorf("pageOrientation(landscape) = %v, want horizontal", got)
	}

	g = NewPDFGenerator(&PDFLayout{Orientation: "portrait"})
	if got := g.pageOrientation(); got != orientation.Vertical {
		t.Errorf("pageOrientation(portrait) = %v, want vertical", got)
	}
}

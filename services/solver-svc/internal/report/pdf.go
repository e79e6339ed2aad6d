package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"

	apiv1 "minflow/pkg/api/v1"
)

// PDFLayout параметры страницы PDF отчёта
type PDFLayout struct {
	PageSize          string // A4, A3, Letter, Legal
	Orientation       string // portrait, landscape
	MarginTop         float64
	MarginBottom      float64
	MarginLeft        float64
	MarginRight       float64
	EnablePageNumbers bool
}

// DefaultPDFLayout возвращает параметры страницы по умолчанию
func DefaultPDFLayout() *PDFLayout {
	return &PDFLayout{
		PageSize:          "A4",
		Orientation:       "portrait",
		MarginTop:         15,
		MarginBottom:      10,
		MarginLeft:        15,
		MarginRight:       15,
		EnablePageNumbers: true,
	}
}

// PDFGenerator генератор PDF отчётов
type PDFGenerator struct {
	BaseGenerator
	layout *PDFLayout
}

// NewPDFGenerator создаёт новый генератор
func NewPDFGenerator(layout *PDFLayout) *PDFGenerator {
	if layout == nil {
		layout = DefaultPDFLayout()
	}
	return &PDFGenerator{layout: layout}
}

// Format возвращает формат генератора
func (g *PDFGenerator) Format() Format {
	return FormatPDF
}

// Стили
var (
	// Цвета
	primaryColor   = &props.Color{Red: 52, Green: 152, Blue: 219}  // #3498db
	headerBgColor  = &props.Color{Red: 44, Green: 62, Blue: 80}    // #2c3e50
	lightGrayColor = &props.Color{Red: 236, Green: 240, Blue: 241} // #ecf0f1
	darkGrayColor  = &props.Color{Red: 127, Green: 140, Blue: 141} // #7f8c8d

	// Стили текста
	titleStyle = props.Text{
		Size:  24,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: headerBgColor,
	}

	h2Style = props.Text{
		Size:  16,
		Style: fontstyle.Bold,
		Color: headerBgColor,
		Top:   5,
	}

	normalStyle = props.Text{
		Size: 10,
	}

	boldStyle = props.Text{
		Size:  10,
		Style: fontstyle.Bold,
	}

	smallStyle = props.Text{
		Size:  8,
		Color: darkGrayColor,
	}

	metricValueStyle = props.Text{
		Size:  20,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: primaryColor,
	}

	metricLabelStyle = props.Text{
		Size:  9,
		Align: align.Center,
		Color: darkGrayColor,
	}

	tableHeaderStyle = &props.Cell{
		BackgroundColor: primaryColor,
	}

	tableHeaderTextStyle = props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
		Align: align.Center,
	}

	tableCellStyle = &props.Cell{
		BorderType:  border.Bottom,
		BorderColor: lightGrayColor,
	}

	tableCellTextStyle = props.Text{
		Size:  9,
		Align: align.Center,
	}
)

// Generate генерирует PDF отчёт
func (g *PDFGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	if data.Solution == nil {
		return nil, fmt.Errorf("pdf report requires a solution")
	}

	m := maroto.New(g.buildConfig())

	g.addHeader(m, data)
	g.addSolutionContent(m, data)
	g.addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func (g *PDFGenerator) buildConfig() *entity.Config {
	builder := config.NewBuilder().
		WithPageSize(g.pageSize()).
		WithOrientation(g.pageOrientation()).
		WithLeftMargin(g.layout.MarginLeft).
		WithTopMargin(g.layout.MarginTop).
		WithRightMargin(g.layout.MarginRight).
		WithBottomMargin(g.layout.MarginBottom)

	if g.layout.EnablePageNumbers {
		builder = builder.WithPageNumber()
	}

	return builder.Build()
}

func (g *PDFGenerator) pageSize() pagesize.Type {
	switch g.layout.PageSize {
	case "A3":
		return pagesize.A3
	case "Letter":
		return pagesize.Letter
	case "Legal":
		return pagesize.Legal
	default:
		return pagesize.A4
	}
}

func (g *PDFGenerator) pageOrientation() orientation.Type {
	if g.layout.Orientation == "landscape" {
		return orientation.Horizontal
	}
	return orientation.Vertical
}

func (g *PDFGenerator) addHeader(m core.Maroto, data *ReportData) {
	m.AddRow(15,
		text.NewCol(12, g.GetTitle(data), titleStyle),
	)

	m.AddRow(5,
		line.NewCol(12),
	)

	// Метаданные
	m.AddRow(6,
		text.NewCol(6, fmt.Sprintf("Author: %s", g.GetAuthor(data)), smallStyle),
		text.NewCol(6, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Right}),
	)

	if desc := g.GetDescription(data); desc != "" {
		m.AddRow(5,
			text.NewCol(12, desc, smallStyle),
		)
	}

	m.AddRow(8) // Отступ
}

func (g *PDFGenerator) addSolutionContent(m core.Maroto, data *ReportData) {
	sol := data.Solution

	// Информация о сети
	g.addSection(m, "Network Information")
	g.addMetricCards(m, []metricCard{
		{Label: "Nodes", Value: fmt.Sprintf("%d", sol.NodeCount)},
		{Label: "Edges", Value: fmt.Sprintf("%d", sol.EdgeCount)},
		{Label: "Algorithm", Value: sol.Algorithm},
	})

	// Результаты оптимизации
	g.addSection(m, "Optimization Results")

	// Главные метрики
	g.addMetricCards(m, []metricCard{
		{Label: "Maximum Flow", Value: fmt.Sprintf("%d", sol.MaxFlow), Highlight: true},
		{Label: "Minimum Cost", Value: fmt.Sprintf("%d", sol.MinCost), Highlight: true},
	})

	// Дополнительные метрики
	m.AddRow(5)
	g.addMetricCards(m, []metricCard{
		{Label: "Iterations", Value: fmt.Sprintf("%d", sol.Iterations)},
		{Label: "Cycles Canceled", Value: fmt.Sprintf("%d", sol.CyclesCanceled)},
		{Label: "Computation Time", Value: g.FormatDuration(sol.DurationMs)},
	})

	// Статистика потока
	if data.FlowStats != nil {
		g.addSection(m, "Flow Statistics")
		fs := data.FlowStats
		g.addKeyValueTable(m, []keyValue{
			{"Active Edges", fmt.Sprintf("%d", fs.ActiveEdges)},
			{"Saturated Edges", fmt.Sprintf("%d", fs.SaturatedEdges)},
			{"Zero-Flow Edges", fmt.Sprintf("%d", fs.ZeroFlowEdges)},
			{"Average Utilization", g.FormatPercent(fs.AverageUtilization)},
			{"Max Utilization", g.FormatPercent(fs.MaxUtilization)},
		})
	}

	// Статистика графа
	if data.GraphStats != nil {
		g.addSection(m, "Graph Statistics")
		gs := data.GraphStats
		g.addKeyValueTable(m, []keyValue{
			{"Total Capacity", fmt.Sprintf("%d", gs.TotalCapacity)},
			{"Total Cost", fmt.Sprintf("%d", gs.TotalCost)},
			{"Density", g.FormatFloat(gs.Density, 4)},
			{"Average Degree", g.FormatFloat(gs.AverageDegree, 2)},
			{"Max Degree", fmt.Sprintf("%d", gs.MaxDegree)},
			{"Connected", fmt.Sprintf("%v", gs.IsConnected)},
		})
	}

	// Таблица потоков по рёбрам
	if len(sol.FlowEdges) > 0 && g.ShouldIncludeRawData(data) {
		g.addSection(m, "Edge Flows")
		g.addEdgeFlowsTable(m, data, sol.FlowEdges)
	}

	// Детали решения
	g.addSection(m, "Solution Details")
	details := []keyValue{
		{"Solution ID", sol.ID},
		{"Graph Hash", sol.GraphHash},
		{"Solved At", g.FormatTimestamp(sol.CreatedAt)},
	}
	if len(sol.Tags) > 0 {
		details = append(details, keyValue{"Tags", strings.Join(sol.Tags, ", ")})
	}
	if sol.CreatedBy != "" {
		details = append(details, keyValue{"Created By", sol.CreatedBy})
	}
	g.addKeyValueTable(m, details)
}

// === Вспомогательные методы ===

type metricCard struct {
	Label     string
	Value     string
	Highlight bool
}

func (g *PDFGenerator) addMetricCards(m core.Maroto, cards []metricCard) {
	if len(cards) == 0 {
		return
	}

	colSize := 12 / len(cards)
	if colSize < 2 {
		colSize = 2
	}

	var cols []core.Col
	for _, card := range cards {
		valueStyle := metricValueStyle
		if !card.Highlight {
			valueStyle.Size = 14
		}

		cols = append(cols,
			col.New(colSize).Add(
				text.New(card.Value, valueStyle),
				text.New(card.Label, metricLabelStyle),
			),
		)
	}

	m.AddRow(20, cols...)
}

type keyValue struct {
	Key   string
	Value string
}

func (g *PDFGenerator) addKeyValueTable(m core.Maroto, items []keyValue) {
	for _, item := range items {
		m.AddRow(6,
			text.NewCol(6, item.Key, boldStyle),
			text.NewCol(6, item.Value, normalStyle),
		)
	}
}

func (g *PDFGenerator) addSection(m core.Maroto, title string) {
	m.AddRow(10,
		text.NewCol(12, title, h2Style),
	)
	m.AddRow(2,
		line.NewCol(12, props.Line{Color: primaryColor}),
	)
	m.AddRow(5)
}

func (g *PDFGenerator) addEdgeFlowsTable(m core.Maroto, data *ReportData, edges []apiv1.FlowEdge) {
	// Заголовок
	m.AddRow(8,
		text.NewCol(2, "From", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "To", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Flow", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Capacity", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Cost", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Utilization", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
	)

	// Данные (ограничиваем количество строк для PDF)
	maxRows := g.MaxEdges(data)
	count := 0
	for _, edge := range edges {
		if edge.Flow <= 0 {
			continue
		}
		if maxRows > 0 && count >= maxRows {
			m.AddRow(6,
				text.NewCol(12, fmt.Sprintf("... and %d more rows", len(edges)-maxRows), smallStyle),
			)
			break
		}

		m.AddRow(6,
			text.NewCol(2, fmt.Sprintf("%d", edge.Source), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, fmt.Sprintf("%d", edge.Sink), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, fmt.Sprintf("%d", edge.Flow), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, fmt.Sprintf("%d", edge.Capacity), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, fmt.Sprintf("%d", edge.Cost), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, g.FormatPercent(edge.Utilization), tableCellTextStyle).WithStyle(tableCellStyle),
		)
		count++
	}
}

func (g *PDFGenerator) addFooter(m core.Maroto, data *ReportData) {
	m.AddRow(10)
	m.AddRow(2,
		line.NewCol(12, props.Line{Color: lightGrayColor}),
	)
	m.AddRow(6,
		text.NewCol(12,
			fmt.Sprintf("Generated by %s | %s", g.GetCompanyName(data), time.Now().Format("2006-01-02 15:04:05")),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Center},
		),
	)
}

package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelGenerator генератор XLSX отчётов
type ExcelGenerator struct {
	BaseGenerator
}

// NewExcelGenerator создаёт новый генератор
func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

// Format возвращает формат генератора
func (g *ExcelGenerator) Format() Format {
	return FormatXLSX
}

// Generate генерирует XLSX отчёт
func (g *ExcelGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	if data.Solution == nil {
		return nil, fmt.Errorf("xlsx report requires a solution")
	}

	f := excelize.NewFile()
	defer f.Close()

	// Удаляем дефолтный лист
	f.DeleteSheet("Sheet1")

	g.writeSolutionSheet(f, data)

	if g.ShouldIncludeRawData(data) {
		g.writeFlowSheet(f, data)
		g.writeGraphSheet(f, data)
	}

	// Записываем в буфер
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g *ExcelGenerator) headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return style
}

func (g *ExcelGenerator) writeSolutionSheet(f *excelize.File, data *ReportData) {
	sheetName := "Solution"
	f.NewSheet(sheetName)

	headerStyle := g.headerStyle(f)
	sol := data.Solution

	row := 1

	// Заголовок
	f.SetCellValue(sheetName, cellAddr("A", row), g.GetTitle(data))
	f.MergeCell(sheetName, cellAddr("A", row), cellAddr("D", row))
	row += 2

	// Информация о сети
	f.SetCellValue(sheetName, cellAddr("A", row), "Graph Information")
	f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("B", row), headerStyle)
	row++

	f.SetCellValue(sheetName, cellAddr("A", row), "Nodes")
	f.SetCellValue(sheetName, cellAddr("B", row), sol.NodeCount)
	row++

	f.SetCellValue(sheetName, cellAddr("A", row), "Edges")
	f.SetCellValue(sheetName, cellAddr("B", row), sol.EdgeCount)
	row++

	f.SetCellValue(sheetName, cellAddr("A", row), "Graph Hash")
	f.SetCellValue(sheetName, cellAddr("B", row), sol.GraphHash)
	row += 2

	// Результаты оптимизации
	f.SetCellValue(sheetName, cellAddr("A", row), "Optimization Results")
	f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("B", row), headerStyle)
	row++

	f.SetCellValue(sheetName, cellAddr("A", row), "Algorithm")
	f.SetCellValue(sheetName, cellAddr("B", row), sol.Algorithm)
	row++

	f.SetCellValue(sheetName, cellAddr("A", row), "Max Flow")
	f.SetCellValue(sheetName, cellAddr("B", row), sol.MaxFlow)
	row++

	f.SetCellValue(sheetName, cellAddr("A", row), "Min Cost")
	f.SetCellValue(sheetName, cellAddr("B", row), sol.MinCost)
	row++

	f.SetCellValue(sheetName, cellAddr("A", row), "Iterations")
	f.SetCellValue(sheetName, cellAddr("B", row), sol.Iterations)
	row++

	f.SetCellValue(sheetName, cellAddr("A", row), "Cycles Canceled")
	f.SetCellValue(sheetName, cellAddr("B", row), sol.CyclesCanceled)
	row++

	f.SetCellValue(sheetName, cellAddr("A", row), "Computation Time (ms)")
	f.SetCellValue(sheetName, cellAddr("B", row), sol.DurationMs)
	row++

	f.SetCellValue(sheetName, cellAddr("A", row), "Solved At")
	f.SetCellValue(sheetName, cellAddr("B", row), g.FormatTimestamp(sol.CreatedAt))
	row += 2

	// Статистика потока
	if data.FlowStats != nil {
		fs := data.FlowStats

		f.SetCellValue(sheetName, cellAddr("A", row), "Flow Statistics")
		f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("B", row), headerStyle)
		row++

		f.SetCellValue(sheetName, cellAddr("A", row), "Active Edges")
		f.SetCellValue(sheetName, cellAddr("B", row), fs.ActiveEdges)
		row++

		f.SetCellValue(sheetName, cellAddr("A", row), "Saturated Edges")
		f.SetCellValue(sheetName, cellAddr("B", row), fs.SaturatedEdges)
		row++

		f.SetCellValue(sheetName, cellAddr("A", row), "Zero-Flow Edges")
		f.SetCellValue(sheetName, cellAddr("B", row), fs.ZeroFlowEdges)
		row++

		f.SetCellValue(sheetName, cellAddr("A", row), "Average Utilization")
		f.SetCellValue(sheetName, cellAddr("B", row), fs.AverageUtilization)
		row++

		f.SetCellValue(sheetName, cellAddr("A", row), "Max Utilization")
		f.SetCellValue(sheetName, cellAddr("B", row), fs.MaxUtilization)
		row += 2
	}

	// Статистика графа
	if data.GraphStats != nil {
		gs := data.GraphStats

		f.SetCellValue(sheetName, cellAddr("A", row), "Graph Statistics")
		f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("B", row), headerStyle)
		row++

		f.SetCellValue(sheetName, cellAddr("A", row), "Total Capacity")
		f.SetCellValue(sheetName, cellAddr("B", row), gs.TotalCapacity)
		row++

		f.SetCellValue(sheetName, cellAddr("A", row), "Total Cost")
		f.SetCellValue(sheetName, cellAddr("B", row), gs.TotalCost)
		row++

		f.SetCellValue(sheetName, cellAddr("A", row), "Density")
		f.SetCellValue(sheetName, cellAddr("B", row), gs.Density)
		row++

		f.SetCellValue(sheetName, cellAddr("A", row), "Average Degree")
		f.SetCellValue(sheetName, cellAddr("B", row), gs.AverageDegree)
		row++

		f.SetCellValue(sheetName, cellAddr("A", row), "Connected")
		f.SetCellValue(sheetName, cellAddr("B", row), gs.IsConnected)
		row++
	}

	f.SetColWidth(sheetName, "A", "B", 22)
}

func (g *ExcelGenerator) writeFlowSheet(f *excelize.File, data *ReportData) {
	if len(data.Solution.FlowEdges) == 0 {
		return
	}

	sheetName := "Edge Flows"
	f.NewSheet(sheetName)

	headerStyle := g.headerStyle(f)

	headers := []string{"From", "To", "Flow", "Capacity", "Cost", "Utilization"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cellAddr(string(rune('A'+i)), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", "F1", headerStyle)

	row := 2
	for _, edge := range data.Solution.FlowEdges {
		if edge.Flow <= 0 {
			continue
		}
		f.SetCellValue(sheetName, cellAddr("A", row), edge.Source)
		f.SetCellValue(sheetName, cellAddr("B", row), edge.Sink)
		f.SetCellValue(sheetName, cellAddr("C", row), edge.Flow)
		f.SetCellValue(sheetName, cellAddr("D", row), edge.Capacity)
		f.SetCellValue(sheetName, cellAddr("E", row), edge.Cost)
		f.SetCellValue(sheetName, cellAddr("F", row), edge.Utilization)
		row++
	}

	f.SetColWidth(sheetName, "A", "F", 14)
}

func (g *ExcelGenerator) writeGraphSheet(f *excelize.File, data *ReportData) {
	if data.Solution.Graph == nil || len(data.Solution.Graph.Edges) == 0 {
		return
	}

	sheetName := "Input Graph"
	f.NewSheet(sheetName)

	headerStyle := g.headerStyle(f)

	headers := []string{"Source", "Sink", "Capacity", "Cost"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cellAddr(string(rune('A'+i)), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", "D1", headerStyle)

	for i, edge := range data.Solution.Graph.Edges {
		row := i + 2
		f.SetCellValue(sheetName, cellAddr("A", row), edge.Source)
		f.SetCellValue(sheetName, cellAddr("B", row), edge.Sink)
		f.SetCellValue(sheetName, cellAddr("C", row), edge.Capacity)
		f.SetCellValue(sheetName, cellAddr("D", row), edge.Cost)
	}

	f.SetColWidth(sheetName, "A", "D", 14)
}

// cellAddr формирует адрес ячейки
func cellAddr(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

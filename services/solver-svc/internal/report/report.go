// Package report генерирует отчёты по сохранённым решениям в форматах
// PDF, XLSX, JSON и CSV.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	apiv1 "minflow/pkg/api/v1"
)

// Format — формат отчёта
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// DefaultFormat используется, когда формат не указан
const DefaultFormat = FormatJSON

// ParseFormat разбирает формат из строки запроса
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultFormat, nil
	case "pdf":
		return FormatPDF, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

// ContentType возвращает MIME-тип формата
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// Extension возвращает расширение файла
func (f Format) Extension() string {
	return string(f)
}

// Options — настройки генерации отчёта
type Options struct {
	Title           string
	Author          string
	Description     string
	CompanyName     string
	IncludeRawData  bool // таблица рёбер с потоком
	MaxEdgesInTable int  // 0 — без ограничения
}

// ReportData — данные для генерации отчёта по одному решению
type ReportData struct {
	Solution   *apiv1.Solution
	FlowStats  *apiv1.FlowStats
	GraphStats *apiv1.GraphStats
	Options    *Options
}

// Generator интерфейс генератора отчётов
type Generator interface {
	Generate(ctx context.Context, data *ReportData) ([]byte, error)
	Format() Format
}

// BaseGenerator базовые утилиты для генераторов
type BaseGenerator struct{}

// GetTitle возвращает заголовок отчёта
func (b *BaseGenerator) GetTitle(data *ReportData) string {
	if data.Options != nil && data.Options.Title != "" {
		return data.Options.Title
	}
	if data.Solution != nil && data.Solution.Name != "" {
		return fmt.Sprintf("Flow Solution: %s", data.Solution.Name)
	}
	return "Minimum-Cost Flow Report"
}

// GetAuthor возвращает автора отчёта
func (b *BaseGenerator) GetAuthor(data *ReportData) string {
	if data.Options != nil && data.Options.Author != "" {
		return data.Options.Author
	}
	if data.Solution != nil && data.Solution.CreatedBy != "" {
		return data.Solution.CreatedBy
	}
	return "minflow"
}

// GetDescription возвращает описание
func (b *BaseGenerator) GetDescription(data *ReportData) string {
	if data.Options != nil {
		return data.Options.Description
	}
	return ""
}

// GetCompanyName возвращает название организации для подписи отчёта
func (b *BaseGenerator) GetCompanyName(data *ReportData) string {
	if data.Options != nil && data.Options.CompanyName != "" {
		return data.Options.CompanyName
	}
	return "minflow"
}

// ShouldIncludeRawData проверяет, нужна ли таблица рёбер
func (b *BaseGenerator) ShouldIncludeRawData(data *ReportData) bool {
	if data.Options == nil {
		return true
	}
	return data.Options.IncludeRawData
}

// MaxEdges возвращает лимит строк в таблице рёбер (0 — без лимита)
func (b *BaseGenerator) MaxEdges(data *ReportData) int {
	if data.Options == nil {
		return 0
	}
	return data.Options.MaxEdgesInTable
}

// FormatFloat форматирует число с заданной точностью
func (b *BaseGenerator) FormatFloat(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}

// FormatPercent форматирует долю как процент
func (b *BaseGenerator) FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// FormatDuration форматирует длительность в миллисекундах
func (b *BaseGenerator) FormatDuration(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.2f ms", ms)
	}
	return fmt.Sprintf("%.2f s", ms/1000)
}

// FormatTimestamp форматирует время
func (b *BaseGenerator) FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Стандартные ключи атрибутов
const (
	// Граф
	AttrGraphNodes  = "graph.nodes"
	AttrGraphEdges  = "graph.edges"
	AttrGraphSource = "graph.source"
	AttrGraphSink   = "graph.sink"

	// Алгоритм
	AttrAlgorithm      = "algorithm.name"
	AttrIterations     = "algorithm.iterations"
	AttrMaxFlow        = "algorithm.max_flow"
	AttrMinCost        = "algorithm.min_cost"
	AttrCyclesCanceled = "algorithm.cycles_canceled"

	// Валидация
	AttrValidationErrors   = "validation.errors"
	AttrValidationWarnings = "validation.warnings"
	AttrValidationPassed   = "validation.passed"

	// Решения и отчёты
	AttrSolutionID   = "solution.id"
	AttrReportFormat = "report.format"
)

// GraphAttributes возвращает атрибуты графа
func GraphAttributes(nodes, edges, source, sink int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphNodes, nodes),
		attribute.Int(AttrGraphEdges, edges),
		attribute.Int(AttrGraphSource, source),
		attribute.Int(AttrGraphSink, sink),
	}
}

// AlgorithmAttributes возвращает атрибуты алгоритма
func AlgorithmAttributes(name string, iterations, cyclesCanceled int, maxFlow, minCost float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrAlgorithm, name),
		attribute.Int(AttrIterations, iterations),
		attribute.Int(AttrCyclesCanceled, cyclesCanceled),
		attribute.Float64(AttrMaxFlow, maxFlow),
		attribute.Float64(AttrMinCost, minCost),
	}
}

// ValidationAttributes возвращает атрибуты валидации
func ValidationAttributes(errorsCount, warningsCount int, passed bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrValidationErrors, errorsCount),
		attribute.Int(AttrValidationWarnings, warningsCount),
		attribute.Bool(AttrValidationPassed, passed),
	}
}

// SolutionAttributes возвращает атрибуты сохранённого решения
func SolutionAttributes(id string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrSolutionID, id),
	}
}

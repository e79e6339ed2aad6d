package domain

// GraphStatistics статистика графа
type GraphStatistics struct {
	NodeCount     int64
	EdgeCount     int64
	TotalCapacity int64
	TotalCost     int64
	Density       float64
	AverageDegree float64
	MaxDegree     int
	MinDegree     int
	IsConnected   bool
}

// CalculateGraphStatistics вычисляет статистику графа
//
// Artificial nodes introduced by BuildResidualGraph are skipped, so the
// numbers describe the network as the caller defined it.
func CalculateGraphStatistics(g *Graph) *GraphStatistics {
	stats := &GraphStatistics{
		NodeCount: int64(g.StartingNumNodes()),
		MinDegree: int(^uint(0) >> 1), // MaxInt
	}

	degree := make([]int, g.StartingNumNodes())

	// Подсчёт рёбер и степеней
	for u := 0; u < g.NumNodes(); u++ {
		for _, e := range g.Adjacency(u) {
			if IsArtificialNode(g, e.Source) || IsArtificialNode(g, e.Sink) {
				continue
			}

			stats.EdgeCount++
			stats.TotalCapacity += e.Capacity
			stats.TotalCost += e.Cost

			degree[e.Source]++
			degree[e.Sink]++
		}
	}

	// Статистика степеней
	totalDegree := 0
	for _, d := range degree {
		totalDegree += d
		if d > stats.MaxDegree {
			stats.MaxDegree = d
		}
		if d < stats.MinDegree {
			stats.MinDegree = d
		}
	}
	if stats.NodeCount > 0 {
		stats.AverageDegree = float64(totalDegree) / float64(stats.NodeCount)
	}
	if stats.MinDegree == int(^uint(0)>>1) {
		stats.MinDegree = 0
	}

	// Плотность графа
	if stats.NodeCount > 1 {
		maxEdges := stats.NodeCount * (stats.NodeCount - 1)
		stats.Density = float64(stats.EdgeCount) / float64(maxEdges)
	}

	// Проверка связности
	stats.IsConnected = IsConnected(g)

	return stats
}

// IsConnected проверяет достижимость всех узлов из истока
//
// Direction is ignored: an edge in either orientation keeps two nodes
// in the same component. RemoveEdge can orphan a node, which makes the
// network unsolvable, so callers validate with this before solving.
func IsConnected(g *Graph) bool {
	n := g.NumNodes()
	if n == 0 {
		return false
	}
	if n == 1 {
		return true
	}

	undirected := make([][]int, n)
	for u := 0; u < n; u++ {
		for _, e := range g.Adjacency(u) {
			undirected[u] = append(undirected[u], e.Sink)
			undirected[e.Sink] = append(undirected[e.Sink], u)
		}
	}

	visited := AcquireBoolSlice(n)
	defer ReleaseBoolSlice(visited)
	queue := AcquireIntSlice(0)
	defer ReleaseIntSlice(queue)

	visited[Source] = true
	queue = append(queue, Source)
	reached := 1

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, v := range undirected[u] {
			if visited[v] {
				continue
			}
			visited[v] = true
			reached++
			queue = append(queue, v)
		}
	}

	return reached == n
}

// FlowStatistics статистика потока
type FlowStatistics struct {
	TotalFlow          int64
	TotalCost          int64
	AverageUtilization float64
	MaxUtilization     float64
	SaturatedEdges     int64
	ZeroFlowEdges      int64
	ActiveEdges        int64
}

// CalculateFlowStatistics вычисляет статистику потока
//
// The flow graph carries an assignment as produced by
// ExtractOptimalFlow: each edge's capacity is the flow routed over the
// matching network edge. Utilization of an edge is its flow divided by
// the capacity the network grants it.
func CalculateFlowStatistics(flow, network *Graph) *FlowStatistics {
	stats := &FlowStatistics{}

	var totalUtilization float64

	for u := 0; u < flow.NumNodes(); u++ {
		for _, e := range flow.Adjacency(u) {
			if e.Capacity == 0 {
				stats.ZeroFlowEdges++
				continue
			}

			// Исходящий поток из истока — суммарный поток сети
			if e.Source == Source {
				stats.TotalFlow += e.Capacity
			}

			stats.ActiveEdges++
			stats.TotalCost += e.Capacity * e.Cost

			limit, err := network.GetEdge(e.Source, e.Sink)
			if err != nil || limit.Capacity == 0 {
				continue
			}

			utilization := float64(e.Capacity) / float64(limit.Capacity)
			totalUtilization += utilization
			if utilization > stats.MaxUtilization {
				stats.MaxUtilization = utilization
			}
			if e.Capacity == limit.Capacity {
				stats.SaturatedEdges++
			}
		}
	}

	if stats.ActiveEdges > 0 {
		stats.AverageUtilization = totalUtilization / float64(stats.ActiveEdges)
	}

	return stats
}

// EfficiencyGrade определяет оценку эффективности
type EfficiencyGrade string

const (
	GradeA EfficiencyGrade = "A"
	GradeB EfficiencyGrade = "B"
	GradeC EfficiencyGrade = "C"
	GradeD EfficiencyGrade = "D"
	GradeF EfficiencyGrade = "F"
)

// EfficiencyReport отчёт об эффективности
type EfficiencyReport struct {
	OverallEfficiency   float64
	CapacityUtilization float64
	UnusedEdgesCount    int32
	SaturatedEdgesCount int32
	Grade               EfficiencyGrade
}

// CalculateEfficiency вычисляет эффективность использования сети
func CalculateEfficiency(flow, network *Graph) *EfficiencyReport {
	flowStats := CalculateFlowStatistics(flow, network)

	report := &EfficiencyReport{
		OverallEfficiency:   flowStats.AverageUtilization,
		CapacityUtilization: flowStats.AverageUtilization,
		UnusedEdgesCount:    int32(flowStats.ZeroFlowEdges),
		SaturatedEdgesCount: int32(flowStats.SaturatedEdges),
	}

	// Определяем оценку
	switch {
	case flowStats.AverageUtilization >= 0.8:
		report.Grade = GradeA
	case flowStats.AverageUtilization >= 0.6:
		report.Grade = GradeB
	case flowStats.AverageUtilization >= 0.4:
		report.Grade = GradeC
	case flowStats.AverageUtilization >= 0.2:
		report.Grade = GradeD
	default:
		report.Grade = GradeF
	}

	return report
}

// BottleneckInfo информация об узком месте
type BottleneckInfo struct {
	Source      int
	Sink        int
	Flow        int64
	Capacity    int64
	Utilization float64
	ImpactScore float64
	Severity    BottleneckSeverity
}

// BottleneckSeverity уровень критичности узкого места
type BottleneckSeverity int

const (
	SeverityLow BottleneckSeverity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String возвращает строковое представление уровня критичности
func (s BottleneckSeverity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// FindBottlenecks находит узкие места в сети
//
// Edges at or above threshold utilization are reported, most loaded
// first is not guaranteed: order follows the flow graph's adjacency.
func FindBottlenecks(flow, network *Graph, threshold float64) []*BottleneckInfo {
	var bottlenecks []*BottleneckInfo

	// Общий поток нужен для расчёта impact score
	var totalFlow int64
	for u := 0; u < flow.NumNodes(); u++ {
		for _, e := range flow.Adjacency(u) {
			if e.Source == Source {
				totalFlow += e.Capacity
			}
		}
	}

	for u := 0; u < flow.NumNodes(); u++ {
		for _, e := range flow.Adjacency(u) {
			if e.Capacity == 0 {
				continue
			}

			limit, err := network.GetEdge(e.Source, e.Sink)
			if err != nil || limit.Capacity == 0 {
				continue
			}

			utilization := float64(e.Capacity) / float64(limit.Capacity)
			if utilization < threshold {
				continue
			}

			var severity BottleneckSeverity
			switch {
			case utilization >= CriticalUtilizationThreshold:
				severity = SeverityCritical
			case utilization >= HighUtilizationThreshold:
				severity = SeverityHigh
			case utilization >= MediumUtilizationThreshold:
				severity = SeverityMedium
			default:
				severity = SeverityLow
			}

			impactScore := 0.0
			if totalFlow > 0 {
				impactScore = float64(e.Capacity) / float64(totalFlow)
			}

			bottlenecks = append(bottlenecks, &BottleneckInfo{
				Source:      e.Source,
				Sink:        e.Sink,
				Flow:        e.Capacity,
				Capacity:    limit.Capacity,
				Utilization: utilization,
				ImpactScore: impactScore,
				Severity:    severity,
			})
		}
	}

	return bottlenecks
}

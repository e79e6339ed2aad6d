// Package apiv1 defines the JSON wire types of the minflow HTTP API.
// The service handlers, the Go SDK in pkg/client and the integration
// tests all share these definitions, so request and response shapes
// cannot drift apart.
package apiv1

import "time"

// =============================================================================
// Graph payload
// =============================================================================

// Edge одно ребро сети
type Edge struct {
	Source   int   `json:"source"`
	Sink     int   `json:"sink"`
	Capacity int64 `json:"capacity"`
	Cost     int64 `json:"cost"`
}

// Graph транспортная сеть: узлы 0..num_nodes-1, направленные рёбра
type Graph struct {
	NumNodes int    `json:"num_nodes"`
	Edges    []Edge `json:"edges"`
}

// =============================================================================
// Solve
// =============================================================================

// SolveOptions опции решателя. Source/Sink указатели, потому что узел 0
// это валидное значение.
type SolveOptions struct {
	TimeoutSeconds float64 `json:"timeout_seconds,omitempty"`
	MaxIterations  int     `json:"max_iterations,omitempty"`
	Source         *int    `json:"source,omitempty"`
	Sink           *int    `json:"sink,omitempty"`
}

// SolveRequest запрос на решение задачи потока
type SolveRequest struct {
	Graph     Graph         `json:"graph"`
	Algorithm string        `json:"algorithm,omitempty"`
	Options   *SolveOptions `json:"options,omitempty"`
	Name      string        `json:"name,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
}

// FlowEdge ребро с назначенным потоком
type FlowEdge struct {
	Source      int     `json:"source"`
	Sink        int     `json:"sink"`
	Flow        int64   `json:"flow"`
	Capacity    int64   `json:"capacity"`
	Cost        int64   `json:"cost"`
	Utilization float64 `json:"utilization"`
}

// FlowStats агрегированная статистика потока
type FlowStats struct {
	TotalFlow          int64   `json:"total_flow"`
	TotalCost          int64   `json:"total_cost"`
	AverageUtilization float64 `json:"average_utilization"`
	MaxUtilization     float64 `json:"max_utilization"`
	SaturatedEdges     int64   `json:"saturated_edges"`
	ActiveEdges        int64   `json:"active_edges"`
	ZeroFlowEdges      int64   `json:"zero_flow_edges"`
}

// SolveResponse результат решения
type SolveResponse struct {
	SolutionID     string     `json:"solution_id,omitempty"`
	Algorithm      string     `json:"algorithm"`
	MaxFlow        int64      `json:"max_flow"`
	MinCost        int64      `json:"min_cost"`
	FlowEdges      []FlowEdge `json:"flow_edges"`
	Stats          *FlowStats `json:"stats,omitempty"`
	Iterations     int        `json:"iterations"`
	CyclesCanceled int        `json:"cycles_canceled"`
	DurationMs     float64    `json:"duration_ms"`
	Cached         bool       `json:"cached"`
}

// =============================================================================
// Validation
// =============================================================================

// ValidateRequest запрос на проверку графа
type ValidateRequest struct {
	Graph Graph `json:"graph"`
}

// Severity строки в ValidationIssue
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationIssue одна проблема, найденная при проверке
type ValidationIssue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// GraphStats структурная статистика сети
type GraphStats struct {
	NodeCount     int64   `json:"node_count"`
	EdgeCount     int64   `json:"edge_count"`
	TotalCapacity int64   `json:"total_capacity"`
	TotalCost     int64   `json:"total_cost"`
	Density       float64 `json:"density"`
	AverageDegree float64 `json:"average_degree"`
	MaxDegree     int     `json:"max_degree"`
	MinDegree     int     `json:"min_degree"`
	IsConnected   bool    `json:"is_connected"`
}

// ValidateResponse результат проверки: valid=false только при ошибках,
// предупреждения не мешают решению
type ValidateResponse struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues,omitempty"`
	Stats  *GraphStats       `json:"stats,omitempty"`
}

// =============================================================================
// Stored solutions
// =============================================================================

// Solution сохранённое решение. Graph и FlowEdges присутствуют только
// при запросе одного решения, списки их опускают.
type Solution struct {
	ID             string     `json:"id"`
	Name           string     `json:"name,omitempty"`
	Algorithm      string     `json:"algorithm"`
	GraphHash      string     `json:"graph_hash"`
	NodeCount      int        `json:"node_count"`
	EdgeCount      int        `json:"edge_count"`
	MaxFlow        int64      `json:"max_flow"`
	MinCost        int64      `json:"min_cost"`
	Iterations     int        `json:"iterations"`
	CyclesCanceled int        `json:"cycles_canceled"`
	DurationMs     float64    `json:"duration_ms"`
	Graph          *Graph     `json:"graph,omitempty"`
	FlowEdges      []FlowEdge `json:"flow_edges,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	CreatedBy      string     `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ListSolutionsResponse страница сохранённых решений
type ListSolutionsResponse struct {
	Solutions []Solution `json:"solutions"`
	Total     int64      `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// StatisticsResponse агрегаты по всем сохранённым решениям
type StatisticsResponse struct {
	TotalSolutions int64            `json:"total_solutions"`
	ByAlgorithm    map[string]int64 `json:"by_algorithm"`
	AvgDurationMs  float64          `json:"avg_duration_ms"`
	AvgMaxFlow     float64          `json:"avg_max_flow"`
	AvgMinCost     float64          `json:"avg_min_cost"`
	LargestGraph   int              `json:"largest_graph_nodes"`
	LastSolvedAt   *time.Time       `json:"last_solved_at,omitempty"`
}

// =============================================================================
// Algorithms
// =============================================================================

// AlgorithmInfo метаданные алгоритма из реестра
type AlgorithmInfo struct {
	Algorithm             string   `json:"algorithm"`
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	TimeComplexity        string   `json:"time_complexity"`
	SpaceComplexity       string   `json:"space_complexity"`
	SupportsMinCost       bool     `json:"supports_min_cost"`
	SupportsNegativeCosts bool     `json:"supports_negative_costs"`
	BestFor               []string `json:"best_for,omitempty"`
	Caveats               []string `json:"caveats,omitempty"`
}

// AlgorithmsResponse список алгоритмов и алгоритм по умолчанию
type AlgorithmsResponse struct {
	Algorithms []AlgorithmInfo `json:"algorithms"`
	Default    string          `json:"default"`
}

// =============================================================================
// Auth and probes
// =============================================================================

// TokenRequest обмен учётных данных на JWT
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse выданные токены
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// HealthResponse ответ /healthz
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ReadyResponse ответ /readyz с результатами проверок зависимостей
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

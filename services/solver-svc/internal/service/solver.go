// Package service содержит бизнес-логику solver-svc поверх решателя,
// хранилища решений, кэша и генераторов отчётов. Транспортный слой
// internal/api только декодирует запросы и кодирует ответы.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"minflow/pkg/algorithms"
	apiv1 "minflow/pkg/api/v1"
	"minflow/pkg/apperror"
	"minflow/pkg/cache"
	"minflow/pkg/config"
	"minflow/pkg/domain"
	"minflow/pkg/logger"
	"minflow/pkg/metrics"
	"minflow/pkg/middleware"
	"minflow/pkg/passhash"
	"minflow/pkg/telemetry"
	"minflow/services/solver-svc/internal/converter"
	"minflow/services/solver-svc/internal/report"
	"minflow/services/solver-svc/internal/repository"
)

// Пагинация списка решений
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// SolverService реализует операции API решателя
type SolverService struct {
	cfg        *config.Config
	repo       repository.Repository
	cache      *cache.SolverCache
	jwt        *passhash.JWTManager
	generators map[report.Format]report.Generator
	metrics    *metrics.Metrics
}

// NewSolverService создаёт сервис. repo, solverCache и jwt могут быть
// nil: без repo решения не сохраняются, без кэша каждый запрос
// решается заново, без jwt недоступен только выпуск токенов.
func NewSolverService(cfg *config.Config, repo repository.Repository, solverCache *cache.SolverCache, jwt *passhash.JWTManager) *SolverService {
	layout := &report.PDFLayout{
		PageSize:          cfg.Report.PDF.PageSize,
		Orientation:       cfg.Report.PDF.Orientation,
		MarginTop:         cfg.Report.PDF.MarginTop,
		MarginBottom:      cfg.Report.PDF.MarginBottom,
		MarginLeft:        cfg.Report.PDF.MarginLeft,
		MarginRight:       cfg.Report.PDF.MarginRight,
		EnablePageNumbers: cfg.Report.PDF.EnablePageNumbers,
	}

	return &SolverService{
		cfg:   cfg,
		repo:  repo,
		cache: solverCache,
		jwt:   jwt,
		generators: map[report.Format]report.Generator{
			report.FormatPDF:  report.NewPDFGenerator(layout),
			report.FormatXLSX: report.NewExcelGenerator(),
			report.FormatJSON: report.NewJSONGenerator(),
			report.FormatCSV:  report.NewCSVGenerator(),
		},
		metrics: metrics.Get(),
	}
}

// Solve решает задачу о потоке, сохраняет решение и кэширует результат
func (s *SolverService) Solve(ctx context.Context, req *apiv1.SolveRequest) (*apiv1.SolveResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "SolverService.Solve",
		trace.WithAttributes(
			attribute.String("algorithm", req.Algorithm),
			attribute.Int("nodes", req.Graph.NumNodes),
			attribute.Int("edges", len(req.Graph.Edges)),
		),
	)
	defer span.End()

	algo, err := algorithms.ParseAlgorithm(s.pickAlgorithm(req.Algorithm))
	if err != nil {
		return nil, apperror.Newf(apperror.CodeInvalidArgument, "unknown algorithm %q", req.Algorithm).WithField("algorithm")
	}

	if err := s.checkGraphLimits(&req.Graph); err != nil {
		return nil, err
	}

	dg, err := converter.ToDomainGraph(&req.Graph)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidArgument, err.Error()).WithField("graph")
	}

	if s.metrics != nil {
		s.metrics.RecordGraphSize("solve", req.Graph.NumNodes, len(req.Graph.Edges))
	}

	// Source/sink по умолчанию фиксированы, поэтому ключ кэша не
	// учитывает опции: запросы с переопределёнными концами не кэшируем
	cacheable := req.Options == nil || (req.Options.Source == nil && req.Options.Sink == nil)

	if cacheable && s.cache != nil {
		cached, found, cacheErr := s.cache.Get(ctx, dg, string(algo))
		if cacheErr == nil && found {
			if resp, ok := s.responseFromCache(cached, dg); ok {
				telemetry.AddEvent(ctx, "cache_hit",
					attribute.Int64("max_flow", cached.MaxFlow),
				)
				span.SetAttributes(attribute.Bool("cache_hit", true))
				return resp, nil
			}
		}
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	start := time.Now()
	result, err := algorithms.Solve(ctx, dg, algo, s.buildOptions(req.Options))
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSolveOperation(string(algo), false, time.Since(start), 0, 0)
		}
		telemetry.SetError(ctx, err)
		return nil, mapSolveError(err)
	}

	flowEdges := converter.ToFlowEdges(result.Flow, dg)
	stats := converter.ToFlowStats(domain.CalculateFlowStatistics(result.Flow, dg))

	resp := &apiv1.SolveResponse{
		Algorithm:      string(result.Algorithm),
		MaxFlow:        result.MaxFlow,
		MinCost:        result.TotalCost,
		FlowEdges:      flowEdges,
		Stats:          stats,
		Iterations:     result.Iterations,
		CyclesCanceled: result.CyclesCanceled,
		DurationMs:     float64(result.Duration.Microseconds()) / 1000.0,
	}

	// Сохранение и кэширование не должны ронять успешный solve
	if s.repo != nil {
		if id, saveErr := s.persistSolution(ctx, req, resp, dg); saveErr != nil {
			logger.Log.Warn("Failed to persist solution", "error", saveErr)
		} else {
			resp.SolutionID = id
		}
	}

	if cacheable && s.cache != nil {
		if cacheErr := s.cache.SetFromResult(ctx, dg, result, s.cfg.Solver.CacheTTL); cacheErr != nil {
			logger.Log.Warn("Failed to cache solve result", "error", cacheErr)
		}
	}

	if s.metrics != nil {
		s.metrics.RecordSolveOperation(string(algo), true, result.Duration,
			float64(result.MaxFlow), float64(result.TotalCost))
		s.metrics.RecordCyclesCanceled(result.CyclesCanceled)
	}

	span.SetAttributes(
		attribute.Int64("max_flow", result.MaxFlow),
		attribute.Int64("min_cost", result.TotalCost),
	)

	return resp, nil
}

// Validate проверяет структуру графа, не решая задачу. Ошибки делают
// граф невалидным, предупреждения — нет.
func (s *SolverService) Validate(ctx context.Context, req *apiv1.ValidateRequest) *apiv1.ValidateResponse {
	_, span := telemetry.StartSpan(ctx, "SolverService.Validate",
		trace.WithAttributes(
			attribute.Int("nodes", req.Graph.NumNodes),
			attribute.Int("edges", len(req.Graph.Edges)),
		),
	)
	defer span.End()

	issues := validateGraph(&req.Graph)

	valid := true
	for _, issue := range issues {
		if issue.Severity == apiv1.SeverityError {
			valid = false
			break
		}
	}

	resp := &apiv1.ValidateResponse{Valid: valid, Issues: issues}

	if valid {
		if dg, err := converter.ToDomainGraph(&req.Graph); err == nil {
			stats := domain.CalculateGraphStatistics(dg)
			resp.Stats = converter.ToGraphStats(stats)
			if !stats.IsConnected {
				resp.Issues = append(resp.Issues, apiv1.ValidationIssue{
					Code:     "NOT_CONNECTED",
					Message:  "not every node is reachable from node 0",
					Severity: apiv1.SeverityWarning,
				})
			}
		}
	}

	if s.metrics != nil {
		s.metrics.RecordGraphSize("validate", req.Graph.NumNodes, len(req.Graph.Edges))
	}
	span.SetAttributes(attribute.Bool("valid", valid))

	return resp
}

// GetSolution возвращает сохранённое решение вместе с графом и потоком
func (s *SolverService) GetSolution(ctx context.Context, id string) (*apiv1.Solution, error) {
	ctx, span := telemetry.StartSpan(ctx, "SolverService.GetSolution",
		trace.WithAttributes(attribute.String("solution_id", id)),
	)
	defer span.End()

	if s.repo == nil {
		return nil, errStorageUnavailable()
	}

	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}

	sol, err := stored.ToAPI()
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to decode stored solution")
	}

	return sol, nil
}

// ListSolutions возвращает страницу решений, нормализуя пагинацию
func (s *SolverService) ListSolutions(ctx context.Context, opts *repository.ListOptions) (*apiv1.ListSolutionsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "SolverService.ListSolutions")
	defer span.End()

	if s.repo == nil {
		return nil, errStorageUnavailable()
	}

	if opts == nil {
		opts = &repository.ListOptions{}
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	summaries, total, err := s.repo.List(ctx, opts)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to list solutions")
	}

	resp := &apiv1.ListSolutionsResponse{
		Solutions: make([]apiv1.Solution, 0, len(summaries)),
		Total:     total,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
	}
	for _, sum := range summaries {
		resp.Solutions = append(resp.Solutions, sum.ToAPI())
	}

	span.SetAttributes(attribute.Int("count", len(resp.Solutions)))
	return resp, nil
}

// DeleteSolution удаляет сохранённое решение
func (s *SolverService) DeleteSolution(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "SolverService.DeleteSolution",
		trace.WithAttributes(attribute.String("solution_id", id)),
	)
	defer span.End()

	if s.repo == nil {
		return errStorageUnavailable()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, id)
	}
	return nil
}

// Statistics возвращает агрегаты по всем сохранённым решениям
func (s *SolverService) Statistics(ctx context.Context) (*apiv1.StatisticsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "SolverService.Statistics")
	defer span.End()

	if s.repo == nil {
		return nil, errStorageUnavailable()
	}

	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to compute statistics")
	}

	return stats.ToAPI(), nil
}

// Report генерирует отчёт по сохранённому решению в заданном формате
func (s *SolverService) Report(ctx context.Context, id string, format report.Format) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "SolverService.Report",
		trace.WithAttributes(
			attribute.String("solution_id", id),
			attribute.String("format", string(format)),
		),
	)
	defer span.End()

	gen, ok := s.generators[format]
	if !ok {
		return nil, apperror.Newf(apperror.CodeInvalidArgument, "unsupported report format %q", format).WithField("format")
	}

	sol, err := s.GetSolution(ctx, id)
	if err != nil {
		return nil, err
	}

	data := &report.ReportData{
		Solution: sol,
		Options: &report.Options{
			CompanyName:     s.cfg.Report.CompanyName,
			IncludeRawData:  true,
			MaxEdgesInTable: s.cfg.Report.MaxEdgesInTable,
		},
	}

	// Статистика пересчитывается из сохранённого графа и потока;
	// в jsonb нет рёбер с нулевым потоком, их достраивает конвертер
	if sol.Graph != nil {
		if network, convErr := converter.ToDomainGraph(sol.Graph); convErr == nil {
			data.GraphStats = converter.ToGraphStats(domain.CalculateGraphStatistics(network))
			if flow, flowErr := converter.FlowGraphFromEdges(network, sol.FlowEdges); flowErr == nil {
				data.FlowStats = converter.ToFlowStats(domain.CalculateFlowStatistics(flow, network))
			}
		}
	}

	content, err := gen.Generate(ctx, data)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to generate report")
	}

	if s.metrics != nil {
		s.metrics.RecordReportGenerated(string(format))
	}

	return content, nil
}

// Algorithms возвращает метаданные алгоритмов из реестра
func (s *SolverService) Algorithms(ctx context.Context) *apiv1.AlgorithmsResponse {
	_, span := telemetry.StartSpan(ctx, "SolverService.Algorithms")
	defer span.End()

	def, err := algorithms.ParseAlgorithm(s.cfg.Solver.DefaultAlgorithm)
	if err != nil {
		def = algorithms.AlgorithmCycleCanceling
	}

	return &apiv1.AlgorithmsResponse{
		Algorithms: converter.ToAlgorithmInfos(algorithms.GetAllAlgorithms()),
		Default:    string(def),
	}
}

// Token обменивает настроенные учётные данные на пару JWT. Сообщение
// об отказе одно и то же для неизвестного пользователя и неверного
// пароля.
func (s *SolverService) Token(ctx context.Context, req *apiv1.TokenRequest) (*apiv1.TokenResponse, error) {
	_, span := telemetry.StartSpan(ctx, "SolverService.Token")
	defer span.End()

	if !s.cfg.Auth.Enabled {
		return nil, apperror.New(apperror.CodeFailedPrecondition, "authentication is disabled")
	}
	if s.jwt == nil {
		return nil, apperror.New(apperror.CodeInternal, "token manager is not configured")
	}
	if req.Username == "" || req.Password == "" {
		return nil, apperror.New(apperror.CodeInvalidArgument, "username and password are required")
	}

	if req.Username != s.cfg.Auth.AdminUsername {
		return nil, apperror.New(apperror.CodeUnauthenticated, "invalid credentials")
	}
	ok, err := passhash.VerifyPassword(req.Password, s.cfg.Auth.AdminPasswordHash)
	if err != nil || !ok {
		return nil, apperror.New(apperror.CodeUnauthenticated, "invalid credentials")
	}

	access, err := s.jwt.GenerateAccessToken(req.Username, req.Username, "admin")
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to issue token")
	}
	refresh, err := s.jwt.GenerateRefreshToken(req.Username, req.Username, "admin")
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to issue token")
	}

	return &apiv1.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.jwt.GetAccessTokenExpiry(),
	}, nil
}

// Readiness проверяет зависимости сервиса для /readyz
func (s *SolverService) Readiness(ctx context.Context) map[string]string {
	checks := make(map[string]string)

	if s.repo != nil {
		if err := s.repo.Ping(ctx); err != nil {
			checks["database"] = err.Error()
		} else {
			checks["database"] = "ok"
		}
	}
	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = err.Error()
		} else {
			checks["cache"] = "ok"
		}
	}

	return checks
}

// pickAlgorithm подставляет алгоритм из конфигурации, если запрос его
// не задал
func (s *SolverService) pickAlgorithm(requested string) string {
	if requested == "" {
		return s.cfg.Solver.DefaultAlgorithm
	}
	return requested
}

func (s *SolverService) checkGraphLimits(g *apiv1.Graph) error {
	if max := s.cfg.Solver.MaxNodes; max > 0 && g.NumNodes > max {
		return apperror.Newf(apperror.CodeInvalidArgument,
			"graph has %d nodes, the limit is %d", g.NumNodes, max).WithField("graph.num_nodes")
	}
	if max := s.cfg.Solver.MaxEdges; max > 0 && len(g.Edges) > max {
		return apperror.Newf(apperror.CodeInvalidArgument,
			"graph has %d edges, the limit is %d", len(g.Edges), max).WithField("graph.edges")
	}
	return nil
}

// buildOptions накладывает на дефолты сначала конфигурацию, затем опции
// запроса
func (s *SolverService) buildOptions(opts *apiv1.SolveOptions) *algorithms.SolverOptions {
	result := algorithms.DefaultSolverOptions()

	if s.cfg.Solver.Timeout > 0 {
		result.Timeout = s.cfg.Solver.Timeout
	}
	if s.cfg.Solver.MaxIterations > 0 {
		result.MaxIterations = s.cfg.Solver.MaxIterations
	}

	if opts == nil {
		return result
	}

	if opts.TimeoutSeconds > 0 {
		result.Timeout = time.Duration(opts.TimeoutSeconds * float64(time.Second))
	}
	if opts.MaxIterations > 0 {
		result.MaxIterations = opts.MaxIterations
	}
	if opts.Source != nil {
		result.Source = *opts.Source
	}
	if opts.Sink != nil {
		result.Sink = *opts.Sink
	}

	return result
}

// responseFromCache собирает ответ из кэшированного результата.
// Повреждённая запись не фатальна: false означает решить заново.
func (s *SolverService) responseFromCache(cached *cache.CachedSolveResult, network *domain.Graph) (*apiv1.SolveResponse, bool) {
	flowGraph, err := cached.ToFlowGraph()
	if err != nil {
		logger.Log.Warn("Discarding unusable cached result", "error", err)
		return nil, false
	}

	return &apiv1.SolveResponse{
		Algorithm:      cached.Algorithm,
		MaxFlow:        cached.MaxFlow,
		MinCost:        cached.TotalCost,
		FlowEdges:      converter.FlowEdgesFromCache(cached, network),
		Stats:          converter.ToFlowStats(domain.CalculateFlowStatistics(flowGraph, network)),
		Iterations:     cached.Iterations,
		CyclesCanceled: cached.CyclesCanceled,
		DurationMs:     0,
		Cached:         true,
	}, true
}

// persistSolution сохраняет решение и возвращает его ID
func (s *SolverService) persistSolution(ctx context.Context, req *apiv1.SolveRequest, resp *apiv1.SolveResponse, dg *domain.Graph) (string, error) {
	graphJSON, err := json.Marshal(&req.Graph)
	if err != nil {
		return "", fmt.Errorf("encode graph: %w", err)
	}
	flowJSON, err := json.Marshal(resp.FlowEdges)
	if err != nil {
		return "", fmt.Errorf("encode flow edges: %w", err)
	}

	solution := &repository.Solution{
		Name:           req.Name,
		Algorithm:      resp.Algorithm,
		GraphHash:      cache.GraphHash(dg),
		NodeCount:      req.Graph.NumNodes,
		EdgeCount:      len(req.Graph.Edges),
		MaxFlow:        resp.MaxFlow,
		MinCost:        resp.MinCost,
		Iterations:     resp.Iterations,
		CyclesCanceled: resp.CyclesCanceled,
		DurationMs:     resp.DurationMs,
		Graph:          graphJSON,
		FlowEdges:      flowJSON,
		Tags:           req.Tags,
		CreatedBy:      middleware.GetUsername(ctx),
	}

	if err := s.repo.Create(ctx, solution); err != nil {
		return "", err
	}
	return solution.ID.String(), nil
}

// validateGraph возвращает список проблем графа. Отрицательная
// стоимость — предупреждение: решатель её поддерживает.
func validateGraph(g *apiv1.Graph) []apiv1.ValidationIssue {
	var issues []apiv1.ValidationIssue

	addError := func(code, message string) {
		issues = append(issues, apiv1.ValidationIssue{Code: code, Message: message, Severity: apiv1.SeverityError})
	}
	addWarning := func(code, message string) {
		issues = append(issues, apiv1.ValidationIssue{Code: code, Message: message, Severity: apiv1.SeverityWarning})
	}

	if g.NumNodes < 2 {
		addError("TOO_FEW_NODES", fmt.Sprintf("a flow network needs at least 2 nodes, got %d", g.NumNodes))
	}

	type pair struct{ source, sink int }
	seen := make(map[pair]bool, len(g.Edges))

	for i, e := range g.Edges {
		if e.Source < 0 || e.Source >= g.NumNodes || e.Sink < 0 || e.Sink >= g.NumNodes {
			addError("NODE_OUT_OF_RANGE",
				fmt.Sprintf("edges[%d]: %d -> %d references a node outside 0..%d", i, e.Source, e.Sink, g.NumNodes-1))
		}
		if e.Source == e.Sink {
			addError("SELF_LOOP", fmt.Sprintf("edges[%d]: self loop on node %d", i, e.Source))
		}

		p := pair{e.Source, e.Sink}
		if seen[p] {
			addError("DUPLICATE_EDGE", fmt.Sprintf("edges[%d]: duplicate edge %d -> %d", i, e.Source, e.Sink))
		}
		seen[p] = true

		switch {
		case e.Capacity < 0:
			addError("NEGATIVE_CAPACITY", fmt.Sprintf("edges[%d]: capacity must be non-negative, got %d", i, e.Capacity))
		case e.Capacity == 0:
			addWarning("ZERO_CAPACITY", fmt.Sprintf("edges[%d]: zero capacity, the edge carries no flow", i))
		}
		if e.Cost < 0 {
			addWarning("NEGATIVE_COST", fmt.Sprintf("edges[%d]: negative cost %d", i, e.Cost))
		}
	}

	return issues
}

func errStorageUnavailable() error {
	return apperror.New(apperror.CodeUnavailable, "solution storage is not configured")
}

// mapSolveError переводит ошибки решателя в коды API
func mapSolveError(err error) error {
	switch {
	case errors.Is(err, algorithms.ErrTimeout):
		return apperror.Wrap(err, apperror.CodeDeadlineExceeded, "solver timed out")
	case errors.Is(err, algorithms.ErrContextCanceled):
		return apperror.Wrap(err, apperror.CodeCanceled, "solve canceled")
	case errors.Is(err, algorithms.ErrMaxIterations):
		return apperror.Wrap(err, apperror.CodeResourceExhausted, "iteration limit reached before convergence")
	case errors.Is(err, algorithms.ErrTooFewNodes),
		errors.Is(err, algorithms.ErrNodeNotFound),
		errors.Is(err, algorithms.ErrSourceEqualsSink),
		errors.Is(err, algorithms.ErrUnknownAlgorithm):
		return apperror.Wrap(err, apperror.CodeInvalidArgument, err.Error())
	default:
		return apperror.Wrap(err, apperror.CodeInternal, "solver failed")
	}
}

// mapRepoError переводит ошибки хранилища в коды API
func mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		return apperror.Newf(apperror.CodeInvalidArgument, "invalid solution id %q", id).WithField("id")
	case errors.Is(err, repository.ErrSolutionNotFound):
		return apperror.Newf(apperror.CodeNotFound, "solution %s not found", id)
	default:
		return apperror.Wrap(err, apperror.CodeInternal, "storage operation failed")
	}
}

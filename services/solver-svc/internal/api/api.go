// Package api — HTTP-транспорт solver-svc. Обработчики только
// декодируют запросы, вызывают сервисный слой и кодируют ответы;
// аутентификация, метрики, трассировка и аудит живут в pkg/middleware.
package api

import (
	"net/http"

	openapi "minflow/gen/openapi"
	apiv1 "minflow/pkg/api/v1"
	"minflow/pkg/config"
	"minflow/pkg/swagger"
	"minflow/services/solver-svc/internal/service"
)

// Handler — обработчики HTTP API
type Handler struct {
	service *service.SolverService
	cfg     *config.Config
}

// NewHandler создаёт транспортный слой поверх сервиса
func NewHandler(svc *service.SolverService, cfg *config.Config) *Handler {
	return &Handler{service: svc, cfg: cfg}
}

// Routes регистрирует все маршруты API и возвращает mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/solve", h.Solve)
	mux.HandleFunc("POST /v1/graphs/validate", h.Validate)

	mux.HandleFunc("GET /v1/solutions", h.ListSolutions)
	mux.HandleFunc("GET /v1/solutions/{id}", h.GetSolution)
	mux.HandleFunc("DELETE /v1/solutions/{id}", h.DeleteSolution)
	mux.HandleFunc("GET /v1/solutions/{id}/report", h.Report)

	mux.HandleFunc("GET /v1/statistics", h.Statistics)
	mux.HandleFunc("GET /v1/algorithms", h.Algorithms)
	mux.HandleFunc("POST /v1/auth/token", h.Token)

	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)

	if h.cfg.Swagger.Enabled {
		swagger.RegisterRoutes(mux, &swagger.Config{
			Title:                    h.cfg.Swagger.Title,
			BasePath:                 "/swagger",
			SpecPath:                 "/openapi.json",
			DeepLinking:              true,
			DocExpansion:             "list",
			DefaultModelsExpandDepth: 1,
		}, openapi.MustGetSpec())
	}

	return mux
}

// Healthz — liveness probe
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &apiv1.HealthResponse{
		Status:  "ok",
		Version: h.cfg.App.Version,
	})
}

// Readyz — readiness probe: опрашивает хранилище и кэш
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := h.service.Readiness(r.Context())

	status := "ok"
	code := http.StatusOK
	for _, result := range checks {
		if result != "ok" {
			status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, code, &apiv1.ReadyResponse{Status: status, Checks: checks})
}

// services/solver-svc/factory.go
package solversvc

import (
	"net/http"

	"minflow/pkg/cache"
	"minflow/pkg/config"
	"minflow/pkg/database"
	"minflow/pkg/passhash"
	"minflow/services/solver-svc/internal/api"
	"minflow/services/solver-svc/internal/repository"
	"minflow/services/solver-svc/internal/service"
)

// Deps — внешние зависимости сервиса. Любое поле может быть нулевым:
// без хранилища решения не сохраняются, без Cache не кэшируются,
// без JWTManager недоступен выпуск токенов.
type Deps struct {
	// Database включает Postgres-хранилище решений. Если nil и
	// MemoryStorage == true, используется in-memory репозиторий.
	Database      database.DB
	MemoryStorage bool

	Cache      cache.Cache
	JWTManager *passhash.JWTManager
}

// NewHandler собирает полный HTTP-роутер сервиса для внешних
// интеграционных тестов и бенчмарков, скрывая internal-пакеты.
// Серверные middleware сюда не входят — их добавляет pkg/server.
func NewHandler(cfg *config.Config, deps *Deps) http.Handler {
	if deps == nil {
		deps = &Deps{}
	}

	var repo repository.Repository
	switch {
	case deps.Database != nil:
		repo = repository.NewPostgresSolutionRepository(deps.Database)
	case deps.MemoryStorage:
		repo = repository.NewMemorySolutionRepository()
	}

	var solverCache *cache.SolverCache
	if deps.Cache != nil {
		solverCache = cache.NewSolverCache(deps.Cache, cfg.Cache.DefaultTTL)
	}

	svc := service.NewSolverService(cfg, repo, solverCache, deps.JWTManager)
	return api.NewHandler(svc, cfg).Routes()
}

// Package main is the entry point for solver-svc.
//
// solver-svc exposes minimum-cost maximum-flow solving over an HTTP JSON
// API. It wraps the solver library (pkg/algorithms over pkg/domain) with
// validation, result caching, persistent solution storage and report
// generation.
//
// # Service Overview
//
// The service exposes the following capabilities:
//   - Maximum flow computation (Edmonds-Karp)
//   - Minimum-cost maximum flow (cycle canceling)
//   - Structural graph validation without solving
//   - Stored solutions: fetch, list, delete, aggregate statistics
//   - Report generation (PDF, XLSX, JSON, CSV)
//   - JWT-based authentication for mutating endpoints
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                    HTTP Transport Layer                     │
//	│  (internal/api) stdlib mux, h2c; middleware chain from      │
//	│  pkg/middleware: recovery, request id, rate limit, tracing, │
//	│  metrics, logging, auth, audit; CORS around everything      │
//	├─────────────────────────────────────────────────────────────┤
//	│                      Service Layer                          │
//	│  (internal/service) validation, caching, persistence,       │
//	│  algorithm dispatch, report orchestration                   │
//	├─────────────────────────────────────────────────────────────┤
//	│                      Solver Library                         │
//	│  (pkg/algorithms) Edmonds-Karp, Bellman-Ford,               │
//	│  cycle canceling; (pkg/domain) residual graph machinery     │
//	├─────────────────────────────────────────────────────────────┤
//	│                     Infrastructure                          │
//	│  (pkg/database) pgx pool + goose migrations                 │
//	│  (pkg/cache) redis or in-memory result cache                │
//	│  (internal/repository) solution storage                     │
//	└─────────────────────────────────────────────────────────────┘
//
// # Configuration
//
// Configuration is loaded with the following priority (highest first):
//  1. Environment variables (prefix: MINFLOW_)
//  2. Config file (config.yaml in standard locations)
//  3. Default values from pkg/config/loader.go
//
// Key configuration options (environment variable format):
//
//	# Application
//	MINFLOW_APP_NAME           - Service name (default: minflow)
//	MINFLOW_APP_VERSION        - Service version (default: 1.0.0)
//	MINFLOW_APP_ENVIRONMENT    - development, staging, production
//
//	# HTTP Server
//	MINFLOW_HTTP_PORT            - HTTP port (default: 8080)
//	MINFLOW_HTTP_MAX_BODY_BYTES  - Request body limit (default: 16MB)
//
//	# Logging
//	MINFLOW_LOG_LEVEL  - debug, info, warn, error (default: info)
//	MINFLOW_LOG_FORMAT - json, text (default: json)
//	MINFLOW_LOG_OUTPUT - stdout, stderr, file (default: stdout)
//
//	# Database (solution storage; optional)
//	MINFLOW_DATABASE_ENABLED      - Enable persistent storage (default: false)
//	MINFLOW_DATABASE_HOST         - Postgres host (default: localhost)
//	MINFLOW_DATABASE_AUTO_MIGRATE - Run goose migrations on start (default: true)
//
//	# Caching
//	MINFLOW_CACHE_ENABLED - Enable result caching (default: true)
//	MINFLOW_CACHE_DRIVER  - memory, redis (default: memory)
//
//	# Solver
//	MINFLOW_SOLVER_DEFAULT_ALGORITHM - cycle_canceling, edmonds_karp
//	MINFLOW_SOLVER_TIMEOUT           - Per-request solve timeout (default: 30s)
//	MINFLOW_SOLVER_MAX_NODES         - Input graph node limit
//
//	# Tracing / Metrics
//	MINFLOW_TRACING_ENABLED - OpenTelemetry tracing (default: false)
//	MINFLOW_METRICS_ENABLED - Prometheus metrics (default: true)
//	MINFLOW_METRICS_PORT    - Metrics listener port (default: 9090)
//
//	# Auth
//	MINFLOW_AUTH_ENABLED             - JWT authentication (default: false)
//	MINFLOW_AUTH_JWT_SECRET          - HS256 signing secret
//	MINFLOW_AUTH_ADMIN_USERNAME      - Admin login
//	MINFLOW_AUTH_ADMIN_PASSWORD_HASH - argon2id hash of the admin password
//
// # Graceful Shutdown
//
// SIGINT and SIGTERM drain in-flight requests within
// http.shutdown_timeout, then shut down telemetry, the rate limiter and
// the audit logger.
package main

import (
	"context"
	"log"
	"os"

	"minflow/migrations"
	"minflow/pkg/audit"
	"minflow/pkg/cache"
	"minflow/pkg/config"
	"minflow/pkg/database"
	"minflow/pkg/logger"
	"minflow/pkg/metrics"
	"minflow/pkg/passhash"
	"minflow/pkg/server"
	"minflow/services/solver-svc/internal/api"
	"minflow/services/solver-svc/internal/repository"
	"minflow/services/solver-svc/internal/service"
)

func main() {
	// =========================================================================
	// Configuration and logging
	// =========================================================================
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	ctx := context.Background()

	// =========================================================================
	// Metrics
	// =========================================================================
	//
	// Collectors must exist before the first request; the listener itself
	// is started by server.Run on the metrics port.
	if cfg.Metrics.Enabled {
		metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	}

	// =========================================================================
	// Solution storage (optional)
	// =========================================================================
	//
	// Without a database the service still solves and caches; it just
	// cannot persist solutions, so /v1/solutions returns 503.
	var repo repository.Repository
	var auditLogger audit.Logger

	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db.Pool(), &cfg.Database, migrations.PostgresMigrations, "postgres"); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}

		repo = repository.NewPostgresSolutionRepository(db)

		// Аудит в базу возможен только при живом соединении; остальные
		// бэкенды собирает pkg/server из конфигурации
		if cfg.Audit.Enabled && cfg.Audit.Backend == "database" {
			auditLogger = audit.NewDBLogger(db, audit.DefaultDBLoggerConfig())
		}
	}

	// =========================================================================
	// Result cache (optional)
	// =========================================================================
	var solverCache *cache.SolverCache
	if cfg.Cache.Enabled {
		backend, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			logger.Log.Warn("Failed to create cache, continuing without it", "error", err)
		} else {
			defer backend.Close()
			solverCache = cache.NewSolverCache(backend, cfg.Cache.DefaultTTL)
			logger.Log.Info("Result cache initialized", "driver", cfg.Cache.Driver)
		}
	}

	// =========================================================================
	// Authentication
	// =========================================================================
	//
	// The same manager must issue (service.Token) and validate
	// (middleware.Auth) tokens, so it is created once here.
	var jwtManager *passhash.JWTManager
	if cfg.Auth.Enabled {
		jwtManager = passhash.NewJWTManager(&passhash.JWTConfig{
			SecretKey:          cfg.Auth.JWTSecret,
			AccessTokenExpiry:  cfg.Auth.AccessTTL,
			RefreshTokenExpiry: cfg.Auth.RefreshTTL,
			Issuer:             cfg.Auth.Issuer,
		})
	}

	// =========================================================================
	// Service, transport, server
	// =========================================================================
	svc := service.NewSolverService(cfg, repo, solverCache, jwtManager)
	handler := api.NewHandler(svc, cfg)

	srv := server.NewWithOptions(cfg, handler.Routes(), &server.ServerOptions{
		AuditLogger: auditLogger,
		JWTManager:  jwtManager,
	})

	if err := srv.Run(); err != nil {
		logger.Log.Error("Server terminated", "error", err)
		os.Exit(1)
	}
}

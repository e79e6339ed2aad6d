package services_benchmark

import (
	"log"
	"net/http/httptest"
	"time"

	"minflow/pkg/client"
	"minflow/pkg/config"
	"minflow/pkg/logger"
	"minflow/pkg/server"
	solversvc "minflow/services/solver-svc"
)

var benchClient *client.Client

// init поднимает in-process сервер для бенчмарков: без аутентификации
// и без кэша, чтобы каждая итерация проходила полный путь решения
func init() {
	logger.Init("error")

	cfg := &config.Config{
		App: config.AppConfig{
			Name:        "solver-svc",
			Version:     "benchmark",
			Environment: "development",
		},
		HTTP: config.HTTPConfig{
			MaxBodyBytes: 64 << 20,
		},
		Solver: config.SolverConfig{
			DefaultAlgorithm: "cycle_canceling",
			Timeout:          5 * time.Minute,
		},
		Report: config.ReportConfig{
			MaxEdgesInTable: 50,
			CompanyName:     "minflow",
			PDF: config.PDFConfig{
				PageSize:    "A4",
				Orientation: "portrait",
			},
		},
	}

	handler := solversvc.NewHandler(cfg, &solversvc.Deps{
		MemoryStorage: true,
	})

	srv := httptest.NewServer(server.New(cfg, handler).Handler())

	c, err := client.New(&client.Config{
		BaseURL: srv.URL,
		Timeout: 5 * time.Minute,
	})
	if err != nil {
		log.Fatalf("Failed to create benchmark client: %v", err)
	}
	benchClient = c
}

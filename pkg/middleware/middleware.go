// Package middleware provides the HTTP middleware chain for the service:
// panic recovery, request ids, rate limiting, tracing, metrics, logging,
// JWT authentication and audit logging.
package middleware

import (
	"net/http"

	"minflow/pkg/audit"
	"minflow/pkg/passhash"
	"minflow/pkg/ratelimit"
	"minflow/pkg/telemetry"
)

// Middleware оборачивает http.Handler
type Middleware func(http.Handler) http.Handler

// ServerConfig конфигурация серверных middleware
type ServerConfig struct {
	ServiceName   string
	EnableTracing bool
	EnableAudit   bool
	RateLimiter   ratelimit.Limiter
	KeyExtractor  ratelimit.KeyExtractor
	AuditLogger   audit.Logger
	AuditExclude  map[string]bool
	JWTManager    *passhash.JWTManager // nil отключает аутентификацию
	PublicPaths   map[string]bool
}

// Handler собирает цепочку middleware вокруг next
func Handler(cfg *ServerConfig, next http.Handler) http.Handler {
	middlewares := []Middleware{
		Recovery(),
		RequestID(),
	}

	// Rate Limiting (первым после recovery и request id)
	if cfg.RateLimiter != nil {
		middlewares = append(middlewares, RateLimit(cfg.RateLimiter, cfg.KeyExtractor))
	}

	// Tracing
	if cfg.EnableTracing {
		middlewares = append(middlewares, telemetry.HTTPMiddleware)
	}

	// Metrics
	middlewares = append(middlewares, Metrics(cfg.ServiceName))

	// Logging
	middlewares = append(middlewares, Logging())

	// Auth
	if cfg.JWTManager != nil {
		publicPaths := cfg.PublicPaths
		if publicPaths == nil {
			publicPaths = DefaultPublicPaths()
		}
		middlewares = append(middlewares, Auth(cfg.JWTManager, publicPaths))
	}

	// Audit (последним, чтобы логировать результат)
	if cfg.EnableAudit && cfg.AuditLogger != nil {
		middlewares = append(middlewares, Audit(&AuditConfig{
			ServiceName:  cfg.ServiceName,
			ExcludePaths: cfg.AuditExclude,
			Logger:       cfg.AuditLogger,
		}))
	}

	return Chain(middlewares...)(next)
}

// DefaultPublicPaths возвращает пути доступные без аутентификации
func DefaultPublicPaths() map[string]bool {
	return map[string]bool{
		"/healthz":       true,
		"/readyz":        true,
		"/v1/algorithms": true,
		"/v1/auth/token": true,
	}
}

// statusRecorder перехватывает код ответа для логирования и метрик
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.written += int64(n)
	return n, err
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

package middleware

import (
	"net/http"
	"time"

	"minflow/pkg/logger"
)

// Logging логирует HTTP запросы
func Logging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			log := logger.WithContext(r.Context())

			logFields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", duration.Milliseconds(),
				"bytes", rec.written,
				"client_ip", clientIP(r),
			}

			if rec.status >= http.StatusInternalServerError {
				log.Error("HTTP request failed", logFields...)
			} else {
				log.Info("HTTP request completed", logFields...)
			}
		})
	}
}

package middleware

import (
	"net/http"
	"strings"
	"time"

	"minflow/pkg/metrics"
)

// Metrics записывает метрики HTTP запросов
func Metrics(serviceName string) Middleware {
	m := metrics.Get()
	tracker := metrics.NewRequestTracker(m.HTTPRequestsInFlight)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := normalizePath(r.URL.Path)
			tracker.Start(path)
			defer tracker.End(path)

			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			m.RecordHTTPRequest(r.Method, path, rec.status, time.Since(start))
		})
	}
}

// normalizePath сворачивает идентификаторы в шаблон пути,
// иначе кардинальность метрик растёт с каждым solution id
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/swagger") {
		return "/swagger"
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 3 && parts[0] == "v1" && parts[1] == "solutions" {
		if len(parts) >= 4 && parts[3] == "report" {
			return "/v1/solutions/{id}/report"
		}
		return "/v1/solutions/{id}"
	}

	return path
}

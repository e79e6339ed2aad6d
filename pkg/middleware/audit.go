package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"minflow/pkg/apperror"
	"minflow/pkg/audit"
	"minflow/pkg/logger"
)

// AuditConfig конфигурация аудит middleware
type AuditConfig struct {
	ServiceName  string
	ExcludePaths map[string]bool
	Logger       audit.Logger
}

// Audit записывает аудит события по результатам запросов
func Audit(cfg *AuditConfig) Middleware {
	if cfg.Logger == nil {
		cfg.Logger = audit.Get()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Пропускаем исключённые пути
			if cfg.ExcludePaths != nil && cfg.ExcludePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			ctx := r.Context()

			builder := audit.NewEntry().
				Service(cfg.ServiceName).
				Method(r.Method + " " + r.URL.Path).
				Action(pathToAction(r.Method, r.URL.Path)).
				User(GetUserID(ctx), GetUsername(ctx)).
				Client(clientIP(r), r.UserAgent()).
				RequestID(logger.RequestIDFromContext(ctx)).
				Duration(duration)

			switch {
			case rec.status == http.StatusUnauthorized || rec.status == http.StatusForbidden:
				builder.Outcome(audit.OutcomeDenied).
					Error(string(apperror.FromHTTPStatus(rec.status, "").Code), http.StatusText(rec.status))
			case rec.status >= http.StatusBadRequest:
				builder.Outcome(audit.OutcomeFailure).
					Error(string(apperror.FromHTTPStatus(rec.status, "").Code), http.StatusText(rec.status))
			default:
				builder.Outcome(audit.OutcomeSuccess)
			}

			entry := builder.Build()

			// Асинхронно логируем
			go func() {
				if logErr := cfg.Logger.Log(context.Background(), entry); logErr != nil {
					logger.Log.Warn("Failed to write audit log", "error", logErr)
				}
			}()
		})
	}
}

// pathToAction определяет тип действия по пути и HTTP методу
func pathToAction(method, path string) audit.Action {
	switch {
	case strings.HasSuffix(path, "/report"):
		return audit.ActionReport
	case strings.Contains(path, "/graphs/validate"):
		return audit.ActionValidate
	case strings.Contains(path, "/solve"):
		return audit.ActionSolve
	case strings.Contains(path, "/auth/token"):
		return audit.ActionLogin
	}

	switch method {
	case http.MethodPost:
		return audit.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return audit.ActionUpdate
	case http.MethodDelete:
		return audit.ActionDelete
	default:
		return audit.ActionRead
	}
}

// clientIP извлекает IP клиента из заголовков прокси или адреса соединения
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

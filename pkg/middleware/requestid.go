package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"minflow/pkg/logger"
)

// headerRequestID заголовок с идентификатором запроса
const headerRequestID = "X-Request-Id"

// RequestID добавляет идентификатор запроса в контекст и заголовок ответа.
// Переданный клиентом X-Request-Id сохраняется, иначе генерируется новый.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(headerRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := logger.ContextWithRequestID(r.Context(), requestID)
			w.Header().Set(headerRequestID, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

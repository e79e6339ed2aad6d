package middleware

import (
	"net/http"
	"runtime/debug"

	"minflow/pkg/apperror"
	"minflow/pkg/logger"
)

// Recovery перехватывает паники в обработчиках
func Recovery() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Log.Error("Panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					apperror.WriteHTTP(w, apperror.New(apperror.CodeInternal, "internal server error"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import "net/http"

// Chain объединяет middleware в одну. Первая в списке оборачивает все
// остальные и видит запрос раньше всех.
func Chain(middlewares ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		handler := next
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

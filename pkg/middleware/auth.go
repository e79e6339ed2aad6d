package middleware

import (
	"net/http"
	"strings"

	"minflow/pkg/apperror"
	"minflow/pkg/logger"
	"minflow/pkg/passhash"
)

// Auth проверяет JWT токен в заголовке Authorization. Публичные пути
// и preflight запросы пропускаются без проверки.
func Auth(manager *passhash.JWTManager, publicPaths map[string]bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublicPath(publicPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token, err := extractToken(r)
			if err != nil {
				apperror.WriteHTTP(w, err)
				return
			}

			claims, err := manager.ValidateToken(token)
			if err != nil {
				logger.Log.Warn("Token validation failed", "error", err, "path", r.URL.Path)
				apperror.WriteHTTP(w, apperror.New(apperror.CodeUnauthenticated, "invalid token"))
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.Username, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isPublicPath проверяет путь по точному совпадению, swagger целиком публичен
func isPublicPath(publicPaths map[string]bool, path string) bool {
	if publicPaths[path] {
		return true
	}
	return strings.HasPrefix(path, "/swagger")
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperror.New(apperror.CodeUnauthenticated, "no authorization header")
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return "", apperror.New(apperror.CodeUnauthenticated, "empty token")
	}

	return token, nil
}

package middleware

import (
	"fmt"
	"net/http"
	"time"

	"minflow/pkg/apperror"
	"minflow/pkg/logger"
	"minflow/pkg/ratelimit"
)

// RateLimit ограничивает частоту запросов. При ошибке проверки лимита
// запрос пропускается (fail open).
func RateLimit(limiter ratelimit.Limiter, keyExtractor ratelimit.KeyExtractor) Middleware {
	if keyExtractor == nil {
		keyExtractor = ratelimit.DefaultKeyExtractor
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			meta := map[string]string{
				"x-forwarded-for": r.Header.Get("X-Forwarded-For"),
				"x-real-ip":       r.Header.Get("X-Real-Ip"),
				"x-user-id":       GetUserID(r.Context()),
				"remote_addr":     r.RemoteAddr,
			}

			key := keyExtractor(r.Context(), r.URL.Path, meta)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Log.Warn("Rate limit check failed", "error", err, "key", key)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				limitInfo, infoErr := limiter.GetInfo(r.Context(), key)
				if infoErr != nil {
					logger.Log.Warn("Failed to get rate limit info", "error", infoErr, "key", key)
					limitInfo = &ratelimit.LimitInfo{
						Limit:   0,
						ResetAt: time.Now().Add(time.Minute),
					}
				}

				logger.Log.Warn("Rate limit exceeded",
					"key", key,
					"limit", limitInfo.Limit,
				)

				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limitInfo.Limit))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", limitInfo.ResetAt.Format(time.RFC3339))

				apperror.WriteHTTP(w, apperror.Newf(apperror.CodeResourceExhausted,
					"rate limit exceeded: %d requests per %v", limitInfo.Limit, time.Until(limitInfo.ResetAt).Round(time.Second)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

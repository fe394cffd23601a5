// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Eden1011/todo-app-sub000/internal/ratelimit"
)

// NewRateLimitMiddleware limits requests per authenticated user using a
// fixed-window limiter. Unauthenticated requests fall back to the remote
// address so the limiter still applies on public routes.
func NewRateLimitMiddleware(limiter *ratelimit.FixedWindowLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if user, ok := UserFromContext(r.Context()); ok {
				key = strconv.Itoa(user.ID)
			}

			allowed, info := limiter.Allow(key)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.MaxEvents()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))

			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"error":   "Too many requests. Slow down.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

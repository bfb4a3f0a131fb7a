package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	handlers "microblog/internal/handler"
)

type KeyFunc func(r *http.Request) string

// KeyByIPAndPath limits each client per endpoint. A nil resolver keys on the
// peer address alone.
func KeyByIPAndPath(resolver *IPResolver) KeyFunc {
	return func(r *http.Request) string {
		return "rl:path:" + r.URL.Path + ":ip:" + resolver.ClientIP(r)
	}
}

// INCR and set the window on the first hit, atomically
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimit allows limit requests per window per key. Without Redis, or when
// Redis fails, requests pass.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, keyFn KeyFunc, log *logrus.Logger) Middleware {
	if rdb == nil || limit <= 0 || window <= 0 || keyFn == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := keyFn(r)

			count, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int()
			if err != nil {
				log.WithError(err).Warn("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			resetSec := 0
			if ttl, err := rdb.PTTL(ctx, key).Result(); err == nil && ttl > 0 {
				resetSec = int((ttl + time.Second - 1) / time.Second)
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(limit-count, 0)))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetSec))

			if count > limit {
				if resetSec > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(resetSec))
				}
				handlers.WriteError(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

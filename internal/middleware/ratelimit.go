package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig configures the fixed-window limiter.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

// RateLimitMiddleware applies fixed-window rate limiting backed by
// Redis. Authenticated operators get a bucket per user id so one busy
// counter cannot starve another; anonymous callers share a bucket per
// remote address. Redis failures let the request through, since the
// backend enforces its own limits anyway.
func RateLimitMiddleware(redisClient *redis.Client, cfg RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bucket := r.RemoteAddr
			if operatorID, ok := GetUserID(r.Context()); ok {
				bucket = strconv.FormatInt(operatorID, 10)
			}
			key := cfg.KeyPrefix + ":" + bucket

			ctx := context.Background()
			count, err := redisClient.Incr(ctx, key).Result()
			if err != nil {
				logger.Error("Failed to increment rate limit counter",
					zap.Error(err),
					zap.String("key", key),
				)
				next.ServeHTTP(w, r)
				return
			}

			if count == 1 {
				redisClient.Expire(ctx, key, cfg.Window)
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))

			if count > int64(cfg.RequestsPerWindow) {
				ttl, err := redisClient.TTL(ctx, key).Result()
				if err != nil {
					ttl = cfg.Window
				}

				logger.Warn("Rate limit exceeded",
					zap.String("bucket", bucket),
					zap.Int64("count", count),
					zap.Int("limit", cfg.RequestsPerWindow),
				)

				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(cfg.RequestsPerWindow-int(count)))
			next.ServeHTTP(w, r)
		})
	}
}

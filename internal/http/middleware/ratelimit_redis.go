package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter enforces a fixed-window request budget per key in Redis so
// every replica shares the same counters.
//
// Each key gets Limit requests per Window. The window starts on the first
// INCR and expires with the key. When Redis is unreachable the request is let
// through.
type RedisRateLimiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
	prefix string
	keyFn  keyFunc
}

// NewRedisRateLimiter builds a limiter backed by client. A limit <= 0 is
// coerced to 1 and a window <= 0 defaults to one second.
func NewRedisRateLimiter(client redis.Cmdable, limit int, window time.Duration, keyFn keyFunc) *RedisRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	if keyFn == nil {
		keyFn = KeyByUserOrIP()
	}
	return &RedisRateLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: "ratelimit:",
		keyFn:  keyFn,
	}
}

// Allow counts one hit for key and reports whether it is within budget.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := rl.prefix + key
	n, err := rl.client.Incr(ctx, k).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		if err := rl.client.Expire(ctx, k, rl.window).Err(); err != nil {
			return true, err
		}
	}
	return n <= rl.limit, nil
}

// Handler returns a Gin middleware with the same contract as
// RateLimiter.Handler.
func (rl *RedisRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}
		ok, err := rl.Allow(c.Request.Context(), rl.keyFn(c))
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		}
		if ok {
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(rl.limit, 10))
		rejectRateLimited(c)
	}
}

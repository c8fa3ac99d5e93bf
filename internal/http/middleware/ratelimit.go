// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds the in-process limiter that throttles comment and post
// traffic per caller when no Redis is configured. Each caller gets a
// golang.org/x/time/rate bucket. Buckets idle longer than ten minutes are
// evicted on a lookup counter, so a burst of one-off clients does not grow
// the map without bound. A comment replay recognized by IdempotencyValidator
// is served without spending a token.
//
// Limiting is abuse control at the edge. Ownership checks live in the
// services.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyFunc selects the identity used to key a rate-limit bucket.
type keyFunc func(*gin.Context) string

// KeyByUserOrIP returns a keyFunc that uses the caller resolved by
// RequireIdentity and otherwise the client IP. The raw X-User-ID header is
// never used: it is unverified, so a client could rotate it to get a fresh
// bucket per request.
//
// Keys are prefixed so the namespaces never collide ("user:42" vs
// "ip:203.0.113.7").
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if s := c.GetString(userIDKey); s != "" {
			return "user:" + s
		}
		return "ip:" + c.ClientIP()
	}
}

// visitor is one caller's bucket.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller key. Safe for concurrent use.
type RateLimiter struct {
	rps      rate.Limit
	burst    int
	keyFn    keyFunc
	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// NewRateLimiter refills rps tokens per second up to burst (at least 1). A
// nil keyFn means KeyByUserOrIP.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if keyFn == nil {
		keyFn = KeyByUserOrIP()
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      visitorTTL,
	}
}

const (
	visitorTTL      = 10 * time.Minute
	evictEveryLooks = 5000
)

// getVisitor returns the bucket for key, creating it on first use.
func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.cleanupN++; rl.cleanupN >= evictEveryLooks {
		rl.evictIdle(now)
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// evictIdle drops buckets unused for rl.ttl. Callers hold rl.mu.
func (rl *RateLimiter) evictIdle(now time.Time) {
	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) >= rl.ttl {
			delete(rl.visitors, k)
		}
	}
	rl.cleanupN = 0
}

// IsRateBypass reports whether IdempotencyValidator marked this request as a
// replay that should not consume tokens.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler spends one token per request and answers 429 RATE_LIMITED with
// Retry-After: 1 once the caller's bucket is empty.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}
		if rl.getVisitor(rl.keyFn(c)).Allow() {
			c.Next()
			return
		}
		rejectRateLimited(c)
	}
}

func rejectRateLimited(c *gin.Context) {
	c.Header("Retry-After", "1")
	abortWith(c, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
}

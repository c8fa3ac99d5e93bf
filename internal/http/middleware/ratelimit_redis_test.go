package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRedisRateLimiter_AllowWindow(t *testing.T) {
	mr, client := setupTestRedis(t)
	rl := NewRedisRateLimiter(client, 2, time.Second, nil)
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := rl.Allow(ctx, "user:1")
		if err != nil {
			t.Fatalf("allow #%d: %v", i, err)
		}
		if ok != want {
			t.Fatalf("allow #%d = %v; want %v", i, ok, want)
		}
	}
	if ttl := mr.TTL("ratelimit:user:1"); ttl <= 0 || ttl > time.Second {
		t.Fatalf("window ttl = %v", ttl)
	}

	// Other keys are independent.
	if ok, _ := rl.Allow(ctx, "user:2"); !ok {
		t.Fatalf("expected a fresh budget for another key")
	}

	// The budget resets when the window expires.
	mr.FastForward(2 * time.Second)
	if ok, _ := rl.Allow(ctx, "user:1"); !ok {
		t.Fatalf("expected budget to reset after the window")
	}
}

func TestNewRedisRateLimiter_Defaults(t *testing.T) {
	_, client := setupTestRedis(t)
	rl := NewRedisRateLimiter(client, 0, 0, nil)
	if rl.limit != 1 || rl.window != time.Second || rl.keyFn == nil {
		t.Fatalf("unexpected defaults: limit=%d window=%v", rl.limit, rl.window)
	}
}

func TestRedisRateLimiter_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, client := setupTestRedis(t)
	rl := NewRedisRateLimiter(client, 1, time.Minute, KeyByUserOrIP())

	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	calls := 0
	do := func() *httptest.ResponseRecorder {
		calls++
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		// Rotating the unverified header must not open a new window.
		req.Header.Set("X-User-ID", strconv.Itoa(calls))
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	w := do()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "1" || w.Header().Get("X-RateLimit-Limit") != "1" {
		t.Fatalf("missing limit headers: %#v", w.Header())
	}
}

func TestRedisRateLimiter_FailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, client := setupTestRedis(t)
	rl := NewRedisRateLimiter(client, 1, time.Minute, nil)
	mr.Close()

	ok, err := rl.Allow(context.Background(), "user:1")
	if err == nil || !ok {
		t.Fatalf("expected allow with error when redis is down, got ok=%v err=%v", ok, err)
	}

	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d should pass while redis is down, got %d", i, w.Code)
		}
	}
}

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

func TestRequestID_ReusesValidInboundID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/comments/:postId", func(c *gin.Context) {
		seen = RequestIDFrom(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/comments/1", nil)
	req.Header.Set(strings.ToLower(requestIDHeader), "edge-7f3a")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "edge-7f3a" || seen != "edge-7f3a" {
		t.Fatalf("header=%q context=%q; want edge-7f3a", got, seen)
	}
}

func TestRequestID_ReplacesMissingOrUnsafeID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.DELETE("/posts/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, in := range []string{"", "has space", "line\nbreak", strings.Repeat("a", maxRequestIDLength+1)} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/posts/3", nil)
		if in != "" {
			req.Header[requestIDHeader] = []string{in}
		}
		r.ServeHTTP(w, req)
		got := w.Header().Get(requestIDHeader)
		if got == "" || got == in || len(got) != 36 {
			t.Fatalf("inbound %q: got %q; want a fresh uuid", in, got)
		}
	}
}

func TestValidRequestID(t *testing.T) {
	if !validRequestID(strings.Repeat("x", maxRequestIDLength)) {
		t.Fatalf("id at the length cap must be accepted")
	}
	if validRequestID("tab\tid") || validRequestID("ünïcode") {
		t.Fatalf("non-printable or non-ASCII ids must be rejected")
	}
}

func TestRecovery_HandlerPanicBecomes500Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{}))
	r.Use(Recovery())
	r.PUT("/posts/:id", func(c *gin.Context) { panic("nil post") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/posts/9", nil)
	req.Header.Set(requestIDHeader, "rid-panic")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	want := ErrorBody{RequestID: "rid-panic", Error: "internal server error", Code: "INTERNAL_SERVER_ERROR"}
	if body != want {
		t.Fatalf("body = %+v; want %+v", body, want)
	}
	if strings.Contains(w.Body.String(), "nil post") {
		t.Fatalf("panic value leaked to client: %s", w.Body.String())
	}
	out := buf.String()
	if !strings.Contains(out, "panic recovered") || !strings.Contains(out, "nil post") || !strings.Contains(out, `"route":"/posts/:id"`) {
		t.Fatalf("expected panic log with route, got:\n%s", out)
	}
}

func TestRecovery_PanicAfterListWritten(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(Recovery())
	r.GET("/comments/:postId", func(c *gin.Context) {
		c.String(http.StatusOK, "[]")
		panic("late failure")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/comments/1", nil))

	// The 200 is already out; no envelope may follow it.
	if strings.Contains(w.Body.String(), "INTERNAL_SERVER_ERROR") {
		t.Fatalf("envelope written after body: %q", w.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("expected panic log, got:\n%s", buf.String())
	}
}

func TestLoggerFrom_GlobalFallbackAndRequestScoped(t *testing.T) {
	gin.SetMode(gin.TestMode)

	global := captureLogger(t)
	r1 := gin.New()
	r1.Use(RequestID())
	r1.GET("/comments/:postId", func(c *gin.Context) {
		LoggerFrom(c).Info().Int64("post_id", 1).Msg("listed")
		c.Status(http.StatusOK)
	})
	r1.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/comments/1", nil))
	if !strings.Contains(global.String(), `"message":"listed"`) {
		t.Fatalf("expected log through the global logger")
	}
	if strings.Contains(global.String(), `"request_id"`) {
		t.Fatalf("global logger unexpectedly carried request_id")
	}

	scoped := captureLogger(t)
	r2 := gin.New()
	r2.Use(RequestID())
	r2.Use(RedactingLogger(RedactOptions{}))
	r2.GET("/comments/:postId", func(c *gin.Context) {
		LoggerFrom(c).Info().Int64("post_id", 1).Msg("listed")
		c.Status(http.StatusOK)
	})
	r2.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/comments/1", nil))
	out := scoped.String()
	if !strings.Contains(out, `"message":"listed"`) || !strings.Contains(out, `"request_id"`) {
		t.Fatalf("expected request-scoped log with request_id, got:\n%s", out)
	}
}

func TestHelpers_asString_and_truncate(t *testing.T) {
	if asString("x") != "x" || asString(123) != "" {
		t.Fatalf("asString failed")
	}
	if truncate("postId=1", 10) != "postId=1" {
		t.Fatalf("short query must be kept")
	}
	if got := truncate("abcdefgh", 5); got != "abcde…" {
		t.Fatalf("truncate = %q; want %q", got, "abcde…")
	}
	if truncate("abc", 0) != "abc" {
		t.Fatalf("max 0 must disable truncation")
	}
}

// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file sets the response hardening headers for the posts API. Every
// response is JSON, so there is no CSP. The router leaves NoStore off because
// comment lists are revalidated with ETag, and it exposes ETag and
// Idempotency-Replayed so browser clients of the comment endpoints can read
// them.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultHSTSMaxAge   = 180 * 24 * time.Hour
	exposeHeadersHeader = "Access-Control-Expose-Headers"
)

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	EnableHSTS   bool          // only when the service is reached over HTTPS end to end
	HSTSMaxAge   time.Duration // <= 0 means 180 days
	NoStore      bool          // forbid caching; breaks conditional GET on comment lists
	EnablePolicy bool          // Permissions-Policy and X-Permitted-Cross-Domain-Policies
	// ExposeHeaders are readable by browser clients in addition to X-Request-ID.
	ExposeHeaders []string
}

// SecurityHeaders always sends nosniff, DENY framing and no-referrer. The
// options add the policy headers, no-store caching and HSTS; HSTS is only
// sent when the request itself arrived over HTTPS.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hsts := "max-age=" + strconv.FormatInt(int64(maxAge.Seconds()), 10) + "; includeSubDomains; preload"
	expose := append([]string{requestIDHeader}, opt.ExposeHeaders...)

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}
		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		h.Set(exposeHeadersHeader, mergeHeaderList(h.Get(exposeHeadersHeader), expose))

		c.Next()
	}
}

// mergeHeaderList appends names missing from the comma separated list cur,
// keeping whatever CORS already exposed.
func mergeHeaderList(cur string, names []string) string {
	seen := make(map[string]struct{})
	for _, part := range strings.Split(cur, ",") {
		if p := strings.TrimSpace(part); p != "" {
			seen[strings.ToLower(p)] = struct{}{}
		}
	}
	out := cur
	for _, name := range names {
		k := strings.ToLower(name)
		if _, dup := seen[k]; name == "" || dup {
			continue
		}
		seen[k] = struct{}{}
		if out == "" {
			out = name
		} else {
			out += ", " + name
		}
	}
	return out
}

// isHTTPS reports whether the request came in over TLS, directly or as
// announced by the fronting proxy.
func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for POST /comments/{postId}.
// It validates an Idempotency-Key request header, optionally performs a
// lookup to detect previously completed requests, and annotates the request
// context so downstream handlers can:
//   - read the normalized key (GetIdempotencyKey)
//   - detect replayed requests (IsReplay)
//   - bypass rate limiting when a replay is served (via an internal flag)
//
// Persistence stays behind the narrow IdempotencyLookup function type.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-posts-backend/internal/apperr"
	"github.com/tbourn/go-posts-backend/internal/auth"
)

// HeaderIdempotencyKey is the request header that clients use to convey an
// idempotency key for comment creation.
const HeaderIdempotencyKey = "Idempotency-Key"

// Context keys used internally to stash idempotency state.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay" // bool: true when a stored replay exists
	ctxKeyRateBypass = "rate.bypass" // bool: true to skip rate limiting
)

// GetIdempotencyKey returns the validated idempotency key stored in the Gin
// context by IdempotencyValidator. The second return value indicates presence.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the middleware found a stored result for this
// (user, post, key).
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures header validation behavior for
// IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. If nil, ^[A-Za-z0-9._~\-:]+$ is used.
	Pattern *regexp.Regexp
	// Param names the route parameter carrying the post ID. Defaults to "postId".
	Param string
}

// IdempotencyLookup answers whether a still-valid result exists for
// (userID, postID, key) at the given time. Return an error only for lookup
// failures; those never block normal processing.
type IdempotencyLookup func(ctx context.Context, userID, postID int64, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates the Idempotency-Key header (if present),
// stashes it in the request context, and checks for a prior completed request
// via lookup.
//
// Only POST requests on routes carrying the post ID parameter are inspected;
// the header is ignored everywhere else.
//
// Behavior:
//   - Header absent or route out of scope: no-op.
//   - Header invalid: 400 VALIDATION_ERROR.
//   - Lookup hit: sets replay + rate-bypass flags.
//
// The caller identity is read from the context when RequireIdentity already
// ran, otherwise straight from the headers; without one no lookup is made.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}
	param := opts.Param
	if param == "" {
		param = "postId"
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || !inScope(c, param) {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			AbortWithError(c, apperr.Validation("invalid Idempotency-Key"))
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			uid, okUser := userIDFromCtx(c)
			postID, err := strconv.ParseInt(c.Param(param), 10, 64)
			if okUser && err == nil && postID > 0 {
				if exists, _ := lookup(c.Request.Context(), uid, postID, key, time.Now().UTC()); exists {
					c.Set(ctxKeyIdemReplay, true)
					c.Set(ctxKeyRateBypass, true)
				}
			}
		}

		c.Next()
	}
}

// inScope reports whether the request is a comment creation the key applies to.
func inScope(c *gin.Context, param string) bool {
	return c.Request.Method == http.MethodPost && c.Param(param) != ""
}

// userIDFromCtx returns the caller's numeric id, preferring the identity set
// by RequireIdentity and falling back to resolving the request headers.
func userIDFromCtx(c *gin.Context) (int64, bool) {
	if id, ok := IdentityFrom(c); ok {
		return id.UserID, true
	}
	id, err := auth.Resolve(c.Request.Header)
	if err != nil {
		return 0, false
	}
	return id.UserID, true
}

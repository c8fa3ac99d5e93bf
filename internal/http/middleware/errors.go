// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file owns the JSON error envelope. Every failed response, whether it
// is produced by a handler or rejected by middleware (identity, idempotency
// key, rate limit, panic), is written through AbortWithError or abortWith so
// clients always see the same shape:
//
//	{ "request_id": "<uuid>", "error": "<message>", "code": "<CODE>" }
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-posts-backend/internal/apperr"
)

// Codes used by edge middleware for statuses outside the service taxonomy.
const (
	CodeRateLimited      = "RATE_LIMITED"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
	Code      string `json:"code"`
}

// RequestIDFrom returns the correlation ID set by RequestID, or "".
func RequestIDFrom(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		return asString(v)
	}
	return c.Writer.Header().Get(requestIDHeader)
}

// AbortWithError classifies err, counts it and writes the envelope with the
// matching status. Unclassified errors become 500 with the generic message.
func AbortWithError(c *gin.Context, err error) {
	ae := apperr.From(err)
	if ae == nil {
		ae = apperr.Internal(nil)
	}
	abortWith(c, ae.Status(), ae.Code(), ae.Message)
}

func abortWith(c *gin.Context, status int, code, msg string) {
	RecordError(code)
	c.AbortWithStatusJSON(status, ErrorBody{
		RequestID: RequestIDFrom(c),
		Error:     msg,
		Code:      code,
	})
}

// AbortPayloadTooLarge answers 413 PAYLOAD_TOO_LARGE. Handlers call it when
// reading the body trips the limit installed by the router.
func AbortPayloadTooLarge(c *gin.Context) {
	abortWith(c, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "request body too large")
}

// MethodNotAllowed is the NoMethod handler: 405 METHOD_NOT_ALLOWED.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWith(c, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	}
}

// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response utilities used across all endpoints. Every
// failure goes through fail(), which classifies the error, logs server-side
// failures with their cause and writes the shared error envelope.
//
// Example error response:
//
//	HTTP/1.1 403 Forbidden
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "error": "you are not allowed to delete this post",
//	  "code": "FORBIDDEN"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-posts-backend/internal/apperr"
	"github.com/tbourn/go-posts-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by all endpoints. It is the
// same shape middleware rejections use.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Human-readable message (safe to show to users)
	Error string `json:"error" example:"post not found"`
	// Stable, machine-readable code (see errors.go)
	Code string `json:"code" example:"NOT_FOUND"`
}

// fail aborts the request with the envelope for err.
//
// Unclassified errors become 500 INTERNAL_SERVER_ERROR. Server errors are
// logged with the underlying cause through the request-scoped logger; the
// cause never reaches the client.
func fail(c *gin.Context, err error) {
	ae := apperr.From(err)
	if ae == nil {
		ae = apperr.Internal(nil)
	}
	if ae.Status() >= http.StatusInternalServerError {
		ev := middleware.LoggerFrom(c).Error().
			Int("status", ae.Status()).
			Str("code", ae.Code())
		if ae.Err != nil {
			ev = ev.Err(ae.Err)
		}
		ev.Msg("api error")
	}
	middleware.AbortWithError(c, ae)
}

// Fail is the exported variant of fail() for router fallbacks.
func Fail(c *gin.Context, err error) { fail(c, err) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

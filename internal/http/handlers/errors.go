// Package handlers defines the error code tokens clients may see in the
// "code" field of an error response.
//
// The five classified codes come from the core error taxonomy; the remaining
// ones are produced by edge middleware (rate limiting, body size, routing)
// and never by a service.
//
// Clients are expected to branch on these codes, not on messages.
package handlers

import (
	"github.com/tbourn/go-posts-backend/internal/apperr"
	"github.com/tbourn/go-posts-backend/internal/http/middleware"
)

const (
	ErrCodeValidation   = apperr.CodeValidation
	ErrCodeUnauthorized = apperr.CodeUnauthorized
	ErrCodeForbidden    = apperr.CodeForbidden
	ErrCodeNotFound     = apperr.CodeNotFound
	ErrCodeInternal     = apperr.CodeInternal

	// Edge-only:
	ErrCodeRateLimited      = middleware.CodeRateLimited
	ErrCodePayloadTooLarge  = middleware.CodePayloadTooLarge
	ErrCodeMethodNotAllowed = middleware.CodeMethodNotAllowed
)

// Package apperr defines the closed set of classified failures that may cross
// the service boundary. Every lifecycle operation either returns a value or
// exactly one *Error; the HTTP layer maps the Kind to a status code and a
// stable, machine-readable code token.
//
// The set of kinds is fixed:
//
//	Kind          Status  Code
//	Validation    400     VALIDATION_ERROR
//	Unauthorized  401     UNAUTHORIZED
//	Forbidden     403     FORBIDDEN
//	NotFound      404     NOT_FOUND
//	Internal      500     INTERNAL_SERVER_ERROR
//
// Internal errors keep their cause for logging (see Unwrap) but always carry
// a fixed, generic message so storage details never reach clients.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an Error. The zero value is not a valid kind.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInternal
)

// Stable code tokens returned in the "code" field of error responses.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

// Default messages used when a constructor receives an empty message.
const (
	DefaultUnauthorized = "user not authenticated"
	DefaultForbidden    = "access denied"
	DefaultNotFound     = "resource not found"
	DefaultInternal     = "internal server error"

	// defaultValidation is a last resort; callers are expected to say what
	// failed validation.
	defaultValidation = "invalid request"
)

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the stable code token for k.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return CodeValidation
	case KindUnauthorized:
		return CodeUnauthorized
	case KindForbidden:
		return CodeForbidden
	case KindNotFound:
		return CodeNotFound
	default:
		return CodeInternal
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string { return k.Code() }

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Message string
	// Err is the underlying cause, if any. Only Internal errors carry one.
	Err error
}

// Error implements the error interface. It returns the client-safe message.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind and message, so errors.Is works
// against shared values without requiring pointer identity.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Kind == t.Kind && e.Message == t.Message
}

// Status is shorthand for e.Kind.Status().
func (e *Error) Status() int { return e.Kind.Status() }

// Code is shorthand for e.Kind.Code().
func (e *Error) Code() string { return e.Kind.Code() }

func newError(k Kind, msg, def string) *Error {
	if msg == "" {
		msg = def
	}
	return &Error{Kind: k, Message: msg}
}

// Validation reports malformed or missing input.
func Validation(msg string) *Error { return newError(KindValidation, msg, defaultValidation) }

// Unauthorized reports a request without a resolvable identity.
func Unauthorized(msg string) *Error { return newError(KindUnauthorized, msg, DefaultUnauthorized) }

// Forbidden reports an identity acting on a resource it does not own.
func Forbidden(msg string) *Error { return newError(KindForbidden, msg, DefaultForbidden) }

// NotFound reports a missing resource.
func NotFound(msg string) *Error { return newError(KindNotFound, msg, DefaultNotFound) }

// Internal wraps an unexpected failure. The message is always the generic
// DefaultInternal text; cause is retained for logs only.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: DefaultInternal, Err: cause}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// From classifies err. A nil err yields nil; an error that already carries a
// *Error is returned as that *Error; anything else becomes Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}
	return Internal(err)
}

// IsKind reports whether err classifies as k.
func IsKind(err error, k Kind) bool {
	ae := From(err)
	return ae != nil && ae.Kind == k
}

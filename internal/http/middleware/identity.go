// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file binds the caller identity to the request. RequireIdentity runs
// the header resolver on routes that need an authenticated caller and stops
// the chain with 401 UNAUTHORIZED when no identity marker is present.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-posts-backend/internal/auth"
	"github.com/tbourn/go-posts-backend/internal/domain"
)

const (
	// identityKey holds the resolved domain.Identity.
	identityKey = "identity"
	// userIDKey holds the identity as a string for log and limiter keys.
	userIDKey = "userID"
)

// RequireIdentity resolves the caller from request headers and stores it in
// the Gin context. Requests without an identity are rejected.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := auth.Resolve(c.Request.Header)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Set(userIDKey, id.Key())
		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireIdentity.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

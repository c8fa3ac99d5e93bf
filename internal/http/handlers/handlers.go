// Package handlers is the request dispatcher: it decodes path and body
// parameters into primitive arguments, calls the lifecycle services and
// translates the outcome into an HTTP response.
//
// Handlers are transport-thin. All business rules (validation, ownership)
// live in the services; the handlers only reject what cannot be decoded
// (non-numeric ids, malformed JSON, oversized bodies).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/apperr"
	"github.com/tbourn/go-posts-backend/internal/domain"
	"github.com/tbourn/go-posts-backend/internal/http/middleware"
	"github.com/tbourn/go-posts-backend/internal/services"
	"github.com/tbourn/go-posts-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// CommentService defines the comment lifecycle consumed by the handlers.
type CommentService interface {
	// Create adds a comment by authorID to postID.
	Create(ctx context.Context, postID, authorID int64, content string) (*domain.Comment, error)
	// List returns the comments of postID, newest first.
	List(ctx context.Context, postID int64) ([]domain.Comment, error)
}

// PostService defines the owner-only post mutations consumed by the handlers.
type PostService interface {
	// Update replaces title and content of a post owned by requesterID.
	Update(ctx context.Context, postID, requesterID int64, title, content string) (*domain.Post, error)
	// Delete removes a post owned by requesterID together with its comments.
	Delete(ctx context.Context, postID, requesterID int64) error
}

//
// Handler wiring
//

// defaultIdempotencyTTL is how long a POST /comments result stays replayable.
const defaultIdempotencyTTL = 24 * time.Hour

// Handlers groups HTTP endpoints for posts and comments.
type Handlers struct {
	postSvc    PostService
	commentSvc CommentService

	// IdempotencyTTL bounds how long Idempotency-Key results are replayed.
	IdempotencyTTL time.Duration
}

// New constructs a Handlers instance bound to the given services.
func New(postSvc PostService, commentSvc CommentService) *Handlers {
	return &Handlers{postSvc: postSvc, commentSvc: commentSvc, IdempotencyTTL: defaultIdempotencyTTL}
}

// commentDB returns the store handle behind the concrete CommentService, or
// nil for other implementations. ETag and idempotency support are skipped
// without it.
func (h *Handlers) commentDB() *gorm.DB {
	if svc, ok := h.commentSvc.(*services.CommentService); ok {
		return svc.DB
	}
	return nil
}

//
// Helpers
//

// identity returns the caller resolved by middleware.RequireIdentity.
func identity(c *gin.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, apperr.Unauthorized("")
	}
	return id, nil
}

// pathID parses the named path parameter as a positive integer id.
func pathID(c *gin.Context, name, label string) (int64, error) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		return 0, apperr.Validation(label + " must be a positive integer")
	}
	return id, nil
}

// bindJSON decodes the request body into dst. It writes the error response
// itself and reports whether the handler may continue.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		middleware.AbortPayloadTooLarge(c)
		return false
	}
	fail(c, apperr.Validation("invalid JSON body"))
	return false
}

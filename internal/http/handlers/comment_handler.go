// Comment HTTP handlers.
//
// This file exposes REST endpoints for comments:
//   - POST /comments/{postId}   (create a comment as the calling identity)
//   - GET  /comments/{postId}   (list a post's comments, newest first)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (user, post, key), the handler returns that recorded
// comment and sets `Idempotency-Replayed: true`.
//
// Conditional GET:
// The list carries a weak ETag derived from the comment count, newest
// timestamp and highest id; a matching If-None-Match yields 304.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-posts-backend/internal/domain"
	"github.com/tbourn/go-posts-backend/internal/http/middleware"
	"github.com/tbourn/go-posts-backend/internal/repo"
)

// headerReplayed marks a response served from a stored idempotent result.
const headerReplayed = "Idempotency-Replayed"

//
// DTOs
//

// CreateCommentRequest is the JSON payload for creating a comment.
type CreateCommentRequest struct {
	// Content is the comment text. Empty or whitespace-only is rejected.
	Content string `json:"content" example:"Great post, thanks!"`
}

//
// Handlers
//

// CreateComment godoc
// @ID          createComment
// @Summary     Comment on a post
// @Description Adds a comment by the calling identity to an existing post.
// @Description Supports idempotency via the Idempotency-Key header (same key → same comment).
// @Tags        Comments
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "Caller user id"                         example(1)
// @Param       X-User-Email     header  string  false "Caller email"                           example(alice@example.com)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"       example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       postId           path    int     true  "Post ID"                                minimum(1)
// @Param       body             body    handlers.CreateCommentRequest  true  "Comment payload"
//
// @Success     201  {object}  domain.Comment
// @Header      201  {string}  Idempotency-Replayed  "true when the stored result was replayed"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation error"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing identity"
// @Failure     404  {object}  handlers.ErrorResponse  "Post not found"
// @Failure     413  {object}  handlers.ErrorResponse  "Body too large"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /comments/{postId} [post]
func (h *Handlers) CreateComment(c *gin.Context) {
	ctx := c.Request.Context()

	postID, err := pathID(c, "postId", "post id")
	if err != nil {
		fail(c, err)
		return
	}
	var req CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	who, err := identity(c)
	if err != nil {
		fail(c, err)
		return
	}

	db := h.commentDB()
	idemKey, _ := middleware.GetIdempotencyKey(c)

	// Replay path.
	if idemKey != "" && db != nil {
		if prev := h.replayComment(c, who.UserID, postID, idemKey); prev != nil {
			c.Header(headerReplayed, "true")
			ok(c, http.StatusCreated, prev)
			return
		}
	}

	cm, err := h.commentSvc.Create(ctx, postID, who.UserID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	// Store path, best effort: a failed record only loses the replay.
	if idemKey != "" && db != nil {
		if _, err := repo.CreateIdempotency(ctx, db, who.UserID, postID, idemKey, cm.ID, http.StatusCreated, h.IdempotencyTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			middleware.LoggerFrom(c).Warn().Err(err).Int64("post_id", postID).Msg("idempotency record not stored")
		}
	}

	ok(c, http.StatusCreated, cm)
}

// replayComment loads the comment recorded for (user, post, key), or nil.
func (h *Handlers) replayComment(c *gin.Context, userID, postID int64, key string) *domain.Comment {
	ctx := c.Request.Context()
	db := h.commentDB()
	rec, err := repo.GetIdempotency(ctx, db, userID, postID, key, time.Now().UTC())
	if err != nil {
		return nil
	}
	prev, err := repo.GetComment(ctx, db, rec.CommentID)
	if err != nil {
		return nil
	}
	return prev
}

// ListComments godoc
// @ID          listComments
// @Summary     List a post's comments
// @Description Returns every comment of the post ordered by creation time, newest first.
// @Description Supports weak ETag via If-None-Match and may return 304.
// @Tags        Comments
// @Produce     json
//
// @Param       postId         path    int     true  "Post ID"                     minimum(1)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {array}   domain.Comment
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse "Validation error"
// @Failure     404  {object}  handlers.ErrorResponse "Post not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /comments/{postId} [get]
func (h *Handlers) ListComments(c *gin.Context) {
	ctx := c.Request.Context()

	postID, err := pathID(c, "postId", "post id")
	if err != nil {
		fail(c, err)
		return
	}

	// ETag pre-check (best effort). Comments cannot outlive their post, so
	// a non-zero count proves the post exists and 304 is safe to answer
	// before the service runs.
	var etag string
	if db := h.commentDB(); db != nil {
		count, latest, maxID, err := repo.CommentsStats(ctx, db, postID)
		if err == nil {
			etag = commentsETag(postID, count, latest, maxID)
			if count > 0 && c.GetHeader("If-None-Match") == etag {
				c.Header("ETag", etag)
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.commentSvc.List(ctx, postID)
	if err != nil {
		fail(c, err)
		return
	}
	if etag != "" {
		c.Header("ETag", etag)
	}
	ok(c, http.StatusOK, items)
}

// commentsETag fingerprints a post's comment set.
func commentsETag(postID, count int64, latest *time.Time, maxID int64) string {
	var ts int64
	if latest != nil {
		ts = latest.UnixNano()
	}
	return fmt.Sprintf(`W/"comments:%d:%d:%d:%d"`, postID, count, ts, maxID)
}

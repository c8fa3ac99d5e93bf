// Post HTTP handlers.
//
// This file exposes the owner-only post mutations:
//   - PUT    /posts/{id}   (replace title and content)
//   - DELETE /posts/{id}   (delete the post and its comments)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UpdatePostRequest is the JSON payload for updating a post. Both fields are
// required; whitespace-only values are rejected by the service.
type UpdatePostRequest struct {
	Title   string `json:"title"   example:"Hello"`
	Content string `json:"content" example:"World"`
}

// UpdatePost godoc
// @ID          updatePost
// @Summary     Update a post
// @Description Replaces title and content of a post owned by the caller. Owner and creation time are preserved.
// @Tags        Posts
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller user id"  example(1)
// @Param       id         path    int     true  "Post ID"         minimum(1)
// @Param       body       body    handlers.UpdatePostRequest  true  "New title and content"
//
// @Success     200  {object}  domain.Post
// @Failure     400  {object}  handlers.ErrorResponse "Validation error"
// @Failure     401  {object}  handlers.ErrorResponse "Missing identity"
// @Failure     403  {object}  handlers.ErrorResponse "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse "Post not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /posts/{id} [put]
func (h *Handlers) UpdatePost(c *gin.Context) {
	postID, err := pathID(c, "id", "post id")
	if err != nil {
		fail(c, err)
		return
	}
	var req UpdatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	who, err := identity(c)
	if err != nil {
		fail(c, err)
		return
	}

	p, err := h.postSvc.Update(c.Request.Context(), postID, who.UserID, req.Title, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// DeletePost godoc
// @ID          deletePost
// @Summary     Delete a post
// @Description Deletes a post owned by the caller; its comments are removed first.
// @Tags        Posts
//
// @Param       X-User-ID  header  string  true  "Caller user id"  example(1)
// @Param       id         path    int     true  "Post ID"         minimum(1)
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Validation error"
// @Failure     401  {object}  handlers.ErrorResponse "Missing identity"
// @Failure     403  {object}  handlers.ErrorResponse "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse "Post not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /posts/{id} [delete]
func (h *Handlers) DeletePost(c *gin.Context) {
	postID, err := pathID(c, "id", "post id")
	if err != nil {
		fail(c, err)
		return
	}
	who, err := identity(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.postSvc.Delete(c.Request.Context(), postID, who.UserID); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

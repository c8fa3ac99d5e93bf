// Package services defines the business logic for posts and comments.
// This file centralizes the classified errors returned by service methods.
// The exported values are comparison targets for errors.Is; methods return a
// fresh copy so callers may not alter what the next request sees.
//
// Every error leaving this package is an *apperr.Error. Store failures that
// carry no classification are wrapped with apperr.Internal at the call site.
package services

import "github.com/tbourn/go-posts-backend/internal/apperr"

var (
	// ErrPostNotFound indicates that the addressed post does not exist.
	ErrPostNotFound = apperr.NotFound("post not found")

	// ErrEmptyComment is returned when comment content is empty or only
	// whitespace.
	ErrEmptyComment = apperr.Validation("comment content must not be empty")

	// ErrTitleContentRequired is returned when an update omits title or
	// content.
	ErrTitleContentRequired = apperr.Validation("title and content are required")

	// ErrNotAuthenticated is returned when a comment is submitted without an
	// author.
	ErrNotAuthenticated = apperr.Unauthorized("")

	// ErrEditForbidden is returned when the requester does not own the post
	// being updated.
	ErrEditForbidden = apperr.Forbidden("you are not allowed to edit this post")

	// ErrDeleteForbidden is returned when the requester does not own the post
	// being deleted.
	ErrDeleteForbidden = apperr.Forbidden("you are not allowed to delete this post")
)

// fresh returns a private copy of a package error.
func fresh(e *apperr.Error) *apperr.Error {
	c := *e
	return &c
}

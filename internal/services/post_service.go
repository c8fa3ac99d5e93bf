// Package services – PostService
//
// This file implements PostService, which applies owner-only updates to
// posts and deletes a post together with its comments.
//
// The ownership check reads the post first so that a missing post is
// reported as NotFound and a foreign one as Forbidden. The mutation itself
// is conditional on (id, owner_id) in the store, so a post deleted between
// the check and the write surfaces as NotFound instead of being resurrected
// or silently overwritten.
package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/apperr"
	"github.com/tbourn/go-posts-backend/internal/domain"
	"github.com/tbourn/go-posts-backend/internal/repo"
)

// PostRepo defines the repository contract required by PostService.
type PostRepo interface {
	// GetPost fetches a post by ID or returns repo.ErrNotFound.
	GetPost(ctx context.Context, db *gorm.DB, id int64) (*domain.Post, error)

	// UpdatePostFields writes title/content where id and owner match and
	// returns the stored row, or repo.ErrNotFound when nothing matched.
	UpdatePostFields(ctx context.Context, db *gorm.DB, id, ownerID int64, title, content string) (*domain.Post, error)

	// DeletePost removes the post where id and owner match, or returns
	// repo.ErrNotFound when nothing matched.
	DeletePost(ctx context.Context, db *gorm.DB, id, ownerID int64) error

	// DeleteCommentsByPost removes all comments of a post.
	DeleteCommentsByPost(ctx context.Context, db *gorm.DB, postID int64) (int64, error)
}

// PostService updates and deletes posts on behalf of their owner.
type PostService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the store used by this service.
	Repo PostRepo
}

// NewPostService constructs a PostService. A nil repo selects repo.Store.
func NewPostService(db *gorm.DB, r PostRepo) *PostService {
	if r == nil {
		r = repo.Store{}
	}
	return &PostService{DB: db, Repo: r}
}

// Update replaces title and content of postID when requesterID owns it.
// OwnerID and CreatedAt are preserved.
func (s *PostService) Update(ctx context.Context, postID, requesterID int64, title, content string) (*domain.Post, error) {
	tr := otel.Tracer("services/PostService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(
			attribute.Int64("post.id", postID),
			attribute.Int64("user.id", requesterID),
		),
	)
	defer span.End()

	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, fresh(ErrTitleContentRequired)
	}

	if err := s.authorize(ctx, span, postID, requesterID, ErrEditForbidden); err != nil {
		return nil, err
	}

	p, err := s.Repo.UpdatePostFields(ctx, s.DB, postID, requesterID, title, content)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fresh(ErrPostNotFound)
	}
	if err != nil {
		return nil, internal(span, err)
	}
	return p, nil
}

// Delete removes postID and all of its comments when requesterID owns it.
//
// Comments are always deleted first, and the post delete is only issued once
// that call has returned successfully; a post with no comments still goes
// through both calls. The two deletes are not wrapped in a transaction.
func (s *PostService) Delete(ctx context.Context, postID, requesterID int64) error {
	tr := otel.Tracer("services/PostService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.Int64("post.id", postID),
			attribute.Int64("user.id", requesterID),
		),
	)
	defer span.End()

	if err := s.authorize(ctx, span, postID, requesterID, ErrDeleteForbidden); err != nil {
		return err
	}

	n, err := s.Repo.DeleteCommentsByPost(ctx, s.DB, postID)
	if err != nil {
		return internal(span, err)
	}
	span.SetAttributes(attribute.Int64("comments.deleted", n))

	err = s.Repo.DeletePost(ctx, s.DB, postID, requesterID)
	if errors.Is(err, repo.ErrNotFound) {
		return fresh(ErrPostNotFound)
	}
	if err != nil {
		return internal(span, err)
	}
	return nil
}

// authorize loads the post and checks that requesterID owns it.
func (s *PostService) authorize(ctx context.Context, span trace.Span, postID, requesterID int64, forbidden *apperr.Error) error {
	p, err := s.Repo.GetPost(ctx, s.DB, postID)
	if errors.Is(err, repo.ErrNotFound) {
		return fresh(ErrPostNotFound)
	}
	if err != nil {
		return internal(span, err)
	}
	if p.OwnerID != requesterID {
		return fresh(forbidden)
	}
	return nil
}

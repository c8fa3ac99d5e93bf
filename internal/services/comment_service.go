// Package services – CommentService
//
// This file implements CommentService, which validates and creates comments
// on existing posts and lists a post's comments newest first.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include post and author identifiers.
package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/apperr"
	"github.com/tbourn/go-posts-backend/internal/domain"
	"github.com/tbourn/go-posts-backend/internal/repo"
)

// CommentRepo defines the repository contract required by CommentService.
type CommentRepo interface {
	// GetPost fetches a post by ID or returns repo.ErrNotFound.
	GetPost(ctx context.Context, db *gorm.DB, id int64) (*domain.Post, error)

	// CreateComment inserts a comment and returns it with ID and CreatedAt set.
	CreateComment(ctx context.Context, db *gorm.DB, postID, authorID int64, content string) (*domain.Comment, error)

	// ListCommentsByPost returns the post's comments, newest first.
	ListCommentsByPost(ctx context.Context, db *gorm.DB, postID int64) ([]domain.Comment, error)
}

// CommentService creates and lists comments.
type CommentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the store used by this service.
	Repo CommentRepo
}

// NewCommentService constructs a CommentService. A nil repo selects repo.Store.
func NewCommentService(db *gorm.DB, r CommentRepo) *CommentService {
	if r == nil {
		r = repo.Store{}
	}
	return &CommentService{DB: db, Repo: r}
}

// Create adds a comment by authorID to postID.
//
// Content is validated before anything else, then the author is re-checked
// (authorID must be positive) even though the HTTP layer already resolved
// an identity. The post must exist.
func (s *CommentService) Create(ctx context.Context, postID, authorID int64, content string) (*domain.Comment, error) {
	ctx, span := otel.Tracer("services/CommentService").Start(ctx, "Create",
		trace.WithAttributes(
			attribute.Int64("post.id", postID),
			attribute.Int64("user.id", authorID),
		),
	)
	defer span.End()

	if strings.TrimSpace(content) == "" {
		return nil, fresh(ErrEmptyComment)
	}
	if authorID <= 0 {
		return nil, fresh(ErrNotAuthenticated)
	}

	if _, err := s.findPost(ctx, span, postID); err != nil {
		return nil, err
	}

	c, err := s.Repo.CreateComment(ctx, s.DB, postID, authorID, content)
	if err != nil {
		return nil, internal(span, err)
	}
	return c, nil
}

// List returns every comment of postID ordered by CreatedAt descending.
// A post without comments yields an empty, non-nil slice.
func (s *CommentService) List(ctx context.Context, postID int64) ([]domain.Comment, error) {
	ctx, span := otel.Tracer("services/CommentService").Start(ctx, "List",
		trace.WithAttributes(attribute.Int64("post.id", postID)),
	)
	defer span.End()

	if _, err := s.findPost(ctx, span, postID); err != nil {
		return nil, err
	}

	items, err := s.Repo.ListCommentsByPost(ctx, s.DB, postID)
	if err != nil {
		return nil, internal(span, err)
	}
	if items == nil {
		items = []domain.Comment{}
	}
	span.SetAttributes(attribute.Int("comments.count", len(items)))
	return items, nil
}

func (s *CommentService) findPost(ctx context.Context, span trace.Span, postID int64) (*domain.Post, error) {
	p, err := s.Repo.GetPost(ctx, s.DB, postID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fresh(ErrPostNotFound)
	}
	if err != nil {
		return nil, internal(span, err)
	}
	return p, nil
}

// internal wraps an unclassified store failure and marks the span as failed.
func internal(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return apperr.Internal(err)
}

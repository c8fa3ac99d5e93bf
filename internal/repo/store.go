package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/domain"
)

// Store exposes the package functions as methods so services can depend on
// small interfaces and tests can swap in fakes.
type Store struct{}

func (Store) GetPost(ctx context.Context, db *gorm.DB, id int64) (*domain.Post, error) {
	return GetPost(ctx, db, id)
}

func (Store) UpdatePostFields(ctx context.Context, db *gorm.DB, id, ownerID int64, title, content string) (*domain.Post, error) {
	return UpdatePostFields(ctx, db, id, ownerID, title, content)
}

func (Store) DeletePost(ctx context.Context, db *gorm.DB, id, ownerID int64) error {
	return DeletePost(ctx, db, id, ownerID)
}

func (Store) CreateComment(ctx context.Context, db *gorm.DB, postID, authorID int64, content string) (*domain.Comment, error) {
	return CreateComment(ctx, db, postID, authorID, content)
}

func (Store) ListCommentsByPost(ctx context.Context, db *gorm.DB, postID int64) ([]domain.Comment, error) {
	return ListCommentsByPost(ctx, db, postID)
}

func (Store) DeleteCommentsByPost(ctx context.Context, db *gorm.DB, postID int64) (int64, error) {
	return DeleteCommentsByPost(ctx, db, postID)
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Comment model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-posts-backend/internal/domain"
)

// CreateComment inserts a new comment row. The parent post is not upserted.
func CreateComment(ctx context.Context, db *gorm.DB, postID, authorID int64, content string) (*domain.Comment, error) {
	c := &domain.Comment{
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetComment fetches a comment by ID or returns ErrNotFound.
func GetComment(ctx context.Context, db *gorm.DB, id int64) (*domain.Comment, error) {
	var c domain.Comment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCommentsByPost returns every comment of postID, newest first
// (CreatedAt DESC, ID DESC). A post without comments yields an empty slice.
func ListCommentsByPost(ctx context.Context, db *gorm.DB, postID int64) ([]domain.Comment, error) {
	out := []domain.Comment{}
	err := db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// DeleteCommentsByPost removes every comment of postID and reports how many
// rows went away. Zero is not an error.
func DeleteCommentsByPost(ctx context.Context, db *gorm.DB, postID int64) (int64, error) {
	res := db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&domain.Comment{})
	return res.RowsAffected, res.Error
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Post model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a post is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - Mutations are conditional on the owner: UpdatePostFields and
//     DeletePost match on (id, owner_id) and return ErrNotFound when no row
//     is affected, so an ownership check made earlier cannot be raced by a
//     concurrent delete.
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Functions:
//
//   - CreatePost(ctx, db, ownerID, title, content) -> *domain.Post, error
//     Inserts a new Post row. Used by seeding and tests; the HTTP surface
//     does not create posts.
//
//   - GetPost(ctx, db, id) -> *domain.Post, error
//     Fetches a single post by ID, or ErrNotFound if missing.
//
//   - UpdatePostFields(ctx, db, id, ownerID, title, content) -> *domain.Post, error
//     Replaces title/content of a post owned by ownerID and returns the
//     stored row.
//
//   - DeletePost(ctx, db, id, ownerID) -> error
//     Removes a post owned by ownerID. Comments must be removed first
//     (see DeleteCommentsByPost).
//
// Usage:
//
//	// Within a service layer
//	p, err := repo.GetPost(ctx, db, id)
//	if errors.Is(err, repo.ErrNotFound) {
//	    // handle missing
//	} else if err != nil {
//	    // handle DB failure
//	}
//
// This repository is designed to be wrapped by a higher-level service
// (see services.PostService) which enforces validation and ownership.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreatePost inserts a new Post owned by ownerID. Timestamps are set to UTC.
func CreatePost(ctx context.Context, db *gorm.DB, ownerID int64, title, content string) (*domain.Post, error) {
	now := time.Now().UTC()
	p := &domain.Post{
		Title:     title,
		Content:   content,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetPost fetches a single post by its ID. If the record does not exist, it
// returns ErrNotFound. On other DB errors, the raw error is returned.
func GetPost(ctx context.Context, db *gorm.DB, id int64) (*domain.Post, error) {
	var p domain.Post
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePostFields sets title and content on the post identified by id and
// owned by ownerID, then reloads it. OwnerID and CreatedAt are never written.
// If no rows are affected (post missing or not owned by ownerID), it returns
// ErrNotFound.
func UpdatePostFields(ctx context.Context, db *gorm.DB, id, ownerID int64, title, content string) (*domain.Post, error) {
	res := db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]any{"title": title, "content": content})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetPost(ctx, db, id)
}

// DeletePost removes the post identified by id and owned by ownerID. If no
// rows are affected, it returns ErrNotFound.
func DeletePost(ctx context.Context, db *gorm.DB, id, ownerID int64) error {
	res := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

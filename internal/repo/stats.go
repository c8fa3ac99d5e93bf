// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/domain"
)

// CommentsStats returns aggregate metadata for the comments of a post: the
// total number of rows, the newest CreatedAt and the highest ID.
//
// When the post has no comments, count is 0 and latest is nil. The highest
// ID is part of the result because two comments can share a timestamp; a
// delete followed by an insert then still changes the fingerprint.
//
// Return values:
//   - count:  total comments for postID
//   - latest: pointer to the greatest CreatedAt, or nil if no rows
//   - maxID:  greatest comment ID, 0 if no rows
//   - err:    database error, if any
func CommentsStats(ctx context.Context, db *gorm.DB, postID int64) (count int64, latest *time.Time, maxID int64, err error) {
	q := db.WithContext(ctx).Model(&domain.Comment{}).Where("post_id = ?", postID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, 0, err
	}
	if count == 0 {
		return 0, nil, 0, nil
	}

	// Latest row by (created_at, id); avoids MAX() -> TEXT in SQLite.
	var row struct {
		ID        int64
		CreatedAt time.Time
	}
	if err = db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("post_id = ?", postID).
		Select("id", "created_at").
		Order("created_at DESC, id DESC").
		Limit(1).
		Scan(&row).Error; err != nil {
		return 0, nil, 0, err
	}
	if err = db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("post_id = ?", postID).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error; err != nil {
		return 0, nil, 0, err
	}
	return count, &row.CreatedAt, maxID, nil
}

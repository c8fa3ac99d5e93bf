package domain

import "time"

// Idempotency records the comment produced by a previous POST
// /comments/{postId} request, keyed by (user_id, post_id, key). A retry with
// the same key replays CommentID instead of inserting a duplicate comment.
type Idempotency struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserID    int64     `gorm:"not null;uniqueIndex:ux_user_post_key,priority:1"`
	PostID    int64     `gorm:"not null;uniqueIndex:ux_user_post_key,priority:2"`
	Key       string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_user_post_key,priority:3"`
	CommentID int64     `gorm:"not null"`
	Status    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

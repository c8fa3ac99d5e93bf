// Package domain defines the persistence models for posts and comments, plus
// the per-request Identity value. The models are mapped with GORM and form the
// core data layer of the posts backend.
package domain

import (
	"strconv"
	"time"
)

// Post is an authored article. OwnerID never changes after creation; only
// the owner may update or delete it.
//
// Fields:
//   - ID: auto-increment integer primary key.
//   - Title / Content: non-empty text.
//   - OwnerID: identity that created the post; indexed for per-owner queries.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Post struct {
	ID        int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title"      gorm:"type:varchar(255);not null"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	OwnerID   int64     `json:"owner_id"   gorm:"not null;index:idx_owner_posts"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string { return "posts" }

// Comment is a reply attached to a post. Comments are never orphaned: the
// post delete path removes them first, and the foreign key restricts
// deleting a post that still has comments.
//
// Fields:
//   - ID: auto-increment integer primary key.
//   - PostID: the commented post (indexed together with CreatedAt).
//   - AuthorID: identity that wrote the comment.
//   - Content: non-empty text.
//   - CreatedAt: set on insert; listing orders by it, newest first.
type Comment struct {
	ID        int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	PostID    int64     `json:"post_id"    gorm:"not null;index:idx_post_comments,priority:1"`
	AuthorID  int64     `json:"author_id"  gorm:"not null"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_post_comments,priority:2"`

	// Post is the parent. Deleting it while comments remain is rejected.
	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// Identity is the resolved caller for one request. It is never persisted.
type Identity struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// Key renders the user id the way middleware keys expect it (rate limiter,
// access logs).
func (i Identity) Key() string { return strconv.FormatInt(i.UserID, 10) }

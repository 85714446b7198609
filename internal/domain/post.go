package domain

import "time"

// Visibility controls who may read a post.
type Visibility string

const (
	VisibilityPublic    Visibility = "PUBLIC"
	VisibilityPrivate   Visibility = "PRIVATE"
	VisibilityFollowers Visibility = "FOLLOWERS"
)

// Post is a feed entry. Like, comment and view counts are denormalized onto
// the row and maintained alongside the writes that change them. Deletion is a
// soft delete via IsDeleted.
type Post struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"user_id" db:"user_id"`
	AuthorName   string     `json:"-" db:"-"` // joined from users on reads
	Content      string     `json:"content" db:"content"`
	Visibility   Visibility `json:"visibility" db:"visibility"`
	LikeCount    int        `json:"like_count" db:"like_count"`
	CommentCount int        `json:"comment_count" db:"comment_count"`
	ViewCount    int        `json:"view_count" db:"view_count"`
	IsDeleted    bool       `json:"is_deleted" db:"is_deleted"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Comment belongs to a post and optionally to a parent comment. Only two
// levels exist: root comments and replies. Soft delete keeps the row so a
// deleted comment's replies stay attached.
type Comment struct {
	ID         int64     `json:"id" db:"id"`
	PostID     int64     `json:"post_id" db:"post_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	AuthorName string    `json:"-" db:"-"`
	ParentID   *int64    `json:"parent_id" db:"parent_id"`
	Content    string    `json:"content" db:"content"`
	LikeCount  int       `json:"like_count" db:"like_count"`
	IsDeleted  bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the comment is a top-level comment.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

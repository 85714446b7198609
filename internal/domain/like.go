package domain

import "time"

// TargetType tags the polymorphic target of a like or mention.
type TargetType string

const (
	TargetPost    TargetType = "POST"
	TargetComment TargetType = "COMMENT"
)

// LikeTarget is the application-boundary form of a (target_type, target_id)
// pair. Constructing it through PostTarget/CommentTarget keeps invalid type
// tags from ever reaching the storage layer.
type LikeTarget struct {
	Type TargetType
	ID   int64
}

// PostTarget references a post.
func PostTarget(postID int64) LikeTarget {
	return LikeTarget{Type: TargetPost, ID: postID}
}

// CommentTarget references a comment.
func CommentTarget(commentID int64) LikeTarget {
	return LikeTarget{Type: TargetComment, ID: commentID}
}

// Like records one user liking one post or comment. The
// (user_id, target_type, target_id) unique constraint is the duplicate guard.
type Like struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Target    LikeTarget `json:"-" db:"-"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Mention records a user being @-mentioned in a post or comment.
type Mention struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"` // the mentioned user
	Target    LikeTarget `json:"-" db:"-"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

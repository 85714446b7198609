package domain

import "time"

// Follow links a follower to the user they follow. Self-follows are rejected
// at the service layer; duplicates by the (follower_id, following_id) unique
// constraint.
type Follow struct {
	ID          int64     `json:"id" db:"id"`
	FollowerID  int64     `json:"follower_id" db:"follower_id"`
	FollowingID int64     `json:"following_id" db:"following_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Bookmark marks a post saved by a user.
type Bookmark struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Hashtag is a unique tag name with a denormalized count of posts carrying it.
type Hashtag struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	PostCount int       `json:"post_count" db:"post_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

package repository

import (
	"context"
	"time"

	"github.com/HYG-0822/myauth/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	UpdateLoginStats(ctx context.Context, userID int64, ip string) error
	IncrementFailedLogins(ctx context.Context, userID int64) error
	UpdateStatus(ctx context.Context, userID int64, status domain.Status) error
}

// TokenRepository defines methods for refresh token operations
type TokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	FindValid(ctx context.Context, token string, now time.Time) (*domain.RefreshToken, error)
	Rotate(ctx context.Context, oldToken string, now time.Time, next *domain.RefreshToken) error
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PostRepository defines methods for post operations
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	SoftDelete(ctx context.Context, id int64) error
	IncrementViewCount(ctx context.Context, id int64) error
	ListPublic(ctx context.Context, limit, offset int) ([]*domain.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID int64, visibilities []domain.Visibility, limit, offset int) ([]*domain.Post, int64, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*domain.Post, error)
}

// CommentRepository defines methods for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	Update(ctx context.Context, id int64, content string) error
	SoftDelete(ctx context.Context, id int64, placeholder string) error
	ListRoots(ctx context.Context, postID int64, limit, offset int) ([]*domain.Comment, int64, error)
	ListReplies(ctx context.Context, parentID int64) ([]*domain.Comment, error)
	CountReplies(ctx context.Context, parentIDs []int64) (map[int64]int, error)
}

// LikeRepository defines methods for like operations. The Like/Unlike methods
// adjust the denormalized counter on the target in the same transaction and
// return the resulting count.
type LikeRepository interface {
	LikePost(ctx context.Context, userID, postID int64) (int, error)
	UnlikePost(ctx context.Context, userID, postID int64) (int, error)
	LikeComment(ctx context.Context, userID, commentID int64) (int, error)
	UnlikeComment(ctx context.Context, userID, commentID int64) (int, error)
	Exists(ctx context.Context, userID int64, target domain.LikeTarget) (bool, error)
	LikedTargetIDs(ctx context.Context, userID int64, targetType domain.TargetType, targetIDs []int64) (map[int64]bool, error)
	UsersWhoLiked(ctx context.Context, target domain.LikeTarget, limit, offset int) ([]*domain.User, int64, error)
}

// FollowRepository defines methods for follow operations
type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID int64) error
	Delete(ctx context.Context, followerID, followingID int64) error
	Exists(ctx context.Context, followerID, followingID int64) (bool, error)
	ListFollowers(ctx context.Context, userID int64, limit, offset int) ([]*domain.User, int64, error)
	ListFollowing(ctx context.Context, userID int64, limit, offset int) ([]*domain.User, int64, error)
}

// BookmarkRepository defines methods for bookmark operations
type BookmarkRepository interface {
	Create(ctx context.Context, userID, postID int64) error
	Delete(ctx context.Context, userID, postID int64) error
	Exists(ctx context.Context, userID, postID int64) (bool, error)
	ListPostIDs(ctx context.Context, userID int64, limit, offset int) ([]int64, int64, error)
}

// HashtagRepository defines methods for hashtag operations
type HashtagRepository interface {
	ReplaceForPost(ctx context.Context, postID int64, names []string) error
	ClearForPost(ctx context.Context, postID int64) error
	NamesForPost(ctx context.Context, postID int64) ([]string, error)
	NamesForPosts(ctx context.Context, postIDs []int64) (map[int64][]string, error)
	GetByName(ctx context.Context, name string) (*domain.Hashtag, error)
	PostIDsByName(ctx context.Context, name string, viewerID int64, limit, offset int) ([]int64, int64, error)
}

// MentionRepository defines methods for mention operations
type MentionRepository interface {
	ReplaceForTarget(ctx context.Context, target domain.LikeTarget, userIDs []int64) error
	ClearForTarget(ctx context.Context, target domain.LikeTarget) error
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Mention, int64, error)
}

package service

import (
	"context"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/internal/dto"
)

// AuthTokens is a freshly issued token pair plus the authenticated user.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// AuthService defines methods for authentication operations
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*domain.User, error)
	Login(ctx context.Context, req *dto.LoginRequest, clientIP string) (*AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	// Identity resolves an access token to a request identity. Token codec
	// sentinels pass through; a valid token whose user is missing or
	// deactivated resolves to (nil, nil), meaning anonymous.
	Identity(ctx context.Context, accessToken string) (*domain.AuthenticatedIdentity, error)
	// PruneSessions deletes expired refresh token rows.
	PruneSessions(ctx context.Context) (int64, error)
}

// UserService defines methods for user profile operations
type UserService interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
	ListMentions(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page, error)
	UpdateStatus(ctx context.Context, userID int64, status domain.Status) error
}

// PostService defines methods for post operations
type PostService interface {
	Create(ctx context.Context, author *domain.User, req *dto.PostCreateRequest) (*dto.PostResponse, error)
	Get(ctx context.Context, viewer *domain.User, postID int64) (*dto.PostResponse, error)
	Update(ctx context.Context, actor *domain.User, postID int64, req *dto.PostUpdateRequest) (*dto.PostResponse, error)
	Delete(ctx context.Context, actor *domain.User, postID int64) error
	ListFeed(ctx context.Context, viewer *domain.User, q dto.PageQuery) (*dto.Page, error)
	ListByAuthor(ctx context.Context, viewer *domain.User, authorID int64, q dto.PageQuery) (*dto.Page, error)
	ListByHashtag(ctx context.Context, viewer *domain.User, tag string, q dto.PageQuery) (*dto.Page, error)
}

// CommentService defines methods for comment operations
type CommentService interface {
	Create(ctx context.Context, author *domain.User, postID int64, req *dto.CommentCreateRequest) (*dto.CommentResponse, error)
	Update(ctx context.Context, actor *domain.User, commentID int64, req *dto.CommentUpdateRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor *domain.User, commentID int64) error
	ListRoots(ctx context.Context, viewer *domain.User, postID int64, q dto.PageQuery) (*dto.Page, error)
	ListReplies(ctx context.Context, viewer *domain.User, commentID int64) ([]*dto.CommentResponse, error)
}

// LikeService defines methods for like operations
type LikeService interface {
	LikePost(ctx context.Context, actor *domain.User, postID int64) (*dto.LikeResponse, error)
	UnlikePost(ctx context.Context, actor *domain.User, postID int64) (*dto.LikeResponse, error)
	LikeComment(ctx context.Context, actor *domain.User, commentID int64) (*dto.LikeResponse, error)
	UnlikeComment(ctx context.Context, actor *domain.User, commentID int64) (*dto.LikeResponse, error)
	ListPostLikers(ctx context.Context, viewer *domain.User, postID int64, q dto.PageQuery) (*dto.Page, error)
}

// FollowService defines methods for follow operations
type FollowService interface {
	Follow(ctx context.Context, followerID, followingID int64) error
	Unfollow(ctx context.Context, followerID, followingID int64) error
	ListFollowers(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page, error)
	ListFollowing(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page, error)
}

// BookmarkService defines methods for bookmark operations
type BookmarkService interface {
	Bookmark(ctx context.Context, userID, postID int64) error
	Unbookmark(ctx context.Context, userID, postID int64) error
	List(ctx context.Context, viewer *domain.User, q dto.PageQuery) (*dto.Page, error)
}

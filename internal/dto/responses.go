package dto

import (
	"time"

	"github.com/HYG-0822/myauth/internal/domain"
)

// Response is the generic success/failure envelope for API responses.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK builds a success envelope.
func OK(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail builds a failure envelope. No internal detail belongs in message.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

// AuthErrorResponse is the fixed body for the identity resolver's two 401
// short-circuits. ErrorCode is machine-readable: TOKEN_EXPIRED means "call
// refresh", TOKEN_INVALID means "re-authenticate".
type AuthErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

// ErrorResponse is the body used by the authorization layer (401/403) and for
// unexpected handler failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UserInfo is the user summary embedded in auth responses.
type UserInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// UserInfoFrom maps a user to its summary.
func UserInfoFrom(u *domain.User) UserInfo {
	return UserInfo{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
}

// LoginResponse is the flat login result: envelope fields plus tokens and a
// user summary on success, envelope fields only on failure.
type LoginResponse struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	AccessToken  string    `json:"accessToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	User         *UserInfo `json:"user,omitempty"`
}

// TokenRefreshResponse carries the rotated token pair, returned inside the
// generic envelope's data field.
type TokenRefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserResponse is the full profile returned by /users/me.
type UserResponse struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	LastLoginAt *string `json:"last_login_at"`
}

// UserResponseFrom maps a user to its profile response.
func UserResponseFrom(u *domain.User) *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
	if u.LastLoginAt != nil {
		last := u.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &last
	}
	return resp
}

// AuthorResponse is the compact author block on posts and comments.
type AuthorResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PostResponse is the API shape of a post.
type PostResponse struct {
	ID           int64          `json:"id"`
	Author       AuthorResponse `json:"author"`
	Content      string         `json:"content"`
	Visibility   string         `json:"visibility"`
	LikeCount    int            `json:"likeCount"`
	CommentCount int            `json:"commentCount"`
	ViewCount    int            `json:"viewCount"`
	Liked        bool           `json:"liked"`
	Hashtags     []string       `json:"hashtags"`
	CreatedAt    string         `json:"createdAt"`
	UpdatedAt    string         `json:"updatedAt"`
}

// PostResponseFrom maps a post to its API shape.
func PostResponseFrom(p *domain.Post, liked bool, hashtags []string) *PostResponse {
	if hashtags == nil {
		hashtags = []string{}
	}
	return &PostResponse{
		ID:           p.ID,
		Author:       AuthorResponse{ID: p.UserID, Name: p.AuthorName},
		Content:      p.Content,
		Visibility:   string(p.Visibility),
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		ViewCount:    p.ViewCount,
		Liked:        liked,
		Hashtags:     hashtags,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}

// CommentResponse is the API shape of a comment. Deleted comments keep their
// place in the thread with Deleted set and placeholder content.
type CommentResponse struct {
	ID         int64          `json:"id"`
	PostID     int64          `json:"postId"`
	ParentID   *int64         `json:"parentId,omitempty"`
	Author     AuthorResponse `json:"author"`
	Content    string         `json:"content"`
	LikeCount  int            `json:"likeCount"`
	ReplyCount int            `json:"replyCount"`
	Liked      bool           `json:"liked"`
	Deleted    bool           `json:"deleted"`
	CreatedAt  string         `json:"createdAt"`
	UpdatedAt  string         `json:"updatedAt"`
}

// CommentResponseFrom maps a comment to its API shape.
func CommentResponseFrom(c *domain.Comment, liked bool, replyCount int) *CommentResponse {
	return &CommentResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		ParentID:   c.ParentID,
		Author:     AuthorResponse{ID: c.UserID, Name: c.AuthorName},
		Content:    c.Content,
		LikeCount:  c.LikeCount,
		ReplyCount: replyCount,
		Liked:      liked,
		Deleted:    c.IsDeleted,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339),
	}
}

// LikeResponse reports the state of a like toggle.
type LikeResponse struct {
	TargetType string `json:"targetType"`
	TargetID   int64  `json:"targetId"`
	Liked      bool   `json:"liked"`
	LikeCount  int    `json:"likeCount"`
}

// MentionResponse is one entry in a user's mention feed.
type MentionResponse struct {
	TargetType string `json:"targetType"`
	TargetID   int64  `json:"targetId"`
	CreatedAt  string `json:"createdAt"`
}

// UserSummary is the compact user shape used in follower and liker listings.
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserSummaryFrom maps a user to its compact shape.
func UserSummaryFrom(u *domain.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name}
}

// Page is the standard paginated listing shape.
type Page struct {
	Content       interface{} `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
}

// NewPage builds a Page from a content slice and the total row count.
func NewPage(content interface{}, q PageQuery, total int64) *Page {
	pages := int(total) / q.Size
	if int(total)%q.Size != 0 {
		pages++
	}
	return &Page{
		Content:       content,
		Page:          q.Page,
		Size:          q.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

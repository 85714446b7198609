package dto

// SignupRequest represents a registration request.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,max=255"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token being exchanged.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UserStatusUpdateRequest sets an account's status.
type UserStatusUpdateRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE SUSPENDED DELETED PENDING_VERIFICATION"`
}

// PostCreateRequest represents a post creation request. Visibility defaults
// to PUBLIC when omitted.
type PostCreateRequest struct {
	Content    string `json:"content" binding:"required"`
	Visibility string `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE FOLLOWERS"`
}

// PostUpdateRequest represents a post update request.
type PostUpdateRequest struct {
	Content    string `json:"content" binding:"required"`
	Visibility string `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE FOLLOWERS"`
}

// CommentCreateRequest represents a comment or reply creation request.
// ParentID set means the comment is a reply to a root comment.
type CommentCreateRequest struct {
	Content  string `json:"content" binding:"required,max=1000"`
	ParentID *int64 `json:"parentId" binding:"omitempty,min=1"`
}

// CommentUpdateRequest represents a comment update request.
type CommentUpdateRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// PageQuery is the common pagination query, zero-based page index.
type PageQuery struct {
	Page int `form:"page,default=0" binding:"omitempty,min=0"`
	Size int `form:"size,default=20" binding:"omitempty,min=1,max=100"`
}

// Offset returns the row offset for the query.
func (p PageQuery) Offset() int {
	return p.Page * p.Size
}

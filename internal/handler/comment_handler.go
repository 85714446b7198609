package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/service"
)

// CommentHandler handles comment requests
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// Create adds a comment or reply to a post
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), CurrentUser(c), pathID(c, "id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK("comment created", comment))
}

// Update rewrites a comment
func (h *CommentHandler) Update(c *gin.Context) {
	var req dto.CommentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), CurrentUser(c), pathID(c, "id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("comment updated", comment))
}

// Delete soft-deletes a comment
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.commentService.Delete(c.Request.Context(), CurrentUser(c), pathID(c, "id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("comment deleted", nil))
}

// List returns a page of a post's root comments
func (h *CommentHandler) List(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.commentService.ListRoots(c.Request.Context(), CurrentUser(c), pathID(c, "id"), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("comments", page))
}

// Replies returns the replies under a root comment
func (h *CommentHandler) Replies(c *gin.Context) {
	replies, err := h.commentService.ListReplies(c.Request.Context(), CurrentUser(c), pathID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("replies", replies))
}

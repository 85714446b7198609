package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/service"
)

// LikeHandler handles like requests
type LikeHandler struct {
	likeService service.LikeService
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(likeService service.LikeService) *LikeHandler {
	return &LikeHandler{
		likeService: likeService,
	}
}

// LikePost likes a post
func (h *LikeHandler) LikePost(c *gin.Context) {
	result, err := h.likeService.LikePost(c.Request.Context(), CurrentUser(c), pathID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK("post liked", result))
}

// UnlikePost removes a like from a post
func (h *LikeHandler) UnlikePost(c *gin.Context) {
	result, err := h.likeService.UnlikePost(c.Request.Context(), CurrentUser(c), pathID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("post unliked", result))
}

// LikeComment likes a comment
func (h *LikeHandler) LikeComment(c *gin.Context) {
	result, err := h.likeService.LikeComment(c.Request.Context(), CurrentUser(c), pathID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK("comment liked", result))
}

// UnlikeComment removes a like from a comment
func (h *LikeHandler) UnlikeComment(c *gin.Context) {
	result, err := h.likeService.UnlikeComment(c.Request.Context(), CurrentUser(c), pathID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("comment unliked", result))
}

// PostLikers returns a page of users who liked a post
func (h *LikeHandler) PostLikers(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.likeService.ListPostLikers(c.Request.Context(), CurrentUser(c), pathID(c, "id"), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("likers", page))
}

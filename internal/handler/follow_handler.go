package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/service"
)

// FollowHandler handles follow requests
type FollowHandler struct {
	followService service.FollowService
}

// NewFollowHandler creates a new follow handler
func NewFollowHandler(followService service.FollowService) *FollowHandler {
	return &FollowHandler{
		followService: followService,
	}
}

// Follow makes the caller follow the target user
func (h *FollowHandler) Follow(c *gin.Context) {
	err := h.followService.Follow(c.Request.Context(), CurrentUser(c).ID, pathID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK("followed", nil))
}

// Unfollow removes the caller's follow of the target user
func (h *FollowHandler) Unfollow(c *gin.Context) {
	err := h.followService.Unfollow(c.Request.Context(), CurrentUser(c).ID, pathID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("unfollowed", nil))
}

// Followers returns a page of the target user's followers
func (h *FollowHandler) Followers(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.followService.ListFollowers(c.Request.Context(), pathID(c, "id"), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("followers", page))
}

// Following returns a page of users the target user follows
func (h *FollowHandler) Following(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.followService.ListFollowing(c.Request.Context(), pathID(c, "id"), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("following", page))
}

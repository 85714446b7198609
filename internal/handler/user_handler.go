package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/service"
)

// UserHandler handles user profile requests
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me returns the caller's own profile, freshly loaded so status changes made
// after token issuance show up
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("profile", dto.UserResponseFrom(user)))
}

// UpdateStatus sets another user's account status. The route is admin-only.
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	var req dto.UserStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	err := h.userService.UpdateStatus(c.Request.Context(), pathID(c, "id"), domain.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("status updated", nil))
}

// Mentions returns the caller's mention feed
func (h *UserHandler) Mentions(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.userService.ListMentions(c.Request.Context(), CurrentUser(c).ID, q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("mentions", page))
}

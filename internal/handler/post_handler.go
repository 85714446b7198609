package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/service"
)

// PostHandler handles post requests
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// Create handles post creation
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	post, err := h.postService.Create(c.Request.Context(), CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK("post created", post))
}

// Get returns one post
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.postService.Get(c.Request.Context(), CurrentUser(c), pathID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("post", post))
}

// Update handles post updates
func (h *PostHandler) Update(c *gin.Context) {
	var req dto.PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	post, err := h.postService.Update(c.Request.Context(), CurrentUser(c), pathID(c, "id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("post updated", post))
}

// Delete handles post deletion
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.postService.Delete(c.Request.Context(), CurrentUser(c), pathID(c, "id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("post deleted", nil))
}

// Feed returns the public feed
func (h *PostHandler) Feed(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.postService.ListFeed(c.Request.Context(), CurrentUser(c), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("feed", page))
}

// ByUser returns a user's posts at the visibility the caller is entitled to
func (h *PostHandler) ByUser(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.postService.ListByAuthor(c.Request.Context(), CurrentUser(c), pathID(c, "id"), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("posts", page))
}

// ByHashtag returns posts carrying a hashtag
func (h *PostHandler) ByHashtag(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.postService.ListByHashtag(c.Request.Context(), CurrentUser(c), c.Param("name"), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("posts", page))
}

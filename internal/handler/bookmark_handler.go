package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/service"
)

// BookmarkHandler handles bookmark requests
type BookmarkHandler struct {
	bookmarkService service.BookmarkService
}

// NewBookmarkHandler creates a new bookmark handler
func NewBookmarkHandler(bookmarkService service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkService: bookmarkService,
	}
}

// Bookmark saves a post for the caller
func (h *BookmarkHandler) Bookmark(c *gin.Context) {
	err := h.bookmarkService.Bookmark(c.Request.Context(), CurrentUser(c).ID, pathID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK("bookmarked", nil))
}

// Unbookmark removes a saved post
func (h *BookmarkHandler) Unbookmark(c *gin.Context) {
	err := h.bookmarkService.Unbookmark(c.Request.Context(), CurrentUser(c).ID, pathID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("bookmark removed", nil))
}

// List returns a page of the caller's bookmarked posts
func (h *BookmarkHandler) List(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.bookmarkService.List(c.Request.Context(), CurrentUser(c), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("bookmarks", page))
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/service"
)

// respondError translates service errors into the response envelope. Unknown
// errors become an opaque 500; their detail stays in the logs.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Fail("resource not found"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.Fail("insufficient permission"))
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.Fail("resource already exists"))
	case errors.Is(err, service.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, dto.Fail("cannot follow yourself"))
	case errors.Is(err, service.ErrReplyDepth):
		c.JSON(http.StatusBadRequest, dto.Fail("replies cannot be nested"))
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, dto.Fail("internal server error"))
	}
}

// bindError reports a request binding failure
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.Fail("invalid request: "+err.Error()))
}

// pathID parses a positive integer path parameter. A malformed value reads as
// 0, which downstream lookups report as not found.
func pathID(c *gin.Context, name string) int64 {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0
	}
	return id
}

// bindPage binds the common pagination query
func bindPage(c *gin.Context) (dto.PageQuery, bool) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return q, false
	}
	return q, true
}

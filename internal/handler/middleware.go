package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/service"
	"github.com/HYG-0822/myauth/internal/utils"
)

const identityKey = "identity"

// IdentityMiddleware resolves the bearer token on every request. A missing
// or non-bearer header means anonymous. An expired or malformed token aborts
// with 401 and a machine-readable errorCode, because the client sent a
// credential and deserves to know it failed. A token that verifies but maps
// to no usable account, and any unexpected resolution failure, fall back to
// anonymous; authorization is left to RequireAuth.
func IdentityMiddleware(authService service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		identity, err := authService.Identity(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.AuthErrorResponse{
					ErrorCode: "TOKEN_EXPIRED",
					Message:   "access token expired",
					Path:      c.Request.URL.Path,
				})
			case errors.Is(err, utils.ErrTokenMalformed):
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.AuthErrorResponse{
					ErrorCode: "TOKEN_INVALID",
					Message:   "invalid access token",
					Path:      c.Request.URL.Path,
				})
			default:
				logger.Error("identity resolution failed",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
				c.Next()
			}
			return
		}

		if identity != nil {
			c.Set(identityKey, identity)
		}

		c.Next()
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentIdentity(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireRole rejects requests whose identity lacks the given authority
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "authentication required",
			})
			return
		}
		if identity.Authority != role {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error:   "Access Denied",
				Message: "insufficient permission",
			})
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the request identity, if any
func CurrentIdentity(c *gin.Context) (*domain.AuthenticatedIdentity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*domain.AuthenticatedIdentity)
	return identity, ok
}

// CurrentUser returns the authenticated user. Call only behind RequireAuth.
func CurrentUser(c *gin.Context) *domain.User {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return nil
	}
	return identity.User
}

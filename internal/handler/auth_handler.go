package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/repository"
	"github.com/HYG-0822/myauth/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup handles user registration. The duplicate-email message is the only
// account-existence signal the API gives out, matching what signup inherently
// reveals.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, dto.Fail("email already registered"))
			return
		}
		if errors.Is(err, repository.ErrDuplicateName) {
			c.JSON(http.StatusBadRequest, dto.Fail("display name already taken"))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK("signup successful", dto.UserInfoFrom(user)))
}

// Login handles user authentication. Every failure is a 400 with a flat
// body; unknown email and wrong password share one message.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.LoginResponse{
			Success: false,
			Message: "invalid request",
		})
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		var gateErr *service.AccountGateError
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, dto.LoginResponse{
				Success: false,
				Message: "email or password incorrect",
			})
		case errors.As(err, &gateErr):
			c.JSON(http.StatusBadRequest, dto.LoginResponse{
				Success: false,
				Message: gateErr.Message(),
			})
		default:
			c.JSON(http.StatusInternalServerError, dto.LoginResponse{
				Success: false,
				Message: "internal server error",
			})
		}
		return
	}

	user := dto.UserInfoFrom(tokens.User)
	c.JSON(http.StatusOK, dto.LoginResponse{
		Success:      true,
		Message:      "login successful",
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         &user,
	})
}

// Refresh exchanges a refresh token for a new pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		var gateErr *service.AccountGateError
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken):
			c.JSON(http.StatusUnauthorized, dto.Fail("invalid refresh token"))
		case errors.As(err, &gateErr):
			c.JSON(http.StatusUnauthorized, dto.Fail(gateErr.Message()))
		default:
			respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, dto.OK("token refreshed", dto.TokenRefreshResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}))
}

// Logout revokes the presented refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("logged out", nil))
}

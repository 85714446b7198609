package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/repository"
	"github.com/HYG-0822/myauth/internal/utils"
)

// authService implements AuthService interface
type authService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	jwtManager *utils.JWTManager
	blacklist  *TokenBlacklistService
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *utils.JWTManager,
	blacklist *TokenBlacklistService,
	bcryptCost int,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtManager: jwtManager,
		blacklist:  blacklist,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Signup registers a new user. Duplicate emails are detected solely through
// the storage unique constraint so concurrent identical signups cannot both
// succeed.
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*domain.User, error) {
	email := utils.NormalizeEmail(req.Email)

	if !utils.ValidateEmail(email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters and contain a letter and a digit", ErrValidation)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user. Unknown email and wrong password produce the
// same error; account gates are only reported after the password matched.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, clientIP string) (*AuthTokens, error) {
	email := utils.NormalizeEmail(req.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		if err := s.userRepo.IncrementFailedLogins(ctx, user.ID); err != nil {
			s.logger.Warn("failed to record failed login", zap.Int64("user_id", user.ID), zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	if reason := user.LoginGate(); reason != domain.GateOK {
		return nil, &AccountGateError{Reason: reason}
	}

	if err := s.userRepo.UpdateLoginStats(ctx, user.ID, clientIP); err != nil {
		s.logger.Warn("failed to update login stats", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a refresh token for a new pair. The stored row is rotated
// with a compare-and-set, so of concurrent refreshes of the same token
// exactly one succeeds; the consumed token's jti is blacklisted for the rest
// of its lifetime.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.jwtManager.Parse(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if claims.TokenType != domain.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	if claims.JTI != "" {
		blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.JTI)
		if err != nil {
			return nil, fmt.Errorf("failed to check token blacklist: %w", err)
		}
		if blacklisted {
			return nil, ErrInvalidRefreshToken
		}
	}

	row, err := s.tokenRepo.FindValid(ctx, refreshToken, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if reason := user.LoginGate(); reason != domain.GateOK {
		// A barred account keeps no live sessions.
		if err := s.tokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
			s.logger.Warn("failed to revoke sessions", zap.Int64("user_id", user.ID), zap.Error(err))
		}
		return nil, &AccountGateError{Reason: reason}
	}

	accessToken, err := s.jwtManager.IssueAccessToken(user.Email, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	newRefreshToken, err := s.jwtManager.IssueRefreshToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	next := &domain.RefreshToken{
		UserID:    user.ID,
		Token:     newRefreshToken,
		ExpiresAt: s.jwtManager.RefreshExpiry(),
	}

	if err := s.tokenRepo.Rotate(ctx, refreshToken, time.Now(), next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	if claims.JTI != "" {
		remaining := time.Until(time.Unix(claims.ExpiresAt, 0))
		if remaining > 0 {
			if err := s.blacklist.AddJTI(ctx, claims.JTI, remaining); err != nil {
				s.logger.Warn("failed to blacklist rotated token", zap.Error(err))
			}
		}
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		User:         user,
	}, nil
}

// Logout revokes the refresh token's stored row and blacklists its jti.
// Logging out with an already-dead token still succeeds.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtManager.Parse(refreshToken)
	if err == nil && claims.JTI != "" {
		remaining := time.Until(time.Unix(claims.ExpiresAt, 0))
		if remaining > 0 {
			if err := s.blacklist.AddJTI(ctx, claims.JTI, remaining); err != nil {
				s.logger.Warn("failed to blacklist token on logout", zap.Error(err))
			}
		}
	}

	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

// Identity resolves a bearer token into a request identity. Codec failures
// surface as the codec's sentinels; a token that verifies but maps to no
// usable account resolves to anonymous. Only the active flag bars
// resolution here: status gates apply at login, not to tokens already
// issued.
func (s *authService) Identity(ctx context.Context, accessToken string) (*domain.AuthenticatedIdentity, error) {
	claims, err := s.jwtManager.Parse(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != domain.TokenTypeAccess {
		return nil, utils.ErrTokenMalformed
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user for token: %w", err)
	}

	if !user.IsActive {
		return nil, nil
	}

	return &domain.AuthenticatedIdentity{
		User:      user,
		Authority: user.Role,
	}, nil
}

// PruneSessions deletes refresh token rows whose expiry has passed and
// returns how many were removed.
func (s *authService) PruneSessions(ctx context.Context) (int64, error) {
	return s.tokenRepo.DeleteExpired(ctx, time.Now())
}

func (s *authService) issueTokens(ctx context.Context, user *domain.User) (*AuthTokens, error) {
	accessToken, err := s.jwtManager.IssueAccessToken(user.Email, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.jwtManager.IssueRefreshToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	row := &domain.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: s.jwtManager.RefreshExpiry(),
	}
	if err := s.tokenRepo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

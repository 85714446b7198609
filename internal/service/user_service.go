package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/repository"
)

// userService implements UserService interface
type userService struct {
	userRepo    repository.UserRepository
	tokenRepo   repository.TokenRepository
	mentionRepo repository.MentionRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	mentionRepo repository.MentionRepository,
) UserService {
	return &userService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		mentionRepo: mentionRepo,
	}
}

// Get returns a user's profile
func (s *userService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

// UpdateStatus sets a user's account status. Any status other than ACTIVE
// also revokes the user's refresh tokens, so the bar outlives the access
// token's lifetime.
func (s *userService) UpdateStatus(ctx context.Context, userID int64, status domain.Status) error {
	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if status != domain.StatusActive {
		if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to revoke user sessions: %w", err)
		}
	}

	return nil
}

// ListMentions returns a page of posts and comments the user was @-mentioned
// in, newest first
func (s *userService) ListMentions(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page, error) {
	mentions, total, err := s.mentionRepo.ListForUser(ctx, userID, q.Size, q.Offset())
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MentionResponse, len(mentions))
	for i, m := range mentions {
		responses[i] = dto.MentionResponse{
			TargetType: string(m.Target.Type),
			TargetID:   m.Target.ID,
			CreatedAt:  m.CreatedAt.Format(time.RFC3339),
		}
	}

	return dto.NewPage(responses, q, total), nil
}

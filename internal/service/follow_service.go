package service

import (
	"context"
	"errors"

	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/repository"
)

// followService implements FollowService interface
type followService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService creates a new follow service
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) FollowService {
	return &followService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow makes followerID follow followingID. Following yourself or following
// someone twice both fail.
func (s *followService) Follow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return ErrSelfFollow
	}

	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.followRepo.Create(ctx, followerID, followingID); err != nil {
		if errors.Is(err, repository.ErrDuplicateFollow) {
			return ErrAlreadyExists
		}
		return err
	}

	return nil
}

// Unfollow removes the relation; unfollowing someone not followed fails with
// ErrNotFound
func (s *followService) Unfollow(ctx context.Context, followerID, followingID int64) error {
	if err := s.followRepo.Delete(ctx, followerID, followingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

// ListFollowers returns a page of the user's followers
func (s *followService) ListFollowers(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	users, total, err := s.followRepo.ListFollowers(ctx, userID, q.Size, q.Offset())
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.UserSummary, len(users))
	for i, user := range users {
		summaries[i] = dto.UserSummaryFrom(user)
	}

	return dto.NewPage(summaries, q, total), nil
}

// ListFollowing returns a page of the users this user follows
func (s *followService) ListFollowing(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	users, total, err := s.followRepo.ListFollowing(ctx, userID, q.Size, q.Offset())
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.UserSummary, len(users))
	for i, user := range users {
		summaries[i] = dto.UserSummaryFrom(user)
	}

	return dto.NewPage(summaries, q, total), nil
}

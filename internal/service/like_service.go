package service

import (
	"context"
	"errors"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/repository"
)

// likeService implements LikeService interface
type likeService struct {
	likeRepo    repository.LikeRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository
}

// NewLikeService creates a new like service
func NewLikeService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	followRepo repository.FollowRepository,
) LikeService {
	return &likeService{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
	}
}

// LikePost likes a post the actor can see. Liking twice fails with
// ErrAlreadyExists and changes nothing.
func (s *likeService) LikePost(ctx context.Context, actor *domain.User, postID int64) (*dto.LikeResponse, error) {
	if err := s.checkPost(ctx, actor, postID); err != nil {
		return nil, err
	}

	count, err := s.likeRepo.LikePost(ctx, actor.ID, postID)
	if err != nil {
		return nil, mapLikeErr(err)
	}

	return likeResponse(domain.PostTarget(postID), true, count), nil
}

// UnlikePost removes the actor's like from a post. Unliking without a prior
// like fails with ErrNotFound.
func (s *likeService) UnlikePost(ctx context.Context, actor *domain.User, postID int64) (*dto.LikeResponse, error) {
	if err := s.checkPost(ctx, actor, postID); err != nil {
		return nil, err
	}

	count, err := s.likeRepo.UnlikePost(ctx, actor.ID, postID)
	if err != nil {
		return nil, mapLikeErr(err)
	}

	return likeResponse(domain.PostTarget(postID), false, count), nil
}

// LikeComment likes a comment on a post the actor can see
func (s *likeService) LikeComment(ctx context.Context, actor *domain.User, commentID int64) (*dto.LikeResponse, error) {
	if err := s.checkComment(ctx, actor, commentID); err != nil {
		return nil, err
	}

	count, err := s.likeRepo.LikeComment(ctx, actor.ID, commentID)
	if err != nil {
		return nil, mapLikeErr(err)
	}

	return likeResponse(domain.CommentTarget(commentID), true, count), nil
}

// UnlikeComment removes the actor's like from a comment
func (s *likeService) UnlikeComment(ctx context.Context, actor *domain.User, commentID int64) (*dto.LikeResponse, error) {
	if err := s.checkComment(ctx, actor, commentID); err != nil {
		return nil, err
	}

	count, err := s.likeRepo.UnlikeComment(ctx, actor.ID, commentID)
	if err != nil {
		return nil, mapLikeErr(err)
	}

	return likeResponse(domain.CommentTarget(commentID), false, count), nil
}

// ListPostLikers returns a page of users who liked a post the viewer can see
func (s *likeService) ListPostLikers(ctx context.Context, viewer *domain.User, postID int64, q dto.PageQuery) (*dto.Page, error) {
	if err := s.checkPost(ctx, viewer, postID); err != nil {
		return nil, err
	}

	users, total, err := s.likeRepo.UsersWhoLiked(ctx, domain.PostTarget(postID), q.Size, q.Offset())
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.UserSummary, len(users))
	for i, user := range users {
		summaries[i] = dto.UserSummaryFrom(user)
	}

	return dto.NewPage(summaries, q, total), nil
}

func (s *likeService) checkPost(ctx context.Context, viewer *domain.User, postID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	ok, err := canViewPost(ctx, s.followRepo, viewer, post)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	return nil
}

func (s *likeService) checkComment(ctx context.Context, viewer *domain.User, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if comment.IsDeleted {
		return ErrNotFound
	}

	return s.checkPost(ctx, viewer, comment.PostID)
}

func likeResponse(target domain.LikeTarget, liked bool, count int) *dto.LikeResponse {
	return &dto.LikeResponse{
		TargetType: string(target.Type),
		TargetID:   target.ID,
		Liked:      liked,
		LikeCount:  count,
	}
}

func mapLikeErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateLike):
		return ErrAlreadyExists
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}

package service

import (
	"context"
	"errors"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/repository"
)

// bookmarkService implements BookmarkService interface
type bookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	postRepo     repository.PostRepository
	followRepo   repository.FollowRepository
	likeRepo     repository.LikeRepository
	hashtagRepo  repository.HashtagRepository
}

// NewBookmarkService creates a new bookmark service
func NewBookmarkService(
	bookmarkRepo repository.BookmarkRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
	hashtagRepo repository.HashtagRepository,
) BookmarkService {
	return &bookmarkService{
		bookmarkRepo: bookmarkRepo,
		postRepo:     postRepo,
		followRepo:   followRepo,
		likeRepo:     likeRepo,
		hashtagRepo:  hashtagRepo,
	}
}

// Bookmark saves a post; bookmarking twice fails with ErrAlreadyExists
func (s *bookmarkService) Bookmark(ctx context.Context, userID, postID int64) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.bookmarkRepo.Create(ctx, userID, postID); err != nil {
		if errors.Is(err, repository.ErrDuplicateBookmark) {
			return ErrAlreadyExists
		}
		return err
	}

	return nil
}

// Unbookmark removes a saved post; removing a missing bookmark fails with
// ErrNotFound
func (s *bookmarkService) Unbookmark(ctx context.Context, userID, postID int64) error {
	if err := s.bookmarkRepo.Delete(ctx, userID, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

// List returns a page of the viewer's bookmarked posts. Bookmarks pointing at
// posts that have since been deleted or hidden from the viewer are dropped
// from the page content.
func (s *bookmarkService) List(ctx context.Context, viewer *domain.User, q dto.PageQuery) (*dto.Page, error) {
	ids, total, err := s.bookmarkRepo.ListPostIDs(ctx, viewer.ID, q.Size, q.Offset())
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	visible := make([]*domain.Post, 0, len(posts))
	visibleIDs := make([]int64, 0, len(posts))
	for _, post := range posts {
		ok, err := canViewPost(ctx, s.followRepo, viewer, post)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, post)
			visibleIDs = append(visibleIDs, post.ID)
		}
	}

	liked, err := s.likeRepo.LikedTargetIDs(ctx, viewer.ID, domain.TargetPost, visibleIDs)
	if err != nil {
		return nil, err
	}

	hashtags, err := s.hashtagRepo.NamesForPosts(ctx, visibleIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.PostResponse, len(visible))
	for i, post := range visible {
		responses[i] = dto.PostResponseFrom(post, liked[post.ID], hashtags[post.ID])
	}

	return dto.NewPage(responses, q, total), nil
}

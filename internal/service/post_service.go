package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/repository"
	"github.com/HYG-0822/myauth/internal/utils"
)

// postService implements PostService interface
type postService struct {
	postRepo    repository.PostRepository
	hashtagRepo repository.HashtagRepository
	mentionRepo repository.MentionRepository
	likeRepo    repository.LikeRepository
	followRepo  repository.FollowRepository
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(
	postRepo repository.PostRepository,
	hashtagRepo repository.HashtagRepository,
	mentionRepo repository.MentionRepository,
	likeRepo repository.LikeRepository,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) PostService {
	return &postService{
		postRepo:    postRepo,
		hashtagRepo: hashtagRepo,
		mentionRepo: mentionRepo,
		likeRepo:    likeRepo,
		followRepo:  followRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create stores a new post and indexes the hashtags and mentions found in
// its content
func (s *postService) Create(ctx context.Context, author *domain.User, req *dto.PostCreateRequest) (*dto.PostResponse, error) {
	visibility := domain.Visibility(req.Visibility)
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}

	post := &domain.Post{
		UserID:     author.ID,
		AuthorName: author.Name,
		Content:    req.Content,
		Visibility: visibility,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	hashtags := utils.ExtractHashtags(post.Content)
	if err := s.hashtagRepo.ReplaceForPost(ctx, post.ID, hashtags); err != nil {
		return nil, fmt.Errorf("failed to index hashtags: %w", err)
	}

	if err := s.syncMentions(ctx, domain.PostTarget(post.ID), post.Content); err != nil {
		return nil, err
	}

	return dto.PostResponseFrom(post, false, hashtags), nil
}

// Get returns a post visible to the viewer and counts the view. Posts the
// viewer may not see report not found, never forbidden.
func (s *postService) Get(ctx context.Context, viewer *domain.User, postID int64) (*dto.PostResponse, error) {
	post, err := s.getVisible(ctx, viewer, postID)
	if err != nil {
		return nil, err
	}

	if viewer.ID != post.UserID {
		if err := s.postRepo.IncrementViewCount(ctx, post.ID); err != nil {
			s.logger.Warn("failed to count view", zap.Int64("post_id", post.ID), zap.Error(err))
		} else {
			post.ViewCount++
		}
	}

	liked, err := s.likeRepo.Exists(ctx, viewer.ID, domain.PostTarget(post.ID))
	if err != nil {
		return nil, err
	}

	hashtags, err := s.hashtagRepo.NamesForPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return dto.PostResponseFrom(post, liked, hashtags), nil
}

// Update rewrites a post's content and visibility and reindexes its hashtags
// and mentions. Only the author or an admin may update.
func (s *postService) Update(ctx context.Context, actor *domain.User, postID int64, req *dto.PostUpdateRequest) (*dto.PostResponse, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !canModerate(actor, post.UserID) {
		return nil, ErrForbidden
	}

	post.Content = req.Content
	if req.Visibility != "" {
		post.Visibility = domain.Visibility(req.Visibility)
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	hashtags := utils.ExtractHashtags(post.Content)
	if err := s.hashtagRepo.ReplaceForPost(ctx, post.ID, hashtags); err != nil {
		return nil, fmt.Errorf("failed to reindex hashtags: %w", err)
	}

	if err := s.syncMentions(ctx, domain.PostTarget(post.ID), post.Content); err != nil {
		return nil, err
	}

	liked, err := s.likeRepo.Exists(ctx, actor.ID, domain.PostTarget(post.ID))
	if err != nil {
		return nil, err
	}

	return dto.PostResponseFrom(post, liked, hashtags), nil
}

// Delete soft-deletes a post and drops its hashtag and mention index entries.
// Only the author or an admin may delete.
func (s *postService) Delete(ctx context.Context, actor *domain.User, postID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !canModerate(actor, post.UserID) {
		return ErrForbidden
	}

	if err := s.postRepo.SoftDelete(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.hashtagRepo.ClearForPost(ctx, postID); err != nil {
		return fmt.Errorf("failed to clear hashtags: %w", err)
	}
	if err := s.mentionRepo.ClearForTarget(ctx, domain.PostTarget(postID)); err != nil {
		return fmt.Errorf("failed to clear mentions: %w", err)
	}

	return nil
}

// ListFeed returns the public feed, newest first
func (s *postService) ListFeed(ctx context.Context, viewer *domain.User, q dto.PageQuery) (*dto.Page, error) {
	posts, total, err := s.postRepo.ListPublic(ctx, q.Size, q.Offset())
	if err != nil {
		return nil, err
	}

	responses, err := s.toResponses(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}

	return dto.NewPage(responses, q, total), nil
}

// ListByAuthor returns an author's posts at the visibility levels the viewer
// is entitled to: everything for the author themselves, public plus
// followers-only for a follower, public otherwise
func (s *postService) ListByAuthor(ctx context.Context, viewer *domain.User, authorID int64, q dto.PageQuery) (*dto.Page, error) {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	visibilities := []domain.Visibility{domain.VisibilityPublic}
	switch {
	case viewer.ID == authorID:
		visibilities = []domain.Visibility{
			domain.VisibilityPublic,
			domain.VisibilityFollowers,
			domain.VisibilityPrivate,
		}
	default:
		follows, err := s.followRepo.Exists(ctx, viewer.ID, authorID)
		if err != nil {
			return nil, err
		}
		if follows {
			visibilities = append(visibilities, domain.VisibilityFollowers)
		}
	}

	posts, total, err := s.postRepo.ListByAuthor(ctx, authorID, visibilities, q.Size, q.Offset())
	if err != nil {
		return nil, err
	}

	responses, err := s.toResponses(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}

	return dto.NewPage(responses, q, total), nil
}

// ListByHashtag returns posts carrying the tag. The repository applies the
// viewer's visibility, so the total and the page contents agree.
func (s *postService) ListByHashtag(ctx context.Context, viewer *domain.User, tag string, q dto.PageQuery) (*dto.Page, error) {
	ids, total, err := s.hashtagRepo.PostIDsByName(ctx, tag, viewer.ID, q.Size, q.Offset())
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses, err := s.toResponses(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}

	return dto.NewPage(responses, q, total), nil
}

func (s *postService) getVisible(ctx context.Context, viewer *domain.User, postID int64) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ok, err := s.canView(ctx, viewer, post)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return post, nil
}

func (s *postService) canView(ctx context.Context, viewer *domain.User, post *domain.Post) (bool, error) {
	return canViewPost(ctx, s.followRepo, viewer, post)
}

func canViewPost(ctx context.Context, followRepo repository.FollowRepository, viewer *domain.User, post *domain.Post) (bool, error) {
	switch post.Visibility {
	case domain.VisibilityPublic:
		return true, nil
	case domain.VisibilityPrivate:
		return viewer.ID == post.UserID, nil
	case domain.VisibilityFollowers:
		if viewer.ID == post.UserID {
			return true, nil
		}
		return followRepo.Exists(ctx, viewer.ID, post.UserID)
	default:
		return false, nil
	}
}

func (s *postService) toResponses(ctx context.Context, viewer *domain.User, posts []*domain.Post) ([]*dto.PostResponse, error) {
	ids := make([]int64, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}

	liked, err := s.likeRepo.LikedTargetIDs(ctx, viewer.ID, domain.TargetPost, ids)
	if err != nil {
		return nil, err
	}

	hashtags, err := s.hashtagRepo.NamesForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.PostResponse, len(posts))
	for i, post := range posts {
		responses[i] = dto.PostResponseFrom(post, liked[post.ID], hashtags[post.ID])
	}

	return responses, nil
}

// syncMentions resolves @name tokens against display names and rewrites the
// target's mention rows. Names that match no user are skipped.
func (s *postService) syncMentions(ctx context.Context, target domain.LikeTarget, content string) error {
	names := utils.ExtractMentions(content)

	userIDs := make([]int64, 0, len(names))
	for _, name := range names {
		user, err := s.userRepo.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failed to resolve mention: %w", err)
		}
		userIDs = append(userIDs, user.ID)
	}

	if err := s.mentionRepo.ReplaceForTarget(ctx, target, userIDs); err != nil {
		return fmt.Errorf("failed to index mentions: %w", err)
	}

	return nil
}

func canModerate(actor *domain.User, ownerID int64) bool {
	return actor.ID == ownerID || actor.Role == domain.RoleAdmin
}

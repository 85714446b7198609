package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/internal/dto"
	"github.com/HYG-0822/myauth/internal/repository"
	"github.com/HYG-0822/myauth/internal/utils"
)

// DeletedCommentPlaceholder replaces the content of soft-deleted comments so
// their replies keep a visible anchor.
const DeletedCommentPlaceholder = "This comment has been deleted."

// commentService implements CommentService interface
type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	followRepo  repository.FollowRepository
	likeRepo    repository.LikeRepository
	mentionRepo repository.MentionRepository
	userRepo    repository.UserRepository
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
	mentionRepo repository.MentionRepository,
	userRepo repository.UserRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		followRepo:  followRepo,
		likeRepo:    likeRepo,
		mentionRepo: mentionRepo,
		userRepo:    userRepo,
	}
}

// Create adds a comment or a reply to a post the author can see. Threads are
// two levels deep: replying to a reply is rejected, and a reply's parent must
// belong to the same post.
func (s *commentService) Create(ctx context.Context, author *domain.User, postID int64, req *dto.CommentCreateRequest) (*dto.CommentResponse, error) {
	post, err := s.visiblePost(ctx, author, postID)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if parent.PostID != post.ID {
			return nil, ErrNotFound
		}
		if !parent.IsRoot() {
			return nil, ErrReplyDepth
		}
	}

	comment := &domain.Comment{
		PostID:     post.ID,
		UserID:     author.ID,
		AuthorName: author.Name,
		ParentID:   req.ParentID,
		Content:    req.Content,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.syncMentions(ctx, comment); err != nil {
		return nil, err
	}

	return dto.CommentResponseFrom(comment, false, 0), nil
}

// Update rewrites a live comment's content. Only the author or an admin may
// update; deleted comments cannot be edited.
func (s *commentService) Update(ctx context.Context, actor *domain.User, commentID int64, req *dto.CommentUpdateRequest) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if comment.IsDeleted {
		return nil, ErrNotFound
	}
	if !canModerate(actor, comment.UserID) {
		return nil, ErrForbidden
	}

	if err := s.commentRepo.Update(ctx, commentID, req.Content); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	comment.Content = req.Content

	if err := s.syncMentions(ctx, comment); err != nil {
		return nil, err
	}

	liked, err := s.likeRepo.Exists(ctx, actor.ID, domain.CommentTarget(comment.ID))
	if err != nil {
		return nil, err
	}

	replies := 0
	if comment.IsRoot() {
		counts, err := s.commentRepo.CountReplies(ctx, []int64{comment.ID})
		if err != nil {
			return nil, err
		}
		replies = counts[comment.ID]
	}

	return dto.CommentResponseFrom(comment, liked, replies), nil
}

// Delete soft-deletes a comment, leaving the placeholder in the thread and
// dropping the comment's mention rows
func (s *commentService) Delete(ctx context.Context, actor *domain.User, commentID int64) error {
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
	if !canModerate(actor, comment.UserID) {
		return ErrForbidden
	}

	if err := s.commentRepo.SoftDelete(ctx, commentID, DeletedCommentPlaceholder); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.mentionRepo.ClearForTarget(ctx, domain.CommentTarget(commentID)); err != nil {
		return fmt.Errorf("failed to clear mentions: %w", err)
	}

	return nil
}

// ListRoots returns a page of a post's top-level comments with reply counts
// and the viewer's liked flags
func (s *commentService) ListRoots(ctx context.Context, viewer *domain.User, postID int64, q dto.PageQuery) (*dto.Page, error) {
	if _, err := s.visiblePost(ctx, viewer, postID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.ListRoots(ctx, postID, q.Size, q.Offset())
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}

	replyCounts, err := s.commentRepo.CountReplies(ctx, ids)
	if err != nil {
		return nil, err
	}

	liked, err := s.likeRepo.LikedTargetIDs(ctx, viewer.ID, domain.TargetComment, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CommentResponse, len(comments))
	for i, c := range comments {
		responses[i] = dto.CommentResponseFrom(c, liked[c.ID], replyCounts[c.ID])
	}

	return dto.NewPage(responses, q, total), nil
}

// ListReplies returns all replies under a root comment
func (s *commentService) ListReplies(ctx context.Context, viewer *domain.User, commentID int64) ([]*dto.CommentResponse, error) {
	parent, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !parent.IsRoot() {
		return nil, ErrNotFound
	}

	if _, err := s.visiblePost(ctx, viewer, parent.PostID); err != nil {
		return nil, err
	}

	replies, err := s.commentRepo.ListReplies(ctx, commentID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(replies))
	for i, c := range replies {
		ids[i] = c.ID
	}

	liked, err := s.likeRepo.LikedTargetIDs(ctx, viewer.ID, domain.TargetComment, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CommentResponse, len(replies))
	for i, c := range replies {
		responses[i] = dto.CommentResponseFrom(c, liked[c.ID], 0)
	}

	return responses, nil
}

func (s *commentService) visiblePost(ctx context.Context, viewer *domain.User, postID int64) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ok, err := canViewPost(ctx, s.followRepo, viewer, post)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return post, nil
}

func (s *commentService) syncMentions(ctx context.Context, comment *domain.Comment) error {
	names := utils.ExtractMentions(comment.Content)

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

	if err := s.mentionRepo.ReplaceForTarget(ctx, domain.CommentTarget(comment.ID), userIDs); err != nil {
		return fmt.Errorf("failed to index mentions: %w", err)
	}

	return nil
}

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/internal/repository"
)

// In-memory repository fakes for service tests. They enforce the same
// not-found and duplicate semantics as the SQL implementations.

type fakePostRepo struct {
	posts  map[int64]*domain.Post
	nextID int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*domain.Post)}
}

func (r *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	r.nextID++
	post.ID = r.nextID
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	post, ok := r.posts[id]
	if !ok || post.IsDeleted {
		return nil, repository.ErrNotFound
	}
	clone := *post
	return &clone, nil
}

func (r *fakePostRepo) Update(_ context.Context, post *domain.Post) error {
	stored, ok := r.posts[post.ID]
	if !ok || stored.IsDeleted {
		return repository.ErrNotFound
	}
	stored.Content = post.Content
	stored.Visibility = post.Visibility
	stored.UpdatedAt = time.Now()
	post.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *fakePostRepo) SoftDelete(_ context.Context, id int64) error {
	post, ok := r.posts[id]
	if !ok || post.IsDeleted {
		return repository.ErrNotFound
	}
	post.IsDeleted = true
	return nil
}

func (r *fakePostRepo) IncrementViewCount(_ context.Context, id int64) error {
	post, ok := r.posts[id]
	if !ok {
		return repository.ErrNotFound
	}
	post.ViewCount++
	return nil
}

func (r *fakePostRepo) ListPublic(_ context.Context, limit, offset int) ([]*domain.Post, int64, error) {
	var all []*domain.Post
	for _, post := range r.posts {
		if !post.IsDeleted && post.Visibility == domain.VisibilityPublic {
			all = append(all, post)
		}
	}
	return pagePosts(all, limit, offset)
}

func (r *fakePostRepo) ListByAuthor(_ context.Context, authorID int64, visibilities []domain.Visibility, limit, offset int) ([]*domain.Post, int64, error) {
	allowed := make(map[domain.Visibility]bool, len(visibilities))
	for _, v := range visibilities {
		allowed[v] = true
	}

	var all []*domain.Post
	for _, post := range r.posts {
		if !post.IsDeleted && post.UserID == authorID && allowed[post.Visibility] {
			all = append(all, post)
		}
	}
	return pagePosts(all, limit, offset)
}

func (r *fakePostRepo) ListByIDs(_ context.Context, ids []int64) ([]*domain.Post, error) {
	out := make([]*domain.Post, 0, len(ids))
	for _, id := range ids {
		if post, ok := r.posts[id]; ok && !post.IsDeleted {
			clone := *post
			out = append(out, &clone)
		}
	}
	return out, nil
}

func pagePosts(all []*domain.Post, limit, offset int) ([]*domain.Post, int64, error) {
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]*domain.Post, 0, end-offset)
	for _, post := range all[offset:end] {
		clone := *post
		out = append(out, &clone)
	}
	return out, total, nil
}

type fakeCommentRepo struct {
	comments map[int64]*domain.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*domain.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *comment
	return &clone, nil
}

func (r *fakeCommentRepo) Update(_ context.Context, id int64, content string) error {
	comment, ok := r.comments[id]
	if !ok || comment.IsDeleted {
		return repository.ErrNotFound
	}
	comment.Content = content
	comment.UpdatedAt = time.Now()
	return nil
}

func (r *fakeCommentRepo) SoftDelete(_ context.Context, id int64, placeholder string) error {
	comment, ok := r.comments[id]
	if !ok || comment.IsDeleted {
		return repository.ErrNotFound
	}
	comment.IsDeleted = true
	comment.Content = placeholder
	return nil
}

func (r *fakeCommentRepo) ListRoots(_ context.Context, postID int64, limit, offset int) ([]*domain.Comment, int64, error) {
	var all []*domain.Comment
	for _, c := range r.comments {
		if c.PostID == postID && c.IsRoot() {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]*domain.Comment, 0, end-offset)
	for _, c := range all[offset:end] {
		clone := *c
		out = append(out, &clone)
	}
	return out, total, nil
}

func (r *fakeCommentRepo) ListReplies(_ context.Context, parentID int64) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCommentRepo) CountReplies(_ context.Context, parentIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(parentIDs))
	for _, id := range parentIDs {
		for _, c := range r.comments {
			if c.ParentID != nil && *c.ParentID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

type fakeLikeRepo struct {
	likes  map[string]bool
	counts map[domain.LikeTarget]int
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{
		likes:  make(map[string]bool),
		counts: make(map[domain.LikeTarget]int),
	}
}

func likeKey(userID int64, target domain.LikeTarget) string {
	return fmt.Sprintf("%d/%s/%d", userID, target.Type, target.ID)
}

func (r *fakeLikeRepo) like(userID int64, target domain.LikeTarget) (int, error) {
	key := likeKey(userID, target)
	if r.likes[key] {
		return 0, repository.ErrDuplicateLike
	}
	r.likes[key] = true
	r.counts[target]++
	return r.counts[target], nil
}

func (r *fakeLikeRepo) unlike(userID int64, target domain.LikeTarget) (int, error) {
	key := likeKey(userID, target)
	if !r.likes[key] {
		return 0, repository.ErrNotFound
	}
	delete(r.likes, key)
	r.counts[target]--
	return r.counts[target], nil
}

func (r *fakeLikeRepo) LikePost(_ context.Context, userID, postID int64) (int, error) {
	return r.like(userID, domain.PostTarget(postID))
}

func (r *fakeLikeRepo) UnlikePost(_ context.Context, userID, postID int64) (int, error) {
	return r.unlike(userID, domain.PostTarget(postID))
}

func (r *fakeLikeRepo) LikeComment(_ context.Context, userID, commentID int64) (int, error) {
	return r.like(userID, domain.CommentTarget(commentID))
}

func (r *fakeLikeRepo) UnlikeComment(_ context.Context, userID, commentID int64) (int, error) {
	return r.unlike(userID, domain.CommentTarget(commentID))
}

func (r *fakeLikeRepo) Exists(_ context.Context, userID int64, target domain.LikeTarget) (bool, error) {
	return r.likes[likeKey(userID, target)], nil
}

func (r *fakeLikeRepo) LikedTargetIDs(_ context.Context, userID int64, targetType domain.TargetType, targetIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool)
	for _, id := range targetIDs {
		if r.likes[likeKey(userID, domain.LikeTarget{Type: targetType, ID: id})] {
			out[id] = true
		}
	}
	return out, nil
}

func (r *fakeLikeRepo) UsersWhoLiked(_ context.Context, _ domain.LikeTarget, _, _ int) ([]*domain.User, int64, error) {
	return nil, 0, nil
}

type fakeFollowRepo struct {
	pairs map[[2]int64]bool
	users *fakeUserRepo
}

func newFakeFollowRepo(users *fakeUserRepo) *fakeFollowRepo {
	return &fakeFollowRepo{pairs: make(map[[2]int64]bool), users: users}
}

func (r *fakeFollowRepo) Create(_ context.Context, followerID, followingID int64) error {
	key := [2]int64{followerID, followingID}
	if r.pairs[key] {
		return repository.ErrDuplicateFollow
	}
	r.pairs[key] = true
	return nil
}

func (r *fakeFollowRepo) Delete(_ context.Context, followerID, followingID int64) error {
	key := [2]int64{followerID, followingID}
	if !r.pairs[key] {
		return repository.ErrNotFound
	}
	delete(r.pairs, key)
	return nil
}

func (r *fakeFollowRepo) Exists(_ context.Context, followerID, followingID int64) (bool, error) {
	return r.pairs[[2]int64{followerID, followingID}], nil
}

func (r *fakeFollowRepo) ListFollowers(ctx context.Context, userID int64, limit, offset int) ([]*domain.User, int64, error) {
	return r.listRelated(ctx, userID, limit, offset, false)
}

func (r *fakeFollowRepo) ListFollowing(ctx context.Context, userID int64, limit, offset int) ([]*domain.User, int64, error) {
	return r.listRelated(ctx, userID, limit, offset, true)
}

func (r *fakeFollowRepo) listRelated(ctx context.Context, userID int64, limit, offset int, following bool) ([]*domain.User, int64, error) {
	var ids []int64
	for pair := range r.pairs {
		if following && pair[0] == userID {
			ids = append(ids, pair[1])
		}
		if !following && pair[1] == userID {
			ids = append(ids, pair[0])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	if offset >= len(ids) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}

	out := make([]*domain.User, 0, end-offset)
	for _, id := range ids[offset:end] {
		user, err := r.users.GetByID(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, user)
	}
	return out, total, nil
}

type fakeBookmarkRepo struct {
	pairs map[[2]int64]bool
	order [][2]int64
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{pairs: make(map[[2]int64]bool)}
}

func (r *fakeBookmarkRepo) Create(_ context.Context, userID, postID int64) error {
	key := [2]int64{userID, postID}
	if r.pairs[key] {
		return repository.ErrDuplicateBookmark
	}
	r.pairs[key] = true
	r.order = append(r.order, key)
	return nil
}

func (r *fakeBookmarkRepo) Delete(_ context.Context, userID, postID int64) error {
	key := [2]int64{userID, postID}
	if !r.pairs[key] {
		return repository.ErrNotFound
	}
	delete(r.pairs, key)
	return nil
}

func (r *fakeBookmarkRepo) Exists(_ context.Context, userID, postID int64) (bool, error) {
	return r.pairs[[2]int64{userID, postID}], nil
}

func (r *fakeBookmarkRepo) ListPostIDs(_ context.Context, userID int64, limit, offset int) ([]int64, int64, error) {
	var ids []int64
	// newest first
	for i := len(r.order) - 1; i >= 0; i-- {
		key := r.order[i]
		if key[0] == userID && r.pairs[key] {
			ids = append(ids, key[1])
		}
	}
	total := int64(len(ids))
	if offset >= len(ids) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end], total, nil
}

type fakeHashtagRepo struct {
	byPost  map[int64][]string
	posts   *fakePostRepo
	follows *fakeFollowRepo
}

func newFakeHashtagRepo(posts *fakePostRepo, follows *fakeFollowRepo) *fakeHashtagRepo {
	return &fakeHashtagRepo{
		byPost:  make(map[int64][]string),
		posts:   posts,
		follows: follows,
	}
}

func (r *fakeHashtagRepo) ReplaceForPost(_ context.Context, postID int64, names []string) error {
	if len(names) == 0 {
		delete(r.byPost, postID)
		return nil
	}
	r.byPost[postID] = append([]string(nil), names...)
	return nil
}

func (r *fakeHashtagRepo) ClearForPost(_ context.Context, postID int64) error {
	delete(r.byPost, postID)
	return nil
}

func (r *fakeHashtagRepo) NamesForPost(_ context.Context, postID int64) ([]string, error) {
	return append([]string(nil), r.byPost[postID]...), nil
}

func (r *fakeHashtagRepo) NamesForPosts(_ context.Context, postIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string)
	for _, id := range postIDs {
		if names, ok := r.byPost[id]; ok {
			out[id] = append([]string(nil), names...)
		}
	}
	return out, nil
}

func (r *fakeHashtagRepo) GetByName(_ context.Context, name string) (*domain.Hashtag, error) {
	tag := &domain.Hashtag{Name: name}
	for _, names := range r.byPost {
		for _, n := range names {
			if n == name {
				tag.PostCount++
			}
		}
	}
	if tag.PostCount == 0 {
		return nil, repository.ErrNotFound
	}
	return tag, nil
}

func (r *fakeHashtagRepo) PostIDsByName(_ context.Context, name string, viewerID int64, limit, offset int) ([]int64, int64, error) {
	var ids []int64
	for postID, names := range r.byPost {
		tagged := false
		for _, n := range names {
			if n == name {
				tagged = true
				break
			}
		}
		if !tagged {
			continue
		}
		post, ok := r.posts.posts[postID]
		if !ok || post.IsDeleted || !r.visibleTo(viewerID, post) {
			continue
		}
		ids = append(ids, postID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	total := int64(len(ids))
	if offset >= len(ids) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end], total, nil
}

func (r *fakeHashtagRepo) visibleTo(viewerID int64, post *domain.Post) bool {
	switch post.Visibility {
	case domain.VisibilityPublic:
		return true
	case domain.VisibilityPrivate:
		return post.UserID == viewerID
	case domain.VisibilityFollowers:
		return post.UserID == viewerID || r.follows.pairs[[2]int64{viewerID, post.UserID}]
	default:
		return false
	}
}

type fakeMentionRepo struct {
	byTarget map[domain.LikeTarget][]int64
}

func newFakeMentionRepo() *fakeMentionRepo {
	return &fakeMentionRepo{byTarget: make(map[domain.LikeTarget][]int64)}
}

func (r *fakeMentionRepo) ReplaceForTarget(_ context.Context, target domain.LikeTarget, userIDs []int64) error {
	if len(userIDs) == 0 {
		delete(r.byTarget, target)
		return nil
	}
	r.byTarget[target] = append([]int64(nil), userIDs...)
	return nil
}

func (r *fakeMentionRepo) ClearForTarget(_ context.Context, target domain.LikeTarget) error {
	delete(r.byTarget, target)
	return nil
}

func (r *fakeMentionRepo) ListForUser(_ context.Context, userID int64, limit, offset int) ([]*domain.Mention, int64, error) {
	var all []*domain.Mention
	for target, ids := range r.byTarget {
		for _, id := range ids {
			if id == userID {
				all = append(all, &domain.Mention{UserID: userID, Target: target, CreatedAt: time.Now()})
			}
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Target.ID > all[j].Target.ID })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

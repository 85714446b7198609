package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/pkg/database"
)

// postRepository implements PostRepository interface
type postRepository struct {
	db *database.Postgres
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *database.Postgres) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `p.id, p.user_id, u.name, p.content, p.visibility,
	p.like_count, p.comment_count, p.view_count, p.is_deleted,
	p.created_at, p.updated_at`

// Create inserts a new post
func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (user_id, content, visibility)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.DB.QueryRowContext(ctx, query,
		post.UserID,
		post.Content,
		post.Visibility,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post with its author name joined on. Soft-deleted posts
// behave as if they never existed.
func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1 AND p.is_deleted = FALSE
	`

	post, err := scanPost(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// Update rewrites content and visibility
func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	query := `
		UPDATE posts
		SET content = $2, visibility = $3, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING updated_at
	`

	err := r.db.DB.QueryRowContext(ctx, query,
		post.ID,
		post.Content,
		post.Visibility,
	).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("post %d not found: %w", post.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

// SoftDelete flags a post deleted without removing the row
func (r *postRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE posts
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("post %d not found: %w", id, ErrNotFound)
	}

	return nil
}

// IncrementViewCount bumps the view counter. Lost updates under concurrency
// are acceptable for views, so this is a plain atomic increment.
func (r *postRepository) IncrementViewCount(ctx context.Context, id int64) error {
	query := `UPDATE posts SET view_count = view_count + 1 WHERE id = $1 AND is_deleted = FALSE`

	if _, err := r.db.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}

	return nil
}

// ListPublic returns public posts, newest first, with the total count
func (r *postRepository) ListPublic(ctx context.Context, limit, offset int) ([]*domain.Post, int64, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM posts
		WHERE visibility = $1 AND is_deleted = FALSE
	`

	var total int64
	if err := r.db.DB.QueryRowContext(ctx, countQuery, domain.VisibilityPublic).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count public posts: %w", err)
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.visibility = $1 AND p.is_deleted = FALSE
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.DB.QueryContext(ctx, query, domain.VisibilityPublic, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list public posts: %w", err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ListByAuthor returns an author's posts restricted to the given visibility
// levels, newest first
func (r *postRepository) ListByAuthor(ctx context.Context, authorID int64, visibilities []domain.Visibility, limit, offset int) ([]*domain.Post, int64, error) {
	vis := make([]string, len(visibilities))
	for i, v := range visibilities {
		vis[i] = string(v)
	}

	countQuery := `
		SELECT COUNT(*)
		FROM posts
		WHERE user_id = $1 AND visibility = ANY($2) AND is_deleted = FALSE
	`

	var total int64
	if err := r.db.DB.QueryRowContext(ctx, countQuery, authorID, pq.Array(vis)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts by author: %w", err)
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1 AND p.visibility = ANY($2) AND p.is_deleted = FALSE
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.DB.QueryContext(ctx, query, authorID, pq.Array(vis), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts by author: %w", err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ListByIDs returns the live posts among the given IDs, newest first
func (r *postRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Post, error) {
	if len(ids) == 0 {
		return []*domain.Post{}, nil
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = ANY($1) AND p.is_deleted = FALSE
		ORDER BY p.created_at DESC, p.id DESC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by ids: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

func scanPost(row *sql.Row) (*domain.Post, error) {
	post := &domain.Post{}
	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.AuthorName,
		&post.Content,
		&post.Visibility,
		&post.LikeCount,
		&post.CommentCount,
		&post.ViewCount,
		&post.IsDeleted,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func collectPosts(rows *sql.Rows) ([]*domain.Post, error) {
	posts := []*domain.Post{}
	for rows.Next() {
		post := &domain.Post{}
		err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.AuthorName,
			&post.Content,
			&post.Visibility,
			&post.LikeCount,
			&post.CommentCount,
			&post.ViewCount,
			&post.IsDeleted,
			&post.CreatedAt,
			&post.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

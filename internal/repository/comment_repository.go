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

// commentRepository implements CommentRepository interface
type commentRepository struct {
	db *database.Postgres
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *database.Postgres) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `c.id, c.post_id, c.user_id, u.name, c.parent_id,
	c.content, c.like_count, c.is_deleted, c.created_at, c.updated_at`

// Create inserts a comment and bumps the post's comment counter in the same
// transaction
func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin comment create: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO comments (post_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRowContext(ctx, insert,
		comment.PostID,
		comment.UserID,
		comment.ParentID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	bump := `UPDATE posts SET comment_count = comment_count + 1 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, bump, comment.PostID); err != nil {
		return fmt.Errorf("failed to increment comment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit comment create: %w", err)
	}

	return nil
}

// GetByID retrieves a comment with its author name joined on. Unlike posts,
// soft-deleted comments stay retrievable so threads keep their shape.
func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`

	comment, err := scanComment(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

// Update rewrites the content of a live comment
func (r *commentRepository) Update(ctx context.Context, id int64, content string) error {
	query := `
		UPDATE comments
		SET content = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`

	result, err := r.db.DB.ExecContext(ctx, query, id, content)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("comment %d not found: %w", id, ErrNotFound)
	}

	return nil
}

// SoftDelete flags a comment deleted, swaps its content for the placeholder
// and decrements the post's comment counter, all in one transaction
func (r *commentRepository) SoftDelete(ctx context.Context, id int64, placeholder string) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin comment delete: %w", err)
	}
	defer tx.Rollback()

	del := `
		UPDATE comments
		SET is_deleted = TRUE, content = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING post_id
	`

	var postID int64
	if err := tx.QueryRowContext(ctx, del, id, placeholder).Scan(&postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("comment %d not found: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	drop := `
		UPDATE posts
		SET comment_count = GREATEST(comment_count - 1, 0)
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, drop, postID); err != nil {
		return fmt.Errorf("failed to decrement comment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit comment delete: %w", err)
	}

	return nil
}

// ListRoots returns a post's top-level comments, oldest first, with the total
// root count
func (r *commentRepository) ListRoots(ctx context.Context, postID int64, limit, offset int) ([]*domain.Comment, int64, error) {
	countQuery := `SELECT COUNT(*) FROM comments WHERE post_id = $1 AND parent_id IS NULL`

	var total int64
	if err := r.db.DB.QueryRowContext(ctx, countQuery, postID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1 AND c.parent_id IS NULL
		ORDER BY c.created_at ASC, c.id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.DB.QueryContext(ctx, query, postID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments, err := collectComments(rows)
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// ListReplies returns all replies under a root comment, oldest first
func (r *commentRepository) ListReplies(ctx context.Context, parentID int64) ([]*domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.parent_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

// CountReplies returns reply counts for a batch of root comments
func (r *commentRepository) CountReplies(ctx context.Context, parentIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT parent_id, COUNT(*)
		FROM comments
		WHERE parent_id = ANY($1)
		GROUP BY parent_id
	`

	rows, err := r.db.DB.QueryContext(ctx, query, pq.Array(parentIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to count replies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var parentID int64
		var count int
		if err := rows.Scan(&parentID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan reply count: %w", err)
		}
		counts[parentID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reply counts: %w", err)
	}

	return counts, nil
}

func scanComment(row *sql.Row) (*domain.Comment, error) {
	comment := &domain.Comment{}
	var parentID sql.NullInt64

	err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.UserID,
		&comment.AuthorName,
		&parentID,
		&comment.Content,
		&comment.LikeCount,
		&comment.IsDeleted,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		comment.ParentID = &parentID.Int64
	}

	return comment, nil
}

func collectComments(rows *sql.Rows) ([]*domain.Comment, error) {
	comments := []*domain.Comment{}
	for rows.Next() {
		comment := &domain.Comment{}
		var parentID sql.NullInt64
		err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.UserID,
			&comment.AuthorName,
			&parentID,
			&comment.Content,
			&comment.LikeCount,
			&comment.IsDeleted,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if parentID.Valid {
			comment.ParentID = &parentID.Int64
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}

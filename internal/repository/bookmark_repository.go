package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/HYG-0822/myauth/pkg/database"
)

// bookmarkRepository implements BookmarkRepository interface
type bookmarkRepository struct {
	db *database.Postgres
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *database.Postgres) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Create bookmarks a post for a user
func (r *bookmarkRepository) Create(ctx context.Context, userID, postID int64) error {
	query := `INSERT INTO bookmarks (user_id, post_id) VALUES ($1, $2)`

	if _, err := r.db.DB.ExecContext(ctx, query, userID, postID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return fmt.Errorf("post %d already bookmarked: %w", postID, ErrDuplicateBookmark)
		}
		return fmt.Errorf("failed to create bookmark: %w", err)
	}

	return nil
}

// Delete removes a bookmark
func (r *bookmarkRepository) Delete(ctx context.Context, userID, postID int64) error {
	query := `DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`

	result, err := r.db.DB.ExecContext(ctx, query, userID, postID)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bookmark not found: %w", ErrNotFound)
	}

	return nil
}

// Exists reports whether the user has bookmarked the post
func (r *bookmarkRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookmarks WHERE user_id = $1 AND post_id = $2
		)
	`

	var exists bool
	if err := r.db.DB.QueryRowContext(ctx, query, userID, postID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}

	return exists, nil
}

// ListPostIDs returns the user's bookmarked post IDs, most recent bookmark
// first, with the total bookmark count
func (r *bookmarkRepository) ListPostIDs(ctx context.Context, userID int64, limit, offset int) ([]int64, int64, error) {
	countQuery := `SELECT COUNT(*) FROM bookmarks WHERE user_id = $1`

	var total int64
	if err := r.db.DB.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}

	query := `
		SELECT post_id FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate bookmarks: %w", err)
	}

	return ids, total, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/pkg/database"
)

// followRepository implements FollowRepository interface
type followRepository struct {
	db *database.Postgres
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *database.Postgres) FollowRepository {
	return &followRepository{db: db}
}

// Create records a follow relation
func (r *followRepository) Create(ctx context.Context, followerID, followingID int64) error {
	query := `INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)`

	if _, err := r.db.DB.ExecContext(ctx, query, followerID, followingID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return fmt.Errorf("already following user %d: %w", followingID, ErrDuplicateFollow)
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}

	return nil
}

// Delete removes a follow relation
func (r *followRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`

	result, err := r.db.DB.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("follow relation not found: %w", ErrNotFound)
	}

	return nil
}

// Exists reports whether followerID follows followingID
func (r *followRepository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2
		)
	`

	var exists bool
	if err := r.db.DB.QueryRowContext(ctx, query, followerID, followingID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}

	return exists, nil
}

// ListFollowers returns the users following userID, most recent first
func (r *followRepository) ListFollowers(ctx context.Context, userID int64, limit, offset int) ([]*domain.User, int64, error) {
	return r.listRelated(ctx, userID, "follower_id", "following_id", limit, offset)
}

// ListFollowing returns the users userID follows, most recent first
func (r *followRepository) ListFollowing(ctx context.Context, userID int64, limit, offset int) ([]*domain.User, int64, error) {
	return r.listRelated(ctx, userID, "following_id", "follower_id", limit, offset)
}

func (r *followRepository) listRelated(ctx context.Context, userID int64, selectCol, whereCol string, limit, offset int) ([]*domain.User, int64, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM follows WHERE %s = $1`, whereCol)

	var total int64
	if err := r.db.DB.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count follows: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT u.id, u.email, u.name, u.role, u.status, u.is_active, u.created_at
		FROM follows f
		JOIN users u ON u.id = f.%s
		WHERE f.%s = $1
		ORDER BY f.created_at DESC, f.id DESC
		LIMIT $2 OFFSET $3
	`, selectCol, whereCol)

	rows, err := r.db.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list follows: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user := &domain.User{}
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&user.Role,
			&user.Status,
			&user.IsActive,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan follow user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate follows: %w", err)
	}

	return users, total, nil
}

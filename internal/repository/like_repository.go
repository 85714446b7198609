package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/pkg/database"
)

// likeRepository implements LikeRepository interface
type likeRepository struct {
	db *database.Postgres
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *database.Postgres) LikeRepository {
	return &likeRepository{db: db}
}

// LikePost records a like on a post and bumps its counter in one transaction,
// returning the new count. A duplicate like returns ErrDuplicateLike and
// leaves the counter untouched.
func (r *likeRepository) LikePost(ctx context.Context, userID, postID int64) (int, error) {
	return r.like(ctx, userID, domain.PostTarget(postID), "posts")
}

// UnlikePost removes a like from a post, returning the new count. Removing a
// like that does not exist returns ErrNotFound.
func (r *likeRepository) UnlikePost(ctx context.Context, userID, postID int64) (int, error) {
	return r.unlike(ctx, userID, domain.PostTarget(postID), "posts")
}

// LikeComment records a like on a comment, returning the new count
func (r *likeRepository) LikeComment(ctx context.Context, userID, commentID int64) (int, error) {
	return r.like(ctx, userID, domain.CommentTarget(commentID), "comments")
}

// UnlikeComment removes a like from a comment, returning the new count
func (r *likeRepository) UnlikeComment(ctx context.Context, userID, commentID int64) (int, error) {
	return r.unlike(ctx, userID, domain.CommentTarget(commentID), "comments")
}

func (r *likeRepository) like(ctx context.Context, userID int64, target domain.LikeTarget, table string) (int, error) {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin like: %w", err)
	}
	defer tx.Rollback()

	insert := `INSERT INTO likes (user_id, target_type, target_id) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, insert, userID, target.Type, target.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return 0, fmt.Errorf("target already liked: %w", ErrDuplicateLike)
		}
		return 0, fmt.Errorf("failed to insert like: %w", err)
	}

	bump := fmt.Sprintf(`UPDATE %s SET like_count = like_count + 1 WHERE id = $1 RETURNING like_count`, table)
	var count int
	if err := tx.QueryRowContext(ctx, bump, target.ID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to increment like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit like: %w", err)
	}

	return count, nil
}

func (r *likeRepository) unlike(ctx context.Context, userID int64, target domain.LikeTarget, table string) (int, error) {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin unlike: %w", err)
	}
	defer tx.Rollback()

	del := `DELETE FROM likes WHERE user_id = $1 AND target_type = $2 AND target_id = $3`
	result, err := tx.ExecContext(ctx, del, userID, target.Type, target.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return 0, fmt.Errorf("like not found: %w", ErrNotFound)
	}

	drop := fmt.Sprintf(`UPDATE %s SET like_count = GREATEST(like_count - 1, 0) WHERE id = $1 RETURNING like_count`, table)
	var count int
	if err := tx.QueryRowContext(ctx, drop, target.ID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to decrement like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit unlike: %w", err)
	}

	return count, nil
}

// Exists reports whether the user has liked the target
func (r *likeRepository) Exists(ctx context.Context, userID int64, target domain.LikeTarget) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM likes
			WHERE user_id = $1 AND target_type = $2 AND target_id = $3
		)
	`

	var exists bool
	if err := r.db.DB.QueryRowContext(ctx, query, userID, target.Type, target.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}

	return exists, nil
}

// LikedTargetIDs returns which of the given targets the user has liked.
// Targets not in the result are unliked.
func (r *likeRepository) LikedTargetIDs(ctx context.Context, userID int64, targetType domain.TargetType, targetIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return liked, nil
	}

	query := `
		SELECT target_id FROM likes
		WHERE user_id = $1 AND target_type = $2 AND target_id = ANY($3)
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID, targetType, pq.Array(targetIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list liked targets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan liked target: %w", err)
		}
		liked[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate liked targets: %w", err)
	}

	return liked, nil
}

// UsersWhoLiked returns the users who liked the target, most recent like
// first, with the total like count
func (r *likeRepository) UsersWhoLiked(ctx context.Context, target domain.LikeTarget, limit, offset int) ([]*domain.User, int64, error) {
	countQuery := `SELECT COUNT(*) FROM likes WHERE target_type = $1 AND target_id = $2`

	var total int64
	if err := r.db.DB.QueryRowContext(ctx, countQuery, target.Type, target.ID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count likes: %w", err)
	}

	query := `
		SELECT u.id, u.email, u.name, u.role, u.status, u.is_active, u.created_at
		FROM likes l
		JOIN users u ON u.id = l.user_id
		WHERE l.target_type = $1 AND l.target_id = $2
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.DB.QueryContext(ctx, query, target.Type, target.ID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list likers: %w", err)
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
			return nil, 0, fmt.Errorf("failed to scan liker: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate likers: %w", err)
	}

	return users, total, nil
}

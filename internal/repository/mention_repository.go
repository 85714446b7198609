package repository

import (
	"context"
	"fmt"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/pkg/database"
)

// mentionRepository implements MentionRepository interface
type mentionRepository struct {
	db *database.Postgres
}

// NewMentionRepository creates a new mention repository
func NewMentionRepository(db *database.Postgres) MentionRepository {
	return &mentionRepository{db: db}
}

// ReplaceForTarget rewrites the mention set of a post or comment in one
// transaction. The unique key absorbs the same user being mentioned twice in
// the same text.
func (r *mentionRepository) ReplaceForTarget(ctx context.Context, target domain.LikeTarget, userIDs []int64) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin mention replace: %w", err)
	}
	defer tx.Rollback()

	del := `DELETE FROM mentions WHERE target_type = $1 AND target_id = $2`
	if _, err := tx.ExecContext(ctx, del, target.Type, target.ID); err != nil {
		return fmt.Errorf("failed to clear mentions: %w", err)
	}

	insert := `
		INSERT INTO mentions (user_id, target_type, target_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx, insert, userID, target.Type, target.ID); err != nil {
			return fmt.Errorf("failed to insert mention: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mention replace: %w", err)
	}

	return nil
}

// ClearForTarget removes all mentions attached to a post or comment
func (r *mentionRepository) ClearForTarget(ctx context.Context, target domain.LikeTarget) error {
	query := `DELETE FROM mentions WHERE target_type = $1 AND target_id = $2`

	if _, err := r.db.DB.ExecContext(ctx, query, target.Type, target.ID); err != nil {
		return fmt.Errorf("failed to clear mentions: %w", err)
	}

	return nil
}

// ListForUser returns the mentions of a user, newest first, with the total
func (r *mentionRepository) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Mention, int64, error) {
	countQuery := `SELECT COUNT(*) FROM mentions WHERE user_id = $1`

	var total int64
	if err := r.db.DB.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count mentions: %w", err)
	}

	query := `
		SELECT id, user_id, target_type, target_id, created_at
		FROM mentions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list mentions: %w", err)
	}
	defer rows.Close()

	mentions := []*domain.Mention{}
	for rows.Next() {
		m := &domain.Mention{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.Target.Type, &m.Target.ID, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan mention: %w", err)
		}
		mentions = append(mentions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate mentions: %w", err)
	}

	return mentions, total, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/pkg/database"
)

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db *database.Postgres
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *database.Postgres) TokenRepository {
	return &tokenRepository{db: db}
}

// Create stores a refresh token row
func (r *tokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.DB.QueryRowContext(ctx, query,
		token.UserID,
		token.Token,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return fmt.Errorf("refresh token already stored: %w", ErrDuplicateToken)
		}
		return fmt.Errorf("failed to create refresh token: %w", err)
	}

	return nil
}

// FindValid looks up a token that is not revoked and not expired as of now.
// Revoked, expired and unknown tokens are indistinguishable to the caller.
func (r *tokenRepository) FindValid(ctx context.Context, token string, now time.Time) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, revoked, last_used_at, created_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked = FALSE AND expires_at > $2
	`

	rt, err := scanRefreshToken(r.db.DB.QueryRowContext(ctx, query, token, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("refresh token not found or no longer valid: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	return rt, nil
}

// Rotate consumes the old token and stores its replacement in one
// transaction. The conditional UPDATE is the concurrency guard: of N
// simultaneous rotations of the same token exactly one sees RowsAffected == 1,
// the rest get ErrNotFound.
func (r *tokenRepository) Rotate(ctx context.Context, oldToken string, now time.Time, next *domain.RefreshToken) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback()

	consume := `
		UPDATE refresh_tokens
		SET revoked = TRUE, last_used_at = $2
		WHERE token = $1 AND revoked = FALSE AND expires_at > $2
	`

	result, err := tx.ExecContext(ctx, consume, oldToken, now)
	if err != nil {
		return fmt.Errorf("failed to consume refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("refresh token not found or no longer valid: %w", ErrNotFound)
	}

	insert := `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, insert,
		next.UserID,
		next.Token,
		next.ExpiresAt,
	).Scan(&next.ID, &next.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return fmt.Errorf("replacement token already stored: %w", ErrDuplicateToken)
		}
		return fmt.Errorf("failed to store replacement token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}

	return nil
}

// Revoke marks a token revoked. Revoking an already-revoked or unknown token
// is a no-op, which keeps logout idempotent.
func (r *tokenRepository) Revoke(ctx context.Context, token string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, last_used_at = $2
		WHERE token = $1 AND revoked = FALSE
	`

	if _, err := r.db.DB.ExecContext(ctx, query, token, time.Now()); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

// RevokeAllForUser revokes every live token belonging to a user
func (r *tokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, last_used_at = $2
		WHERE user_id = $1 AND revoked = FALSE
	`

	if _, err := r.db.DB.ExecContext(ctx, query, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}

	return nil
}

// DeleteExpired removes rows whose expiry has passed and returns how many
// were cleaned up
func (r *tokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at <= $1`

	result, err := r.db.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

func scanRefreshToken(row *sql.Row) (*domain.RefreshToken, error) {
	rt := &domain.RefreshToken{}
	var lastUsedAt sql.NullTime

	err := row.Scan(
		&rt.ID,
		&rt.UserID,
		&rt.Token,
		&rt.ExpiresAt,
		&rt.Revoked,
		&lastUsedAt,
		&rt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastUsedAt.Valid {
		rt.LastUsedAt = &lastUsedAt.Time
	}

	return rt, nil
}

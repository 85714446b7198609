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

// hashtagRepository implements HashtagRepository interface
type hashtagRepository struct {
	db *database.Postgres
}

// NewHashtagRepository creates a new hashtag repository
func NewHashtagRepository(db *database.Postgres) HashtagRepository {
	return &hashtagRepository{db: db}
}

// ReplaceForPost rewrites a post's hashtag set in one transaction: detaches
// the old tags, upserts the new names and attaches them. post_count on each
// hashtag tracks the number of attached posts.
func (r *hashtagRepository) ReplaceForPost(ctx context.Context, postID int64, names []string) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin hashtag replace: %w", err)
	}
	defer tx.Rollback()

	if err := detachPostHashtags(ctx, tx, postID); err != nil {
		return err
	}

	for _, name := range names {
		upsert := `
			INSERT INTO hashtags (name, post_count)
			VALUES ($1, 0)
			ON CONFLICT (name) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, upsert, name); err != nil {
			return fmt.Errorf("failed to upsert hashtag %s: %w", name, err)
		}

		attach := `
			INSERT INTO post_hashtags (post_id, hashtag_id)
			SELECT $1, id FROM hashtags WHERE name = $2
			ON CONFLICT DO NOTHING
		`
		result, err := tx.ExecContext(ctx, attach, postID, name)
		if err != nil {
			return fmt.Errorf("failed to attach hashtag %s: %w", name, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows > 0 {
			bump := `UPDATE hashtags SET post_count = post_count + 1 WHERE name = $1`
			if _, err := tx.ExecContext(ctx, bump, name); err != nil {
				return fmt.Errorf("failed to increment hashtag count: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit hashtag replace: %w", err)
	}

	return nil
}

// ClearForPost detaches all hashtags from a post
func (r *hashtagRepository) ClearForPost(ctx context.Context, postID int64) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin hashtag clear: %w", err)
	}
	defer tx.Rollback()

	if err := detachPostHashtags(ctx, tx, postID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit hashtag clear: %w", err)
	}

	return nil
}

func detachPostHashtags(ctx context.Context, tx *sql.Tx, postID int64) error {
	drop := `
		UPDATE hashtags
		SET post_count = GREATEST(post_count - 1, 0)
		WHERE id IN (SELECT hashtag_id FROM post_hashtags WHERE post_id = $1)
	`
	if _, err := tx.ExecContext(ctx, drop, postID); err != nil {
		return fmt.Errorf("failed to decrement hashtag counts: %w", err)
	}

	del := `DELETE FROM post_hashtags WHERE post_id = $1`
	if _, err := tx.ExecContext(ctx, del, postID); err != nil {
		return fmt.Errorf("failed to detach hashtags: %w", err)
	}

	return nil
}

// NamesForPost returns a post's hashtag names
func (r *hashtagRepository) NamesForPost(ctx context.Context, postID int64) ([]string, error) {
	query := `
		SELECT h.name
		FROM post_hashtags ph
		JOIN hashtags h ON h.id = ph.hashtag_id
		WHERE ph.post_id = $1
		ORDER BY h.name
	`

	rows, err := r.db.DB.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hashtags: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan hashtag: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hashtags: %w", err)
	}

	return names, nil
}

// NamesForPosts returns hashtag names for a batch of posts
func (r *hashtagRepository) NamesForPosts(ctx context.Context, postIDs []int64) (map[int64][]string, error) {
	names := make(map[int64][]string, len(postIDs))
	if len(postIDs) == 0 {
		return names, nil
	}

	query := `
		SELECT ph.post_id, h.name
		FROM post_hashtags ph
		JOIN hashtags h ON h.id = ph.hashtag_id
		WHERE ph.post_id = ANY($1)
		ORDER BY h.name
	`

	rows, err := r.db.DB.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list hashtags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var name string
		if err := rows.Scan(&postID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan hashtag: %w", err)
		}
		names[postID] = append(names[postID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hashtags: %w", err)
	}

	return names, nil
}

// GetByName retrieves a hashtag by name
func (r *hashtagRepository) GetByName(ctx context.Context, name string) (*domain.Hashtag, error) {
	query := `SELECT id, name, post_count, created_at FROM hashtags WHERE name = $1`

	tag := &domain.Hashtag{}
	err := r.db.DB.QueryRowContext(ctx, query, name).Scan(
		&tag.ID,
		&tag.Name,
		&tag.PostCount,
		&tag.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("hashtag %s not found: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get hashtag: %w", err)
	}

	return tag, nil
}

// PostIDsByName returns IDs of live posts tagged with the name that the
// viewer may see, newest first, with the total count. Filtering inside the
// query keeps the total and the page boundaries consistent.
func (r *hashtagRepository) PostIDsByName(ctx context.Context, name string, viewerID int64, limit, offset int) ([]int64, int64, error) {
	const visiblePredicate = `
		h.name = $1 AND p.is_deleted = FALSE
		AND (p.visibility = 'PUBLIC'
			OR p.user_id = $2
			OR (p.visibility = 'FOLLOWERS' AND EXISTS (
				SELECT 1 FROM follows f
				WHERE f.follower_id = $2 AND f.following_id = p.user_id)))
	`

	countQuery := `
		SELECT COUNT(*)
		FROM post_hashtags ph
		JOIN hashtags h ON h.id = ph.hashtag_id
		JOIN posts p ON p.id = ph.post_id
		WHERE ` + visiblePredicate

	var total int64
	if err := r.db.DB.QueryRowContext(ctx, countQuery, name, viewerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tagged posts: %w", err)
	}

	query := `
		SELECT p.id
		FROM post_hashtags ph
		JOIN hashtags h ON h.id = ph.hashtag_id
		JOIN posts p ON p.id = ph.post_id
		WHERE ` + visiblePredicate + `
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.DB.QueryContext(ctx, query, name, viewerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tagged posts: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("failed to scan tagged post: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate tagged posts: %w", err)
	}

	return ids, total, nil
}

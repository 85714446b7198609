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

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, name, password_hash, role, status, is_active,
	account_locked_until, failed_login_attempts, last_login_at, last_login_ip,
	created_at, updated_at`

// Create inserts a new user. The database assigns the ID and timestamps.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, role, status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.DB.QueryRowContext(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		// Both email and name carry unique constraints; the violated
		// constraint tells them apart.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			if pqErr.Constraint == "users_name_key" {
				return fmt.Errorf("user with name %s already exists: %w", user.Name, ErrDuplicateName)
			}
			return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByName retrieves a user by display name. Names are unique, which is what
// makes @-mention resolution possible.
func (r *userRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE name = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with name %s not found: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}

	return user, nil
}

// UpdateLoginStats records a successful login: stamps last_login_at and the
// client IP and resets the failed attempt counter.
func (r *userRepository) UpdateLoginStats(ctx context.Context, userID int64, ip string) error {
	query := `
		UPDATE users
		SET last_login_at = $2, last_login_ip = $3, failed_login_attempts = 0, updated_at = $2
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, userID, time.Now(), ip)
	if err != nil {
		return fmt.Errorf("failed to update login stats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d not found: %w", userID, ErrNotFound)
	}

	return nil
}

// IncrementFailedLogins bumps the failed attempt counter after a bad password.
func (r *userRepository) IncrementFailedLogins(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1, updated_at = $2
		WHERE id = $1
	`

	if _, err := r.db.DB.ExecContext(ctx, query, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to increment failed logins: %w", err)
	}

	return nil
}

// UpdateStatus changes a user's account status
func (r *userRepository) UpdateStatus(ctx context.Context, userID int64, status domain.Status) error {
	query := `UPDATE users SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d not found: %w", userID, ErrNotFound)
	}

	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var lockedUntil, lastLoginAt sql.NullTime
	var lastLoginIP sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.IsActive,
		&lockedUntil,
		&user.FailedLoginAttempts,
		&lastLoginAt,
		&lastLoginIP,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lockedUntil.Valid {
		user.AccountLockedUntil = &lockedUntil.Time
	}
	if lastLoginAt.Valid {
		user.LastLoginAt = &lastLoginAt.Time
	}
	if lastLoginIP.Valid {
		user.LastLoginIP = &lastLoginIP.String
	}

	return user, nil
}

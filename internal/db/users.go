package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// User Methods
// -----------------------------------------------------------------------------

// CreateUser inserts a new user and returns its ID.
func (db *DB) CreateUser(ctx context.Context, email, fullName, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (email, full_name, password_hash, account_tier)
		 VALUES ($1, $2, $3, 'free')
		 RETURNING id`,
		email, fullName, passwordHash,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns (nil, nil) when not found.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, account_tier, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.AccountTier, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email. Returns (nil, nil) when not found.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, account_tier, created_at, updated_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.AccountTier, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// UpdateUser updates the mutable user fields.
func (db *DB) UpdateUser(ctx context.Context, u *User) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE users SET full_name = $1, account_tier = $2, updated_at = NOW() WHERE id = $3`,
		u.FullName, u.AccountTier, u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteUser removes a user and cascades to profile and applications.
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

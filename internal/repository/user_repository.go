package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mariakevin/hairtryon-backend/internal/domain"
	"github.com/mariakevin/hairtryon-backend/pkg/database"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user and fills in the generated ID and credits. The
// credits column is left to the schema default so every new account starts
// with the free balance.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, userpic, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, credits
	`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Userpic,
		user.Verified,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID, &user.Credits)

	if err != nil {
		// Unique constraint violation on email
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, userpic, verified, credits, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	return r.scanUser(r.db.DB.QueryRowContext(ctx, query, email), "email", email)
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, userpic, verified, credits, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.db.DB.QueryRowContext(ctx, query, id), "id", id)
}

// UpdatePassword replaces the user's password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, userID, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return r.requireAffected(result, userID)
}

// MarkVerified flips the user's verification flag.
func (r *userRepository) MarkVerified(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET verified = true, updated_at = $2
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark user as verified: %w", err)
	}

	return r.requireAffected(result, userID)
}

func (r *userRepository) scanUser(row *sql.Row, field string, value any) (*domain.User, error) {
	user := &domain.User{}
	var userpic sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&userpic,
		&user.Verified,
		&user.Credits,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with %s %v not found: %w", field, value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", field, err)
	}

	if userpic.Valid {
		user.Userpic = &userpic.String
	}

	return user, nil
}

func (r *userRepository) requireAffected(result sql.Result, userID int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with id %d not found: %w", userID, ErrNotFound)
	}

	return nil
}

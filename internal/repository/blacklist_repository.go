package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mariakevin/hairtryon-backend/internal/domain"
	"github.com/mariakevin/hairtryon-backend/pkg/database"
)

// blacklistRepository implements BlacklistRepository on Postgres. The unique
// index on jti makes concurrent duplicate inserts collapse to one row, so an
// identifier can never be live twice.
type blacklistRepository struct {
	db *database.Postgres
}

// NewBlacklistRepository creates a new blacklist repository
func NewBlacklistRepository(db *database.Postgres) BlacklistRepository {
	return &blacklistRepository{db: db}
}

// Blacklist appends a consumed token identifier. Inserting an already
// present jti is a no-op.
func (r *blacklistRepository) Blacklist(ctx context.Context, jti string, category domain.TokenCategory, at time.Time) error {
	query := `
		INSERT INTO blacklist_tokens (jti, token_type, blacklisted_on)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING
	`

	if at.IsZero() {
		at = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query, jti, string(category), at)
	if err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

// IsBlacklisted reports whether the token identifier has been consumed.
func (r *blacklistRepository) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM blacklist_tokens WHERE jti = $1)`

	var exists bool
	if err := r.db.DB.QueryRowContext(ctx, query, jti).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return exists, nil
}

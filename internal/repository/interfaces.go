package repository

import (
	"context"
	"time"

	"github.com/mariakevin/hairtryon-backend/internal/domain"
)

// UserRepository defines methods for principal operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	MarkVerified(ctx context.Context, userID int64) error
}

// BlacklistRepository is the persistent set of consumed token identifiers.
// Blacklist must be idempotent: a duplicate insert of the same jti is a
// no-op, never a second live entry.
type BlacklistRepository interface {
	Blacklist(ctx context.Context, jti string, category domain.TokenCategory, at time.Time) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

package service

import (
	"context"

	"github.com/mariakevin/hairtryon-backend/internal/apperr"
	"github.com/mariakevin/hairtryon-backend/internal/domain"
	"go.uber.org/zap"
)

// TokenLifecycle implements the validate-on-entry / invalidate-on-exit guard
// for single-use tokens. Acquire checks the token has not been consumed;
// the returned release, deferred by the caller, consumes it on every exit
// path including errors.
//
// Reset and refresh tokens are consumed unconditionally on exit. Signup and
// login verification tokens are only checked here — they are consumed inside
// the auth service once the code actually matches, so a mistyped code does
// not burn the user's token.
type TokenLifecycle struct {
	blacklist *TokenBlacklistService
	logger    *zap.Logger
}

// ReleaseFunc consumes the guarded token. Safe to call exactly once.
type ReleaseFunc func()

// NewTokenLifecycle creates a new token lifecycle guard
func NewTokenLifecycle(blacklist *TokenBlacklistService, logger *zap.Logger) *TokenLifecycle {
	return &TokenLifecycle{blacklist: blacklist, logger: logger}
}

// AcquireReset validates a password reset token against the blacklist and
// returns a release that consumes it regardless of the outcome of the reset.
func (l *TokenLifecycle) AcquireReset(ctx context.Context, token string) (ReleaseFunc, error) {
	if err := l.check(ctx, token, apperr.ErrInvalidResetToken); err != nil {
		return nil, err
	}

	return l.release(ctx, token, domain.TokenCategoryReset), nil
}

// CheckReset validates a password reset token against the blacklist without
// consuming it.
func (l *TokenLifecycle) CheckReset(ctx context.Context, token string) error {
	return l.check(ctx, token, apperr.ErrInvalidResetToken)
}

// AcquireVerify validates a signup/login verification token against the
// blacklist. It does not consume the token; the auth service does that when
// the code matches.
func (l *TokenLifecycle) AcquireVerify(ctx context.Context, token string) error {
	return l.check(ctx, token, apperr.ErrInvalidSignupToken)
}

// AcquireRefresh validates a refresh token against the blacklist and returns
// a release that consumes it, rotating the token on every refresh or logout.
func (l *TokenLifecycle) AcquireRefresh(ctx context.Context, token string) (ReleaseFunc, error) {
	if err := l.check(ctx, token, apperr.ErrInvalidRefreshToken); err != nil {
		return nil, err
	}

	return l.release(ctx, token, domain.TokenCategoryRefresh), nil
}

func (l *TokenLifecycle) check(ctx context.Context, token string, consumed *apperr.Error) error {
	blacklisted, err := l.blacklist.IsBlacklisted(ctx, token)
	if err != nil {
		return err
	}
	if blacklisted {
		return consumed
	}
	return nil
}

func (l *TokenLifecycle) release(ctx context.Context, token string, category domain.TokenCategory) ReleaseFunc {
	return func() {
		if err := l.blacklist.Blacklist(ctx, token, category); err != nil {
			l.logger.Error("failed to consume token on exit",
				zap.String("category", string(category)),
				zap.Error(err),
			)
		}
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/mariakevin/hairtryon-backend/internal/apperr"
	"github.com/mariakevin/hairtryon-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueToken(t *testing.T, env *testEnv, family domain.TokenFamily) string {
	t.Helper()
	token, err := env.jwtManager.Issue(map[string]any{"sub": "maria@example.com"}, time.Hour, family)
	require.NoError(t, err)
	return token
}

func TestAcquireResetConsumesOnRelease(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := issueToken(t, env, domain.TokenFamilyAccess)

	release, err := env.lifecycle.AcquireReset(ctx, token)
	require.NoError(t, err)
	release()

	_, err = env.lifecycle.AcquireReset(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrInvalidResetToken)
}

func TestCheckResetDoesNotConsume(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := issueToken(t, env, domain.TokenFamilyAccess)

	require.NoError(t, env.lifecycle.CheckReset(ctx, token))
	require.NoError(t, env.lifecycle.CheckReset(ctx, token), "checking must be repeatable")

	blacklisted, err := env.blacklist.IsBlacklisted(ctx, token)
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestAcquireVerifyDoesNotConsume(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := issueToken(t, env, domain.TokenFamilyAccess)

	require.NoError(t, env.lifecycle.AcquireVerify(ctx, token))
	require.NoError(t, env.lifecycle.AcquireVerify(ctx, token))

	// Once consumed elsewhere, the guard rejects it.
	require.NoError(t, env.blacklist.Blacklist(ctx, token, domain.TokenCategorySignupVerify))
	assert.ErrorIs(t, env.lifecycle.AcquireVerify(ctx, token), apperr.ErrInvalidSignupToken)
}

func TestAcquireRefreshConsumesOnRelease(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := issueToken(t, env, domain.TokenFamilyRefresh)

	release, err := env.lifecycle.AcquireRefresh(ctx, token)
	require.NoError(t, err)
	release()

	_, err = env.lifecycle.AcquireRefresh(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)
}

func TestReleaseIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := issueToken(t, env, domain.TokenFamilyRefresh)

	release, err := env.lifecycle.AcquireRefresh(ctx, token)
	require.NoError(t, err)
	release()
	release()

	_, err = env.lifecycle.AcquireRefresh(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)
}

package service

import (
	"context"
	"time"

	"github.com/mariakevin/hairtryon-backend/internal/domain"
	"github.com/mariakevin/hairtryon-backend/internal/repository"
	"github.com/mariakevin/hairtryon-backend/internal/utils"
)

// TokenBlacklistService enforces single use on top of stateless signed
// tokens: a token stays cryptographically valid until expiry, but the
// persistent jti set decides liveness.
type TokenBlacklistService struct {
	repo       repository.BlacklistRepository
	jwtManager *utils.JWTManager
}

// NewTokenBlacklistService creates a new token blacklist service
func NewTokenBlacklistService(repo repository.BlacklistRepository, jwtManager *utils.JWTManager) *TokenBlacklistService {
	return &TokenBlacklistService{repo: repo, jwtManager: jwtManager}
}

// Blacklist records the token's jti under the given category. Tokens that do
// not parse under either family carry no liveness to revoke, so they are
// skipped.
func (s *TokenBlacklistService) Blacklist(ctx context.Context, token string, category domain.TokenCategory) error {
	jti := s.jwtManager.ExtractID(token)
	if jti == "" {
		return nil
	}

	return s.repo.Blacklist(ctx, jti, category, time.Now())
}

// IsBlacklisted reports whether the token has been consumed.
func (s *TokenBlacklistService) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	jti := s.jwtManager.ExtractID(token)
	if jti == "" {
		return false, nil
	}

	return s.repo.IsBlacklisted(ctx, jti)
}

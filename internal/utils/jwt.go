package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mariakevin/hairtryon-backend/internal/domain"
)

// JWTManager issues and parses signed expiring tokens. Two independent
// secrets partition the access family (access, verification, and reset
// tokens) from the refresh family, so a token can never be replayed across
// families even with an otherwise valid claim shape.
type JWTManager struct {
	accessSecret       []byte
	refreshSecret      []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(accessSecret, refreshSecret string, accessTokenExpiry, refreshTokenExpiry time.Duration) *JWTManager {
	return &JWTManager{
		accessSecret:       []byte(accessSecret),
		refreshSecret:      []byte(refreshSecret),
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// Issue signs the given claims under the family's secret, adding a fresh jti
// and an absolute expiry of now+ttl. A zero ttl uses the family default.
func (j *JWTManager) Issue(claims map[string]any, ttl time.Duration, family domain.TokenFamily) (string, error) {
	if ttl == 0 {
		ttl = j.defaultTTL(family)
	}

	mapClaims := jwt.MapClaims{}
	for k, v := range claims {
		mapClaims[k] = v
	}
	mapClaims["jti"] = uuid.New().String()
	mapClaims["exp"] = time.Now().Add(ttl).Unix()
	mapClaims["iat"] = time.Now().Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	tokenString, err := token.SignedString(j.secretFor(family))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Parse verifies the token signature under the family's secret and its
// expiry. Every signature, format, or expiry failure collapses to an error;
// claims are never returned partially trusted.
func (j *JWTManager) Parse(tokenString string, family domain.TokenFamily) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretFor(family), nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// ExtractID returns the token's jti for blacklist lookups, trying the access
// secret first and falling back to the refresh secret. Returns "" when the
// token is unparseable under either family.
func (j *JWTManager) ExtractID(tokenString string) string {
	claims, err := j.Parse(tokenString, domain.TokenFamilyAccess)
	if err != nil {
		claims, err = j.Parse(tokenString, domain.TokenFamilyRefresh)
		if err != nil {
			return ""
		}
	}

	jti, ok := claims["jti"].(string)
	if !ok {
		return ""
	}
	return jti
}

// AccessTokenExpiry returns the access token lifetime.
func (j *JWTManager) AccessTokenExpiry() time.Duration {
	return j.accessTokenExpiry
}

// RefreshTokenExpiry returns the refresh token lifetime.
func (j *JWTManager) RefreshTokenExpiry() time.Duration {
	return j.refreshTokenExpiry
}

func (j *JWTManager) secretFor(family domain.TokenFamily) []byte {
	if family == domain.TokenFamilyRefresh {
		return j.refreshSecret
	}
	return j.accessSecret
}

func (j *JWTManager) defaultTTL(family domain.TokenFamily) time.Duration {
	if family == domain.TokenFamilyRefresh {
		return j.refreshTokenExpiry
	}
	return j.accessTokenExpiry
}

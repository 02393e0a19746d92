package domain

import "time"

// TokenFamily selects the signing key a token is created and verified under.
// Access-family tokens (access, verification, password reset) and
// refresh-family tokens use independent secrets, so a token presented under
// the wrong family never validates.
type TokenFamily string

const (
	TokenFamilyAccess  TokenFamily = "access"
	TokenFamilyRefresh TokenFamily = "refresh"
)

// TokenCategory is the functional purpose recorded when a token identifier
// is blacklisted.
type TokenCategory string

const (
	TokenCategoryAccess       TokenCategory = "access"
	TokenCategoryRefresh      TokenCategory = "refresh"
	TokenCategoryReset        TokenCategory = "reset"
	TokenCategorySignupVerify TokenCategory = "signup_verify"
	TokenCategoryLoginVerify  TokenCategory = "login_verify"
)

// BlacklistEntry is a consumed or revoked token identifier. Once a jti is
// present the matching token must never validate as live again.
type BlacklistEntry struct {
	ID            int64         `json:"id" db:"id"`
	JTI           string        `json:"jti" db:"jti"`
	Category      TokenCategory `json:"token_type" db:"token_type"`
	BlacklistedOn time.Time     `json:"blacklisted_on" db:"blacklisted_on"`
}

// TokenPair is a freshly issued session: one access token and one refresh
// token, delivered to the client as httponly cookies.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

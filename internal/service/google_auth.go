package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mariakevin/hairtryon-backend/internal/apperr"
	"github.com/mariakevin/hairtryon-backend/internal/config"
	"github.com/mariakevin/hairtryon-backend/internal/domain"
	"github.com/mariakevin/hairtryon-backend/internal/repository"
	"github.com/mariakevin/hairtryon-backend/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"

// googleUserInfo is the subset of the Google userinfo payload we act on.
type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleAuthService reconciles a Google identity assertion with local
// accounts: an existing account is reused by email, otherwise one is created
// verified with a placeholder password that can never be used for password
// login. The oauth2 config is built once at startup and passed in; there is
// no ambient registry.
type GoogleAuthService struct {
	oauth       *oauth2.Config
	users       repository.UserRepository
	auth        AuthService
	logger      *zap.Logger
	bcryptCost  int
	userinfoURL string
}

// NewGoogleAuthService creates a new Google auth service
func NewGoogleAuthService(
	cfg config.GoogleConfig,
	users repository.UserRepository,
	auth AuthService,
	logger *zap.Logger,
	bcryptCost int,
) *GoogleAuthService {
	return &GoogleAuthService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		users:       users,
		auth:        auth,
		logger:      logger,
		bcryptCost:  bcryptCost,
		userinfoURL: googleUserinfoEndpoint,
	}
}

// AuthCodeURL returns the consent screen URL for the given anti-CSRF state.
func (g *GoogleAuthService) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "consent"))
}

// HandleCallback exchanges the authorization code, resolves the asserted
// identity to a local account, and opens a session for it.
func (g *GoogleAuthService) HandleCallback(ctx context.Context, code string) (*domain.TokenPair, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		g.logger.Warn("google token exchange failed", zap.Error(err))
		return nil, apperr.ErrGoogleAuth
	}

	info, err := g.fetchUserInfo(ctx, token)
	if err != nil {
		g.logger.Warn("google userinfo fetch failed", zap.Error(err))
		return nil, apperr.ErrGoogleAuth
	}

	if info.Email == "" || info.Sub == "" {
		return nil, apperr.ErrGoogleAuth
	}

	user, err := g.getOrCreateUser(ctx, info)
	if err != nil {
		return nil, err
	}

	if !user.Verified {
		return nil, apperr.ErrUserNotVerified
	}

	return g.auth.IssueSession(user)
}

// getOrCreateUser reuses the account matching the asserted email or creates
// a verified one. The external verification is trusted.
func (g *GoogleAuthService) getOrCreateUser(ctx context.Context, info *googleUserInfo) (*domain.User, error) {
	email := utils.SanitizeEmail(info.Email)

	user, err := g.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	placeholder, err := utils.GeneratePlaceholderPassword(g.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder password: %w", err)
	}

	user = &domain.User{
		Name:         info.Name,
		Email:        email,
		PasswordHash: placeholder,
		Verified:     true,
	}
	if info.Picture != "" {
		user.Userpic = &info.Picture
	}

	if err := g.users.Create(ctx, user); err != nil {
		// Concurrent callback for the same identity: reuse the winner's row.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return g.users.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (g *GoogleAuthService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	resp, err := g.oauth.Client(ctx, token).Get(g.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	return &info, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mariakevin/hairtryon-backend/internal/apperr"
	"github.com/mariakevin/hairtryon-backend/internal/domain"
	"github.com/mariakevin/hairtryon-backend/internal/dto"
	"github.com/mariakevin/hairtryon-backend/internal/mailer"
	"github.com/mariakevin/hairtryon-backend/internal/repository"
	"github.com/mariakevin/hairtryon-backend/internal/utils"
	"go.uber.org/zap"
)

// authService implements AuthService interface
type authService struct {
	users          repository.UserRepository
	blacklist      *TokenBlacklistService
	jwtManager     *utils.JWTManager
	mail           mailer.Mailer
	logger         *zap.Logger
	bcryptCost     int
	frontendURL    string
	verifyTokenTTL time.Duration
	resetTokenTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	users repository.UserRepository,
	blacklist *TokenBlacklistService,
	jwtManager *utils.JWTManager,
	mail mailer.Mailer,
	logger *zap.Logger,
	bcryptCost int,
	frontendURL string,
	verifyTokenTTL time.Duration,
	resetTokenTTL time.Duration,
) AuthService {
	return &authService{
		users:          users,
		blacklist:      blacklist,
		jwtManager:     jwtManager,
		mail:           mail,
		logger:         logger,
		bcryptCost:     bcryptCost,
		frontendURL:    frontendURL,
		verifyTokenTTL: verifyTokenTTL,
		resetTokenTTL:  resetTokenTTL,
	}
}

// Signup registers a new unverified account
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	email := utils.SanitizeEmail(req.Email)

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperr.ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email registration: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: passwordHash,
		Verified:     false,
	}
	if req.Userpic != "" {
		user.Userpic = &req.Userpic
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	verifyToken, err := s.issueVerificationToken(user, mailer.KindSignupCode)
	if err != nil {
		return nil, err
	}

	return &dto.SignupResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Verified:    user.Verified,
		VerifyToken: verifyToken,
	}, nil
}

// RequestSignupToken issues a fresh signup verification token
func (s *authService) RequestSignupToken(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.ErrUserNotFound
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if user.Verified {
		return "", apperr.ErrUserAlreadyVerified
	}

	return s.issueVerificationToken(user, mailer.KindSignupCode)
}

// VerifySignup confirms the signup code, marks the account verified,
// consumes the token, and opens a session. A code mismatch leaves the token
// alive so the user can retype the code.
func (s *authService) VerifySignup(ctx context.Context, token, code string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.verifyCode(ctx, token, code)
	if err != nil {
		return nil, nil, err
	}

	if !user.Verified {
		if err := s.users.MarkVerified(ctx, user.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to mark user as verified: %w", err)
		}
		user.Verified = true
	}

	if err := s.blacklist.Blacklist(ctx, token, domain.TokenCategorySignupVerify); err != nil {
		return nil, nil, fmt.Errorf("failed to consume signup token: %w", err)
	}

	pair, err := s.IssueSession(user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// RequestLoginToken authenticates the password and issues a login
// verification token
func (s *authService) RequestLoginToken(ctx context.Context, email, password string) (string, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	if !user.Verified {
		return "", apperr.ErrUserNotVerified
	}

	return s.issueVerificationToken(user, mailer.KindLoginCode)
}

// VerifyLogin confirms the login code, consumes the token, and opens a
// session
func (s *authService) VerifyLogin(ctx context.Context, token, code string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.verifyCode(ctx, token, code)
	if err != nil {
		return nil, nil, err
	}

	if !user.Verified {
		return nil, nil, apperr.ErrUserNotVerified
	}

	if err := s.blacklist.Blacklist(ctx, token, domain.TokenCategoryLoginVerify); err != nil {
		return nil, nil, fmt.Errorf("failed to consume login token: %w", err)
	}

	pair, err := s.IssueSession(user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new session pair. The
// presented token is consumed by the surrounding lifecycle guard.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.Parse(refreshToken, domain.TokenFamilyRefresh)
	if err != nil {
		return nil, apperr.ErrNotAuthenticated
	}

	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return nil, apperr.ErrNotAuthenticated
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Verified {
		return nil, apperr.ErrUserNotVerified
	}

	return s.IssueSession(user)
}

// ForgotPassword mails a reset link when the email is registered. It never
// reveals to the caller whether the email exists.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := s.jwtManager.Issue(map[string]any{"sub": user.Email}, s.resetTokenTTL, domain.TokenFamilyAccess)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	s.dispatchMail(mailer.Mail{
		Kind:      mailer.KindPasswordReset,
		To:        user.Email,
		Name:      user.Name,
		ResetLink: s.frontendURL + "/reset-password?token=" + token,
	})

	return nil
}

// VerifyResetToken checks a reset token without consuming it
func (s *authService) VerifyResetToken(token string) error {
	if s.resetTokenSubject(token) == "" {
		return apperr.ErrInvalidResetToken
	}
	return nil
}

// ResetPassword sets a new password for the reset token's subject. The token
// itself is consumed by the surrounding lifecycle guard on every exit.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email := s.resetTokenSubject(token)
	if email == "" {
		return apperr.ErrInvalidResetToken
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrInvalidCredentials
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	passwordHash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// CheckEmailStatus reports whether the account for email is verified
func (s *authService) CheckEmailStatus(ctx context.Context, email string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, apperr.ErrUserNotFound
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}

	return user.Verified, nil
}

// VerifyCodeToken reports whether a signup/login verification token parses
// and carries a code
func (s *authService) VerifyCodeToken(token string) bool {
	_, _, ok := s.parseCodeToken(token)
	return ok
}

// CurrentUser resolves the account behind an access token
func (s *authService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.jwtManager.Parse(accessToken, domain.TokenFamilyAccess)
	if err != nil {
		return nil, apperr.ErrNotAuthenticated
	}

	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return nil, apperr.ErrNotAuthenticated
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Verified {
		return nil, apperr.ErrUserNotVerified
	}

	return user, nil
}

// IssueSession issues a fresh access+refresh pair for the user
func (s *authService) IssueSession(user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.jwtManager.Issue(map[string]any{"sub": user.Email}, 0, domain.TokenFamilyAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.jwtManager.Issue(map[string]any{"sub": user.Email}, 0, domain.TokenFamilyRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// authenticate verifies the email/password pair
func (s *authService) authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}

	return user, nil
}

// verifyCode parses a verification token, compares the embedded code, and
// loads the subject. A mismatch does not consume the token.
func (s *authService) verifyCode(ctx context.Context, token, code string) (*domain.User, error) {
	subject, embedded, ok := s.parseCodeToken(token)
	if !ok {
		return nil, apperr.ErrVerificationCodeExpired
	}

	if embedded != code {
		return nil, apperr.ErrVerificationCodeInvalid
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, apperr.ErrVerificationCodeExpired
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// parseCodeToken extracts subject and code from a verification token.
func (s *authService) parseCodeToken(token string) (subject, code string, ok bool) {
	claims, err := s.jwtManager.Parse(token, domain.TokenFamilyAccess)
	if err != nil {
		return "", "", false
	}

	subject, sok := claims["sub"].(string)
	code, cok := claims["code"].(string)
	if !sok || !cok || subject == "" || code == "" {
		return "", "", false
	}

	return subject, code, true
}

// resetTokenSubject returns the email inside a reset token, "" if invalid.
func (s *authService) resetTokenSubject(token string) string {
	claims, err := s.jwtManager.Parse(token, domain.TokenFamilyAccess)
	if err != nil {
		return ""
	}

	email, _ := claims["sub"].(string)
	return email
}

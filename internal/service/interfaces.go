package service

import (
	"context"

	"github.com/mariakevin/hairtryon-backend/internal/domain"
	"github.com/mariakevin/hairtryon-backend/internal/dto"
)

// AuthService defines the credential and session operations
type AuthService interface {
	// Signup creates an unverified account and returns it together with a
	// signup verification token; the 6-digit code travels by email.
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error)
	// RequestSignupToken issues a fresh verification token for an existing
	// unverified account.
	RequestSignupToken(ctx context.Context, email string) (string, error)
	// VerifySignup checks the embedded code, marks the account verified,
	// consumes the token, and opens a session.
	VerifySignup(ctx context.Context, token, code string) (*domain.User, *domain.TokenPair, error)
	// RequestLoginToken is the password step of login; on success it issues
	// a login verification token.
	RequestLoginToken(ctx context.Context, email, password string) (string, error)
	// VerifyLogin checks the embedded code, consumes the token, and opens a
	// session.
	VerifyLogin(ctx context.Context, token, code string) (*domain.User, *domain.TokenPair, error)
	// Refresh exchanges a still-valid refresh token for a new session pair.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// ForgotPassword mails a reset link when the email is registered. The
	// caller's response must not depend on whether it was.
	ForgotPassword(ctx context.Context, email string) error
	// VerifyResetToken checks a reset token without consuming it.
	VerifyResetToken(token string) error
	// ResetPassword sets a new password for the token's subject.
	ResetPassword(ctx context.Context, token, newPassword string) error
	// CheckEmailStatus reports whether the account for email is verified.
	CheckEmailStatus(ctx context.Context, email string) (bool, error)
	// VerifyCodeToken reports whether a signup/login verification token
	// still parses.
	VerifyCodeToken(token string) bool
	// CurrentUser resolves the account behind an access token.
	CurrentUser(ctx context.Context, accessToken string) (*domain.User, error)
	// IssueSession issues a fresh access+refresh pair for the user.
	IssueSession(user *domain.User) (*domain.TokenPair, error)
}

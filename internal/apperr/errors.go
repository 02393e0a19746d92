// Package apperr defines the client-facing error taxonomy. Every error here
// carries a fixed machine code and HTTP status; anything not in this set is
// reported to clients as a generic internal error.
package apperr

import (
	"errors"
	"net/http"
)

// Error is a domain error surfaced to API clients.
type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrEmailAlreadyRegistered = &Error{Code: "EMAIL_ALREADY_REGISTERED", Status: http.StatusBadRequest, Message: "Email already registered, please login instead"}
	ErrInvalidCredentials     = &Error{Code: "INVALID_CREDENTIALS", Status: http.StatusBadRequest, Message: "Invalid credentials"}
	ErrUserNotFound           = &Error{Code: "USER_NOT_FOUND", Status: http.StatusNotFound, Message: "User not found"}
	ErrUserNotVerified        = &Error{Code: "USER_NOT_VERIFIED", Status: http.StatusBadRequest, Message: "User is not verified"}
	ErrUserAlreadyVerified    = &Error{Code: "USER_ALREADY_VERIFIED", Status: http.StatusBadRequest, Message: "User is already verified"}

	ErrVerificationCodeExpired = &Error{Code: "VERIFICATION_CODE_EXPIRED", Status: http.StatusBadRequest, Message: "Verification code has expired"}
	ErrVerificationCodeInvalid = &Error{Code: "VERIFICATION_CODE_INVALID", Status: http.StatusBadRequest, Message: "Invalid verification code"}

	ErrInvalidResetToken   = &Error{Code: "INVALID_RESET_TOKEN", Status: http.StatusBadRequest, Message: "Invalid or expired reset token"}
	ErrInvalidSignupToken  = &Error{Code: "INVALID_SIGNUP_TOKEN", Status: http.StatusBadRequest, Message: "Invalid or expired signup verification token"}
	ErrInvalidRefreshToken = &Error{Code: "INVALID_REFRESH_TOKEN", Status: http.StatusBadRequest, Message: "Invalid or expired refresh token"}
	ErrNotAuthenticated    = &Error{Code: "NOT_AUTHENTICATED", Status: http.StatusUnauthorized, Message: "Not authenticated"}
	ErrNoCookies           = &Error{Code: "NO_COOKIES_FOUND", Status: http.StatusBadRequest, Message: "No cookies found"}

	ErrGoogleAuth = &Error{Code: "GOOGLE_AUTH_FAILED", Status: http.StatusBadRequest, Message: "Google authentication failed"}

	ErrInternal = &Error{Code: "INTERNAL_SERVER_ERROR", Status: http.StatusInternalServerError, Message: "Internal server error"}
)

// From classifies err as one of the domain errors above, falling back to
// ErrInternal so internals never leak to clients.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal
}

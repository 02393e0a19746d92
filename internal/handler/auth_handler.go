package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mariakevin/hairtryon-backend/internal/apperr"
	"github.com/mariakevin/hairtryon-backend/internal/dto"
	"github.com/mariakevin/hairtryon-backend/internal/service"
	"github.com/mariakevin/hairtryon-backend/internal/utils"
)

const forgotPasswordDetail = "If the email is registered, a password reset link has been sent."

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth          service.AuthService
	google        *service.GoogleAuthService
	lifecycle     *service.TokenLifecycle
	accessTTL     time.Duration
	refreshTTL    time.Duration
	frontendURL   string
	secureCookies bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	auth service.AuthService,
	google *service.GoogleAuthService,
	lifecycle *service.TokenLifecycle,
	accessTTL, refreshTTL time.Duration,
	frontendURL string,
	secureCookies bool,
) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		google:        google,
		lifecycle:     lifecycle,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		frontendURL:   frontendURL,
		secureCookies: secureCookies,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if !utils.ValidatePassword(req.Password) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "password must be 8-128 characters and contain no spaces",
		})
		return
	}

	resp, err := h.auth.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RequestSignupToken handles POST /auth/request-signup-token
func (h *AuthHandler) RequestSignupToken(c *gin.Context) {
	var req dto.RequestSignupTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	token, err := h.auth.RequestSignupToken(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// VerifySignup handles POST /auth/verify-signup
func (h *AuthHandler) VerifySignup(c *gin.Context) {
	var req dto.VerifySignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.lifecycle.AcquireVerify(ctx, req.Token); err != nil {
		respondError(c, err)
		return
	}

	_, pair, err := h.auth.VerifySignup(ctx, req.Token, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	c.JSON(http.StatusOK, dto.VerifiedResponse{Verified: true})
}

// RequestLoginToken handles POST /auth/request-login-token
func (h *AuthHandler) RequestLoginToken(c *gin.Context) {
	var req dto.RequestLoginTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	token, err := h.auth.RequestLoginToken(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// VerifyLogin handles POST /auth/verify-login
func (h *AuthHandler) VerifyLogin(c *gin.Context) {
	var req dto.VerifyLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.lifecycle.AcquireVerify(ctx, req.Token); err != nil {
		respondError(c, err)
		return
	}

	_, pair, err := h.auth.VerifyLogin(ctx, req.Token, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	c.JSON(http.StatusOK, dto.VerifiedResponse{Verified: true})
}

// Logout handles POST /auth/logout. The refresh token is consumed even though
// the access cookie keeps verifying until expiry; clearing both cookies ends
// the browser session. A missing refresh cookie means there is no session
// subject to act on, hence the not-found shape rather than the cookie error
// used on access-token paths.
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		respondError(c, apperr.ErrUserNotFound)
		return
	}

	release, err := h.lifecycle.AcquireRefresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	defer release()

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Detail: "User logged out"})
}

// Refresh handles POST /auth/refresh. The presented refresh token is consumed
// on every exit path, so a failed rotation still burns it.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		respondError(c, apperr.ErrUserNotFound)
		return
	}

	ctx := c.Request.Context()
	release, err := h.lifecycle.AcquireRefresh(ctx, refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	defer release()

	pair, err := h.auth.Refresh(ctx, refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	c.JSON(http.StatusOK, dto.VerifiedResponse{Verified: true})
}

// ForgotPassword handles POST /auth/forgot-password. The response body is
// identical whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Detail: forgotPasswordDetail})
}

// VerifyResetToken handles POST /auth/verify-reset-token without consuming
// the token, so the frontend can pre-validate the link before showing the
// new-password form.
func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	var req dto.VerifyResetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.lifecycle.CheckReset(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}

	if err := h.auth.VerifyResetToken(req.Token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ValidResponse{Valid: true})
}

// ResetPassword handles POST /auth/reset-password. The token is consumed on
// every exit path: a failed attempt requires requesting a fresh link.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if !utils.ValidatePassword(req.NewPassword) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "password must be 8-128 characters and contain no spaces",
		})
		return
	}

	ctx := c.Request.Context()
	release, err := h.lifecycle.AcquireReset(ctx, req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	defer release()

	if err := h.auth.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Detail: "Password has been reset successfully."})
}

// CheckEmailStatus handles POST /auth/check-email-status
func (h *AuthHandler) CheckEmailStatus(c *gin.Context) {
	var req dto.CheckEmailStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	verified, err := h.auth.CheckEmailStatus(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VerifiedResponse{Verified: verified})
}

// VerifyCodeToken handles POST /auth/verify-code-token
func (h *AuthHandler) VerifyCodeToken(c *gin.Context) {
	var req dto.VerifyCodeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ValidResponse{Valid: h.auth.VerifyCodeToken(req.Token)})
}

// GoogleLogin handles GET /auth/google: sets the anti-CSRF state cookie and
// redirects to the consent screen.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

// GoogleCallback handles GET /auth/google/callback. Errors redirect back to
// the frontend with a machine-readable code instead of rendering JSON, since
// the browser arrives here directly from Google.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	defer func() {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookies, true)
	}()

	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie == "" || c.Query("state") != stateCookie {
		h.redirectWithError(c, apperr.ErrGoogleAuth)
		return
	}

	code := c.Query("code")
	if code == "" {
		h.redirectWithError(c, apperr.ErrGoogleAuth)
		return
	}

	pair, err := h.google.HandleCallback(c.Request.Context(), code)
	if err != nil {
		h.redirectWithError(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	c.Redirect(http.StatusFound, h.frontendURL+"/auth/callback?success=true")
}

func (h *AuthHandler) redirectWithError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.Redirect(http.StatusFound, h.frontendURL+"/auth/callback?error="+url.QueryEscape(appErr.Code))
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mariakevin/hairtryon-backend/internal/apperr"
	"github.com/mariakevin/hairtryon-backend/internal/domain"
	"github.com/mariakevin/hairtryon-backend/internal/dto"
	"github.com/mariakevin/hairtryon-backend/internal/service"
	"github.com/mariakevin/hairtryon-backend/internal/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAuthService implements service.AuthService with per-test function
// fields. Unstubbed methods report an internal error.
type stubAuthService struct {
	signup             func(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error)
	requestSignupToken func(ctx context.Context, email string) (string, error)
	verifySignup       func(ctx context.Context, token, code string) (*domain.User, *domain.TokenPair, error)
	requestLoginToken  func(ctx context.Context, email, password string) (string, error)
	verifyLogin        func(ctx context.Context, token, code string) (*domain.User, *domain.TokenPair, error)
	refresh            func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	forgotPassword     func(ctx context.Context, email string) error
	verifyResetToken   func(token string) error
	resetPassword      func(ctx context.Context, token, newPassword string) error
	checkEmailStatus   func(ctx context.Context, email string) (bool, error)
	verifyCodeToken    func(token string) bool
	currentUser        func(ctx context.Context, accessToken string) (*domain.User, error)
	issueSession       func(user *domain.User) (*domain.TokenPair, error)
}

var _ service.AuthService = (*stubAuthService)(nil)

func (s *stubAuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	if s.signup == nil {
		return nil, apperr.ErrInternal
	}
	return s.signup(ctx, req)
}

func (s *stubAuthService) RequestSignupToken(ctx context.Context, email string) (string, error) {
	if s.requestSignupToken == nil {
		return "", apperr.ErrInternal
	}
	return s.requestSignupToken(ctx, email)
}

func (s *stubAuthService) VerifySignup(ctx context.Context, token, code string) (*domain.User, *domain.TokenPair, error) {
	if s.verifySignup == nil {
		return nil, nil, apperr.ErrInternal
	}
	return s.verifySignup(ctx, token, code)
}

func (s *stubAuthService) RequestLoginToken(ctx context.Context, email, password string) (string, error) {
	if s.requestLoginToken == nil {
		return "", apperr.ErrInternal
	}
	return s.requestLoginToken(ctx, email, password)
}

func (s *stubAuthService) VerifyLogin(ctx context.Context, token, code string) (*domain.User, *domain.TokenPair, error) {
	if s.verifyLogin == nil {
		return nil, nil, apperr.ErrInternal
	}
	return s.verifyLogin(ctx, token, code)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if s.refresh == nil {
		return nil, apperr.ErrInternal
	}
	return s.refresh(ctx, refreshToken)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error {
	if s.forgotPassword == nil {
		return apperr.ErrInternal
	}
	return s.forgotPassword(ctx, email)
}

func (s *stubAuthService) VerifyResetToken(token string) error {
	if s.verifyResetToken == nil {
		return apperr.ErrInternal
	}
	return s.verifyResetToken(token)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if s.resetPassword == nil {
		return apperr.ErrInternal
	}
	return s.resetPassword(ctx, token, newPassword)
}

func (s *stubAuthService) CheckEmailStatus(ctx context.Context, email string) (bool, error) {
	if s.checkEmailStatus == nil {
		return false, apperr.ErrInternal
	}
	return s.checkEmailStatus(ctx, email)
}

func (s *stubAuthService) VerifyCodeToken(token string) bool {
	if s.verifyCodeToken == nil {
		return false
	}
	return s.verifyCodeToken(token)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	if s.currentUser == nil {
		return nil, apperr.ErrInternal
	}
	return s.currentUser(ctx, accessToken)
}

func (s *stubAuthService) IssueSession(user *domain.User) (*domain.TokenPair, error) {
	if s.issueSession == nil {
		return nil, apperr.ErrInternal
	}
	return s.issueSession(user)
}

// memBlacklist is an in-memory blacklist store.
type memBlacklist struct {
	mu      sync.Mutex
	entries map[string]domain.TokenCategory
}

func newMemBlacklist() *memBlacklist {
	return &memBlacklist{entries: make(map[string]domain.TokenCategory)}
}

func (m *memBlacklist) Blacklist(ctx context.Context, jti string, category domain.TokenCategory, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[jti]; !ok {
		m.entries[jti] = category
	}
	return nil
}

func (m *memBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[jti]
	return ok, nil
}

type handlerEnv struct {
	router     *gin.Engine
	auth       *stubAuthService
	jwtManager *utils.JWTManager
	lifecycle  *service.TokenLifecycle
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	auth := &stubAuthService{}
	jwtManager := utils.NewJWTManager(
		"access-secret-for-tests-0123456789abcdef",
		"refresh-secret-for-tests-0123456789abcdef",
		10*time.Minute,
		7*24*time.Hour,
	)
	blacklist := service.NewTokenBlacklistService(newMemBlacklist(), jwtManager)
	lifecycle := service.NewTokenLifecycle(blacklist, zap.NewNop())

	authHandler := NewAuthHandler(auth, nil, lifecycle, 10*time.Minute, 7*24*time.Hour, "http://localhost:3000", false)
	userHandler := NewUserHandler()

	router := gin.New()
	api := router.Group("/api/v1")
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/request-signup-token", authHandler.RequestSignupToken)
	authGroup.POST("/verify-signup", authHandler.VerifySignup)
	authGroup.POST("/request-login-token", authHandler.RequestLoginToken)
	authGroup.POST("/verify-login", authHandler.VerifyLogin)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.POST("/verify-reset-token", authHandler.VerifyResetToken)
	authGroup.POST("/reset-password", authHandler.ResetPassword)
	authGroup.POST("/check-email-status", authHandler.CheckEmailStatus)
	authGroup.POST("/verify-code-token", authHandler.VerifyCodeToken)

	userGroup := api.Group("/user", AuthRequired(auth))
	userGroup.GET("/me", userHandler.Me)

	return &handlerEnv{
		router:     router,
		auth:       auth,
		jwtManager: jwtManager,
		lifecycle:  lifecycle,
	}
}

func (e *handlerEnv) postJSON(t *testing.T, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *handlerEnv) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

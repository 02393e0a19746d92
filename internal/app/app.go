package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mariakevin/hairtryon-backend/internal/config"
	"github.com/mariakevin/hairtryon-backend/internal/handler"
	"github.com/mariakevin/hairtryon-backend/internal/mailer"
	"github.com/mariakevin/hairtryon-backend/internal/repository"
	"github.com/mariakevin/hairtryon-backend/internal/service"
	"github.com/mariakevin/hairtryon-backend/internal/utils"
	"github.com/mariakevin/hairtryon-backend/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) (*App, error) {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	mail, err := newMailer(cfg, infra.Logger())
	if err != nil {
		return nil, err
	}

	blacklistService := service.NewTokenBlacklistService(repos.Blacklist, jwtManager)
	lifecycle := service.NewTokenLifecycle(blacklistService, infra.Logger())
	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		blacklistService,
		jwtManager,
		mail,
		infra.Logger(),
		cfg.Security.BCryptCost,
		cfg.FrontendURL,
		cfg.JWT.VerifyTokenExpiry.Duration,
		cfg.JWT.ResetTokenExpiry.Duration,
	)

	googleService := service.NewGoogleAuthService(
		cfg.Google,
		repos.User,
		authService,
		infra.Logger(),
		cfg.Security.BCryptCost,
	)

	authHandler := handler.NewAuthHandler(
		authService,
		googleService,
		lifecycle,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
		cfg.FrontendURL,
		cfg.Env == "production",
	)
	userHandler := handler.NewUserHandler()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("hairtryon-backend"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, userHandler, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// newMailer picks the SMTP sender when a host is configured, a logging stub
// otherwise.
func newMailer(cfg *config.Config, logger *zap.Logger) (mailer.Mailer, error) {
	if cfg.Mail.Host == "" {
		logger.Warn("no SMTP host configured, mail will only be logged")
		return mailer.NewLogMailer(logger), nil
	}
	return mailer.NewSMTPMailer(cfg.Mail)
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	throttled := handler.RateLimitMiddleware(
		rateLimiter,
		cfg.Security.RateLimitRequests,
		cfg.Security.RateLimitWindow.Duration,
		handler.IPBasedKey,
	)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", throttled, authHandler.Signup)
			auth.POST("/request-signup-token", throttled, authHandler.RequestSignupToken)
			auth.POST("/verify-signup", throttled, authHandler.VerifySignup)
			auth.POST("/request-login-token", throttled, authHandler.RequestLoginToken)
			auth.POST("/verify-login", throttled, authHandler.VerifyLogin)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/forgot-password", throttled, authHandler.ForgotPassword)
			auth.POST("/verify-reset-token", authHandler.VerifyResetToken)
			auth.POST("/reset-password", throttled, authHandler.ResetPassword)
			auth.POST("/check-email-status", authHandler.CheckEmailStatus)
			auth.POST("/verify-code-token", authHandler.VerifyCodeToken)
			auth.GET("/google", authHandler.GoogleLogin)
			auth.GET("/google/callback", authHandler.GoogleCallback)
		}

		user := api.Group("/user", handler.AuthRequired(authService))
		{
			user.GET("/me", userHandler.Me)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}

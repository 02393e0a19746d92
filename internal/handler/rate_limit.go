package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mariakevin/hairtryon-backend/internal/dto"
	"github.com/mariakevin/hairtryon-backend/internal/service"
	"go.uber.org/zap"
)

// RateLimitMiddleware throttles requests per key with a Redis sliding window.
// If the limiter itself fails, requests pass through: availability over
// strictness.
func RateLimitMiddleware(limiter *service.RateLimiter, limit int, window time.Duration, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := keyFunc(c)

		allowed, retryAfter, err := limiter.Allow(ctx, key, limit, window)
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		remaining, _ := limiter.Remaining(ctx, key, limit, window)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "Too many requests, try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IPBasedKey keys the limiter by client IP, honoring X-Forwarded-For when the
// service sits behind a proxy.
func IPBasedKey(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return c.ClientIP()
}

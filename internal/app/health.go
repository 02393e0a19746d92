package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker pings both backing stores and reports which one failed, so a
// degraded probe points straight at the broken dependency.
type HealthChecker struct {
	infra Infrastructure
}

func NewHealthChecker(infra Infrastructure) *HealthChecker {
	return &HealthChecker{
		infra: infra,
	}
}

type dependencyStatus struct {
	name string
	err  error
}

func (h *HealthChecker) check(ctx context.Context) []dependencyStatus {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	results := make(chan dependencyStatus, 2)

	go func() {
		results <- dependencyStatus{"postgres", h.infra.Postgres().Ping(ctx)}
	}()

	go func() {
		results <- dependencyStatus{"redis", h.infra.Redis().Ping(ctx)}
	}()

	var failed []dependencyStatus
	for i := 0; i < 2; i++ {
		if r := <-results; r.err != nil {
			failed = append(failed, r)
		}
	}

	return failed
}

func (h *HealthChecker) Handler(c *gin.Context) {
	failed := h.check(c.Request.Context())
	if len(failed) > 0 {
		details := gin.H{}
		for _, f := range failed {
			details[f.name] = f.err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "fail",
			"failed": details,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "pass",
	})
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mariakevin/hairtryon-backend/internal/apperr"
	"github.com/mariakevin/hairtryon-backend/internal/dto"
	"go.uber.org/zap"
)

// respondError maps a domain error to its fixed code and status. Anything
// outside the taxonomy is logged and reported as a generic internal error so
// details never leak to clients.
func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr == apperr.ErrInternal {
		zap.L().Error("unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.JSON(appErr.Status, dto.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// abortWithError responds with the mapped error and stops the chain.
func abortWithError(c *gin.Context, err error) {
	respondError(c, err)
	c.Abort()
}

// respondValidationError reports a request binding failure.
func respondValidationError(c *gin.Context, err error) {
	c.JSON(400, dto.ErrorResponse{
		Code:    "VALIDATION_ERROR",
		Message: err.Error(),
	})
}

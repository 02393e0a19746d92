package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mariakevin/hairtryon-backend/internal/apperr"
	"github.com/mariakevin/hairtryon-backend/internal/domain"
	"github.com/mariakevin/hairtryon-backend/internal/dto"
)

// UserHandler handles user profile endpoints
type UserHandler struct{}

// NewUserHandler creates a new user handler
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me handles GET /user/me
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, apperr.ErrNotAuthenticated)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Userpic:   user.Userpic,
		Verified:  user.Verified,
		Credits:   user.Credits,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	})
}

func currentUser(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}

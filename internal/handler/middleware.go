package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mariakevin/hairtryon-backend/internal/apperr"
	"github.com/mariakevin/hairtryon-backend/internal/service"
)

const contextUserKey = "user"

// AuthRequired resolves the account behind the access_token cookie and stores
// it in the request context. Requests without the cookie are rejected before
// any token parsing happens.
func AuthRequired(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken, err := c.Cookie(accessCookieName)
		if err != nil || accessToken == "" {
			abortWithError(c, apperr.ErrNoCookies)
			return
		}

		user, err := auth.CurrentUser(c.Request.Context(), accessToken)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

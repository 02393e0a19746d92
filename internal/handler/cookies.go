package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mariakevin/hairtryon-backend/internal/domain"
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"
	oauthStateCookie  = "oauth_state"
)

// setSessionCookies writes the token pair as httponly cookies. SameSite=Lax
// keeps the cookies off cross-site POSTs while still surviving the redirect
// back from the OAuth consent screen.
func (h *AuthHandler) setSessionCookies(c *gin.Context, pair *domain.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookieName, pair.AccessToken, int(h.accessTTL.Seconds()), "/", "", h.secureCookies, true)
	c.SetCookie(refreshCookieName, pair.RefreshToken, int(h.refreshTTL.Seconds()), "/", "", h.secureCookies, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookieName, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(refreshCookieName, "", -1, "/", "", h.secureCookies, true)
}

package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// cookieWriter sets and clears the auth cookies. Both cookies are httpOnly
// with SameSite Lax; the secure flag comes from configuration.
type cookieWriter struct {
	secure          bool
	accessValidity  time.Duration
	refreshValidity time.Duration
}

func newCookieWriter(secure bool, accessValidity, refreshValidity time.Duration) *cookieWriter {
	return &cookieWriter{
		secure:          secure,
		accessValidity:  accessValidity,
		refreshValidity: refreshValidity,
	}
}

// setAuthCookies stores both tokens, each expiring with its validity window.
func (w *cookieWriter) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	w.setCookie(c, accessTokenCookie, accessToken, int(w.accessValidity.Seconds()))
	w.setCookie(c, refreshTokenCookie, refreshToken, int(w.refreshValidity.Seconds()))
}

// clearAuthCookies removes both cookies from the client.
func (w *cookieWriter) clearAuthCookies(c *gin.Context) {
	w.setCookie(c, accessTokenCookie, "", -1)
	w.setCookie(c, refreshTokenCookie, "", -1)
}

func (w *cookieWriter) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", w.secure, true)
}

// cookieValue reads a cookie, returning "" when it is absent.
func cookieValue(c *gin.Context, name string) string {
	value, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return value
}

package handler

import (
	"net/http"
	"strings"
	"time"

	"fourwheeler-backend/internal/config"
	"fourwheeler-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Cookies writes the session cookies with the configured policy.
type Cookies struct {
	secure   bool
	sameSite http.SameSite
	domain   string
}

func NewCookies(cfg config.CookieConfig) *Cookies {
	return &Cookies{
		secure:   cfg.Secure,
		sameSite: parseSameSite(cfg.SameSite),
		domain:   cfg.Domain,
	}
}

func (k *Cookies) SetAccess(c *gin.Context, token string, ttl time.Duration) {
	k.set(c, middleware.AccessTokenCookie, token, int(ttl.Seconds()))
}

func (k *Cookies) SetRefresh(c *gin.Context, token string, ttl time.Duration) {
	k.set(c, middleware.RefreshTokenCookie, token, int(ttl.Seconds()))
}

func (k *Cookies) Clear(c *gin.Context) {
	k.set(c, middleware.AccessTokenCookie, "", -1)
	k.set(c, middleware.RefreshTokenCookie, "", -1)
}

func (k *Cookies) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(k.sameSite)
	c.SetCookie(name, value, maxAge, "/", k.domain, k.secure, true)
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

package middleware

import (
	"net/http"
	"strings"

	"fourwheeler-backend/pkg/token"
	"fourwheeler-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextEmail    = "email"
	ContextRole     = "role"
	ContextClaims   = "claims"
)

// AuthMiddleware requires a valid access token from the access_token cookie
// or, failing that, the Authorization bearer header. Every failure is a 403.
func AuthMiddleware(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			utils.ErrorResponse(c, http.StatusForbidden, "Access token required")
			c.Abort()
			return
		}

		claims, err := issuer.VerifyAccess(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusForbidden, "Invalid or expired token")
			c.Abort()
			return
		}

		if !setIdentity(c, claims) {
			utils.ErrorResponse(c, http.StatusForbidden, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuthMiddleware attaches the caller's identity when a valid access
// token is present and lets the request through either way.
func OptionalAuthMiddleware(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := extractToken(c); raw != "" {
			if claims, err := issuer.VerifyAccess(raw); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, if any.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetClaims(c *gin.Context) (*token.AccessClaims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.AccessClaims)
	return claims, ok
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func setIdentity(c *gin.Context, claims *token.AccessClaims) bool {
	id, err := claims.Identity()
	if err != nil {
		return false
	}

	c.Set(ContextUserID, id.UserID)
	c.Set(ContextUsername, id.Username)
	c.Set(ContextEmail, id.Email)
	c.Set(ContextRole, id.Role)
	c.Set(ContextClaims, claims)
	return true
}

package adminauth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxAdminToken = "admin_token"

// RequireAdmin rejects requests without a valid admin session token.
func RequireAdmin(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		if !sessions.Valid(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(CtxAdminToken, token)
		c.Next()
	}
}

// ExtractToken extracts the Bearer token from the Authorization header
func ExtractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}

package middleware

import (
	"net/http"
	"strings"

	"maldamingle/config"
	"maldamingle/internal/auth"

	"github.com/gin-gonic/gin"
)

// SessionRequired validates the Bearer session token and sets the session ID
// in the request context.
func SessionRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseSessionToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}

// GetSessionID returns the session ID from context (must be used after
// SessionRequired).
func GetSessionID(c *gin.Context) string {
	v, _ := c.Get("session_id")
	if v == nil {
		return ""
	}
	return v.(string)
}

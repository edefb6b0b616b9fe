package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware returns a gin middleware that validates the
// authorization token from the request header.
// If the token is missing or invalid, it aborts with 401.
// If valid, the handler chain proceeds untouched.
func AuthMiddleware(validToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		if header != validToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Next()
	}
}

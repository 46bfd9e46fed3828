package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"grocery-backend/internal/domain"
)

const userCtxKey = "currentUser"

// authRequired validates the bearer token and stores the resolved user in
// the gin context for downstream handlers.
func authRequired(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		user, err := auth.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(userCtxKey, *user)
		c.Next()
	}
}

// authOptional resolves a bearer token when one is present but lets
// anonymous requests through. Catalog reads use it so admins can see
// inactive products with the same routes.
func authOptional(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			if user, err := auth.Verify(c.Request.Context(), token); err == nil {
				c.Set(userCtxKey, *user)
			}
		}
		c.Next()
	}
}

// requireRole gates a route group to the given roles. It runs after
// authRequired.
func requireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

func currentUser(c *gin.Context) domain.User {
	u, _ := c.Get(userCtxKey)
	user, _ := u.(domain.User)
	return user
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared"
)

// AdminMiddleware checks if the actor has admin role
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := shared.ActorFromContext(c)
		if !ok || !actor.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied: admin role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/shared"
	appjwt "library-backend/pkg/jwt"
)

// AuthMiddleware resolves the bearer token into a shared.Actor.
// Everything downstream receives the actor explicitly; no handler or
// service re-validates credentials itself.
func AuthMiddleware(manager *appjwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(401, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			c.JSON(401, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		memberID, err := uuid.Parse(claims.MemberID)
		if err != nil {
			c.JSON(401, gin.H{"error": "invalid member ID in token"})
			c.Abort()
			return
		}

		shared.SetActor(c, shared.Actor{
			MemberID: memberID,
			Email:    claims.Email,
			Role:     claims.Role,
		})

		c.Next()
	}
}

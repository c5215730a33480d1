package shared

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Member roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Asynq task types
const (
	TypeProcessBookCover = "book:process_cover"
)

// ProcessCoverPayload is the task payload for cover variant generation
type ProcessCoverPayload struct {
	BookID    string `json:"bookId"`
	ObjectKey string `json:"objectKey"`
}

// Actor is the authenticated identity resolved from the session.
// It is set once by the auth middleware and passed explicitly into
// every service call; business logic never reads the session itself.
type Actor struct {
	MemberID uuid.UUID
	Email    string
	Role     string
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

const actorContextKey = "actor"

// SetActor stores the actor in the gin context (auth middleware only)
func SetActor(c *gin.Context, actor Actor) {
	c.Set(actorContextKey, actor)
}

// ActorFromContext reads the actor placed by the auth middleware
func ActorFromContext(c *gin.Context) (Actor, bool) {
	v, exists := c.Get(actorContextKey)
	if !exists {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}

package identity

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RoleAdmin     = "ADMIN"
	RoleSuperUser = "SUPERUSER"
	RoleEmployee  = "EMPLOYEE"
)

// Actor is the caller's identity, resolved once at the HTTP boundary and
// passed explicitly into every workflow method. Workflow code never re-derives
// identity mid-operation.
type Actor struct {
	UserID     uuid.UUID
	Role       string
	Department string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsSuperUser() bool {
	return a.Role == RoleSuperUser
}

func (a Actor) Owns(userID uuid.UUID) bool {
	return a.UserID == userID
}

type contextKey string

const actorKey contextKey = "actor"

const ginActorKey = "actor"

// WithActor stores the actor in a standard context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// FromContext reads the actor from a standard context.
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}

// SetGin stores the actor in the gin context, used by the auth middleware.
func SetGin(c *gin.Context, a Actor) {
	c.Set(ginActorKey, a)
}

// FromGin reads the actor placed by the auth middleware.
func FromGin(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(ginActorKey)
	if !ok {
		return Actor{}, false
	}
	a, ok := v.(Actor)
	return a, ok
}

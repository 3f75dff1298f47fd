package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leaveflow/internal/domain"
	"leaveflow/internal/identity"
)

// RBACService is a local interface. Any package with an
// Enforce(domain.EnforceRequest) method fits, which keeps this package free
// of an rbac import.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := identity.FromGin(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		req := domain.EnforceRequest{
			Role:     actor.Role,
			Resource: resource,
			Action:   action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to access this resource",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

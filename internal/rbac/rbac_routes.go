package rbac

import (
	"github.com/gin-gonic/gin"

	"leaveflow/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", middleware.RBACAuthorize(service, "rbac", "read"), handler.Enforce)
	}
}

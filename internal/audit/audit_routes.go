package audit

import (
	"github.com/gin-gonic/gin"

	"leaveflow/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	logs := r.Group("/audit-logs")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("/:entityType/:entityId", middleware.RBACAuthorize(rbacService, "audit_log", "read"), handler.ListByEntity)
	}
}

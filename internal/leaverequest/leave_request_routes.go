package leaverequest

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"leaveflow/internal/middleware"
	"leaveflow/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	requests.Use(middleware.ContextLogger(zap.L()))
	{
		requests.GET("", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.List)
		requests.GET("/dashboard", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.DashboardStats)
		requests.GET("/export", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.Export)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.GetByID)
		requests.POST("",
			middleware.RBACAuthorize(rbacService, "leave_request", "create"),
			middleware.Idempotency(rdb),
			handler.Create)
		requests.PUT("/:id/status", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.UpdateStatus)
		requests.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave_request", "create"), handler.Cancel)
		requests.POST("/:id/send-for-approval", middleware.RBACAuthorize(rbacService, "leave_request", "create"), handler.SendForApproval)
		requests.POST("/:id/request-revocation", middleware.RBACAuthorize(rbacService, "leave_request", "create"), handler.RequestRevocation)
		requests.POST("/:id/resubmit", middleware.RBACAuthorize(rbacService, "leave_request", "create"), handler.Resubmit)
	}

	// Token links arrive from email clients with no session. The token is the
	// only credential.
	public := r.Group("/public")
	{
		public.POST("/leave-approvals/:token/approve", handler.ProcessApproval(ApprovalActionApprove))
		public.POST("/leave-approvals/:token/reject", handler.ProcessApproval(ApprovalActionReject))
		public.POST("/leave-revocations/:token", handler.ProcessRevocation)
	}
}

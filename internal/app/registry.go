package app

import (
	"database/sql"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"leaveflow/internal/audit"
	"leaveflow/internal/auth"
	"leaveflow/internal/directory"
	"leaveflow/internal/leaverequest"
	"leaveflow/internal/messaging/kafka"
	"leaveflow/internal/notification"
	"leaveflow/internal/rbac"
	"leaveflow/internal/rbac/infra"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	leaveRequestRepo := leaverequest.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	auditRepo := audit.NewRepository(gormDB)

	// --- Directory ---
	userDirectory := directory.NewCachedDirectory(directory.NewGormDirectory(gormDB), rdb)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo)
	relay := notification.NewRelayFromEnv(os.Getenv("APPROVAL_WEBHOOK_URL"), os.Getenv("APPROVAL_WEBHOOK_TOKEN"))
	leaveRequestService := leaverequest.NewService(
		db,
		leaveRequestRepo,
		outboxRepo,
		userDirectory,
		relay,
		publicBaseURL(),
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService)
	auditHandler := audit.NewHandler(auditRepo)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, rbacService, rdb)
		audit.RegisterRoutes(api, auditHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}

func publicBaseURL() string {
	if base := os.Getenv("PUBLIC_BASE_URL"); base != "" {
		return base
	}
	return "http://localhost:8080"
}

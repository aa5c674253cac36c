package app

import (
	"database/sql"
	"path/filepath"

	"go-hrcore/internal/attachment"
	"go-hrcore/internal/config"
	"go-hrcore/internal/employee"
	"go-hrcore/internal/leave"
	"go-hrcore/internal/leavetype"
	"go-hrcore/internal/messaging/kafka"
	"go-hrcore/internal/notification"
	"go-hrcore/internal/quota"
	"go-hrcore/internal/rbac"
	"go-hrcore/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	directory := employee.NewDirectory(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	attachmentRepo := attachment.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	storage, err := attachment.NewDiskStorage(cfg.Storage.Dir)
	if err != nil {
		return err
	}
	attachmentService := attachment.NewService(attachmentRepo, storage)
	dispatcher := notification.NewDispatcher(db, notificationRepo, outboxRepo)
	quotaService := quota.NewService(leaveTypeRepo, directory, leaveRepo, rdb)
	leaveService := leave.NewService(
		leaveRepo,
		leaveTypeRepo,
		directory,
		quotaService,
		rbacService,
		dispatcher,
		attachmentService,
	)

	// --- Handlers ---
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeRepo)
	attachmentHandler := attachment.NewHandler(attachmentService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		leave.RegisterRoutes(api, leaveHandler, rbacService, cfg.Auth.JWTSecret, rdb)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService, cfg.Auth.JWTSecret)
		attachment.RegisterRoutes(api, attachmentHandler, rbacService, cfg.Auth.JWTSecret)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return nil
}

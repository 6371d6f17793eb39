package app

import (
	"database/sql"

	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/ledger"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/middleware"
	"go-hrms/internal/notification"
	"go-hrms/internal/rbac"
	"go-hrms/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB, db)
	ledgerRepo := ledger.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)
	notificationRepo := notification.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(infra.ModelPath())
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	allotment := ledger.DefaultAllotment()
	employeeService := employee.NewService(employeeRepo)
	ledgerService := ledger.NewService(ledgerRepo, rdb, allotment)
	leaveService := leave.NewService(
		db, leaveRepo, ledgerRepo, outboxRepo,
		employeeRepo, rbacService, ledgerService, allotment,
	)
	notificationService := notification.NewService(notificationRepo)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	ledgerHandler := ledger.NewHandler(ledgerService)
	leaveHandler := leave.NewHandler(leaveService, rdb)
	notificationHandler := notification.NewHandler(notificationService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(50, 100))

	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		ledger.RegisterRoutes(api, ledgerHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler)
	}

	return nil
}

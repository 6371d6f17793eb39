package app

import (
	"os"

	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/ledger"
	"go-hrms/internal/notification"
	"go-hrms/internal/rbac"
	"go-hrms/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := migrate(gormDB); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	return registerModules(router, sqlDB, gormDB, redisClient)
}

func migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&employee.Employee{},
		&leave.LeaveRequest{},
		&ledger.BalanceRecord{},
		&notification.Notification{},
		&rbac.RolePermission{},
	); err != nil {
		return err
	}

	// The outbox is accessed through database/sql only, so it is created
	// here rather than through a model.
	return gormDB.Exec(`
CREATE TABLE IF NOT EXISTS notification_outbox (
	id uuid PRIMARY KEY,
	request_id text NOT NULL DEFAULT '',
	aggregate_type text NOT NULL,
	aggregate_id uuid NOT NULL,
	event_type text NOT NULL,
	topic text NOT NULL,
	payload jsonb NOT NULL,
	status text NOT NULL DEFAULT 'pending',
	retry_count int NOT NULL DEFAULT 0,
	next_retry_at timestamptz,
	processed_at timestamptz,
	error_message text,
	created_at timestamptz NOT NULL DEFAULT NOW(),
	updated_at timestamptz NOT NULL DEFAULT NOW()
)
`).Error
}

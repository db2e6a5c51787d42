package app

import (
	"database/sql"
	"path/filepath"

	"go-clubhouse/internal/attendance"
	"go-clubhouse/internal/auditlog"
	"go-clubhouse/internal/messaging/kafka"
	"go-clubhouse/internal/person"
	"go-clubhouse/internal/rbac"
	"go-clubhouse/internal/rbac/infra"
	"go-clubhouse/internal/register"

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
	attendanceRepo := attendance.NewRepository(gormDB)
	auditRepo := auditlog.NewRepository(gormDB)
	personRepo := person.NewRepository(gormDB)
	registerRepo := register.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return err
	}

	// --- Services ---
	auditRecorder := auditlog.NewRecorder(auditRepo)
	attendanceService := attendance.NewServiceWithOutbox(db, attendanceRepo, personRepo, auditRecorder, outboxRepo)
	registerService := register.NewService(registerRepo, rdb)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	auditHandler := auditlog.NewHandler(auditRepo)
	registerHandler := register.NewHandler(registerService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		auditlog.RegisterRoutes(api, auditHandler, rbacService)
		register.RegisterRoutes(api, registerHandler, rbacService)
	}

	return nil
}

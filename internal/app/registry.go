package app

import (
	"database/sql"

	"github.com/aanyashri/hrmsbackend-users/internal/attendance"
	"github.com/aanyashri/hrmsbackend-users/internal/employee"
	"github.com/aanyashri/hrmsbackend-users/internal/holiday"
	"github.com/aanyashri/hrmsbackend-users/internal/leave"
	"github.com/aanyashri/hrmsbackend-users/internal/messaging/kafka"
	"github.com/aanyashri/hrmsbackend-users/internal/middleware"
	"github.com/aanyashri/hrmsbackend-users/internal/notification"
	"github.com/aanyashri/hrmsbackend-users/internal/report"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, counterRepo, rdb)
	attendanceService := attendance.NewService(db, attendanceRepo, employeeRepo)
	notificationService := notification.NewService(db, notificationRepo, employeeRepo, counterRepo, outboxRepo)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, attendanceRepo, notificationService)
	holidayService := holiday.NewService(holidayRepo)
	reportService := report.NewService(reportRepo)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	leaveHandler := leave.NewHandler(leaveService)
	notificationHandler := notification.NewHandler(notificationService)
	holidayHandler := holiday.NewHandler(holidayService)
	reportHandler := report.NewHandler(reportService)

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler)
		attendance.RegisterRoutes(api, attendanceHandler)
		leave.RegisterRoutes(api, leaveHandler)
		notification.RegisterRoutes(api, notificationHandler)
		holiday.RegisterRoutes(api, holidayHandler)
		report.RegisterRoutes(api, reportHandler)
	}

	return nil
}

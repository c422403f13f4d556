package report

import (
	"github.com/aanyashri/hrmsbackend-users/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin", "hr"))
	{
		reports.GET("/attendance/daily", h.DailyStats)
		reports.GET("/attendance/log", h.AttendanceLog)
	}
}

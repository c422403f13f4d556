package attendance

import (
	"github.com/aanyashri/hrmsbackend-users/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	attendance := r.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware())
	{
		attendance.POST("/check-in", h.CheckIn)
		attendance.POST("/check-out", h.CheckOut)
		attendance.GET("", h.GetRecords)
		attendance.GET("/summary", h.GetSummary)
		attendance.GET("/stats", h.GetStats)
	}
}

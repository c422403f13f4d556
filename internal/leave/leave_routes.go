package leave

import (
	"github.com/aanyashri/hrmsbackend-users/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", h.Apply)
		leaves.GET("", h.GetMyRequests)
		leaves.GET("/balance", h.GetBalance)
		leaves.GET("/calendar", h.GetCalendar)
		leaves.PATCH("/:id/cancel", h.Cancel)

		admin := leaves.Group("")
		admin.Use(middleware.RequireRole("admin", "hr"))
		{
			admin.GET("/all", h.GetAllRequests)
			admin.GET("/statistics", h.GetStatistics)
			admin.GET("/calendar/company", h.GetCompanyCalendar)
			admin.POST("/:id/approve", h.Approve)
			admin.POST("/:id/reject", h.Reject)
		}
	}
}

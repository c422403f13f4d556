package notification

import (
	"github.com/aanyashri/hrmsbackend-users/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", h.GetMy)
		notifications.PATCH("/read-all", h.MarkAllRead)
		notifications.PATCH("/:id/read", h.MarkRead)
		notifications.DELETE("/:id", h.Delete)

		admin := notifications.Group("")
		admin.Use(middleware.RequireRole("admin", "hr"))
		{
			admin.POST("/broadcast", h.Broadcast)
		}
	}
}

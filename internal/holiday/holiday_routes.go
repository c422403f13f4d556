package holiday

import (
	"github.com/aanyashri/hrmsbackend-users/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", h.GetAll)

		admin := holidays.Group("")
		admin.Use(middleware.RequireRole("admin", "hr"))
		{
			admin.POST("", h.Create)
		}
	}
}

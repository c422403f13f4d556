package employee

import (
	"github.com/aanyashri/hrmsbackend-users/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("/options", h.GetOptions)

		admin := employees.Group("")
		admin.Use(middleware.RequireRole("admin", "hr"))
		{
			admin.GET("", h.GetAll)
			admin.GET("/:id", h.GetByNumber)
			admin.POST("", h.Create)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Deactivate)
		}
	}
}

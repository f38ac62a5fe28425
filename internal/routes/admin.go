package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/handlers"
	"github.com/pushp314/coursehub-backend/internal/middleware"
)

func RegisterAdminRoutes(r gin.IRouter, h *handlers.Handler) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(h.Repo(), h.Cache()), middleware.AdminMiddleware())

	admin.GET("/settings", h.AdminGetSystemSettings)
	admin.PUT("/settings/:key", h.AdminUpdateSystemSetting)
}

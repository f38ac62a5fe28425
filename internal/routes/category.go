package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/handlers"
	"github.com/pushp314/coursehub-backend/internal/middleware"
)

func RegisterCategoryRoutes(r gin.IRouter, h *handlers.Handler) {
	categories := r.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.POST("", middleware.AuthMiddleware(h.Repo(), h.Cache()), middleware.AdminMiddleware(), h.CreateCategory)
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/handlers"
	"github.com/pushp314/coursehub-backend/internal/middleware"
)

func RegisterUploadRoutes(r gin.IRouter, h *handlers.Handler) {
	r.POST("/uploads", middleware.AuthMiddleware(h.Repo(), h.Cache()), middleware.UploadRateLimit(), h.UploadFile)
}

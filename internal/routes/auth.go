package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/handlers"
	"github.com/pushp314/coursehub-backend/internal/middleware"
)

func RegisterAuthRoutes(r gin.IRouter, h *handlers.Handler) {
	auth := middleware.AuthMiddleware(h.Repo(), h.Cache())

	r.POST("/register", middleware.RequireRegistrationOpen(h.Repo()), h.Register)
	r.POST("/login", h.Login)
	// Logout needs the verified claims to revoke the token
	r.POST("/logout", auth, h.Logout)
	r.GET("/me", auth, h.Me)

	// OAuth
	r.GET("/google/login", h.GoogleLogin)
	r.GET("/google/callback", h.GoogleCallback)

	r.GET("/github/login", h.GithubLogin)
	r.GET("/github/callback", h.GithubCallback)
}

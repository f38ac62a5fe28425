package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/database"
	"github.com/pushp314/coursehub-backend/internal/handlers"
	"github.com/pushp314/coursehub-backend/internal/middleware"
)

// Setup builds the engine with the global middleware chain and every API route.
func Setup(h *handlers.Handler) *gin.Engine {
	cfg := h.Config()

	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.SecurityHeaders(cfg.Env == "production"))
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL))
	r.Use(middleware.GeneralRateLimit())

	api := r.Group("/api")
	{
		// Auth routes skip the maintenance check so admins can still sign in
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		RegisterAuthRoutes(auth, h)

		api.GET("/system/status", h.PublicGetSystemStatus)

		// Signed by Razorpay; no user token and no maintenance check
		api.POST("/payments/webhook", h.RazorpayWebhook)

		// Admin routes bypass maintenance
		RegisterAdminRoutes(api, h)

		protected := api.Group("")
		protected.Use(middleware.OptionalAuthMiddleware(h.Cache()), middleware.MaintenanceMode(h.Repo()))

		RegisterCategoryRoutes(protected, h)
		RegisterCourseRoutes(protected, h)
		RegisterPaymentRoutes(protected, h)
		RegisterUploadRoutes(protected, h)
	}

	r.GET("/health", func(c *gin.Context) { health(c, h) })
	return r
}

func health(c *gin.Context, h *handlers.Handler) {
	dbStatus := "ok"
	if err := database.Ping(h.Repo().DB()); err != nil {
		dbStatus = "error"
	}

	redisStatus := "not configured"
	if h.Cache().Enabled() {
		redisStatus = "ok"
		if err := h.Cache().Ping(c.Request.Context()); err != nil {
			redisStatus = "error"
		}
	}

	status := "ok"
	code := http.StatusOK
	if dbStatus != "ok" {
		status = "unavailable"
		code = http.StatusServiceUnavailable
	} else if redisStatus == "error" {
		status = "degraded"
	}

	c.JSON(code, gin.H{
		"status": status,
		"checks": gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/handlers"
	"github.com/pushp314/coursehub-backend/internal/middleware"
)

func RegisterPaymentRoutes(r gin.IRouter, h *handlers.Handler) {
	payment := r.Group("/payments")
	payment.Use(
		middleware.AuthMiddleware(h.Repo(), h.Cache()),
		middleware.PaymentRateLimit(),
		middleware.RequireEnrollmentOpen(h.Repo()),
	)
	{
		payment.POST("/order", h.CreateOrder)
		payment.POST("/verify", h.VerifyPayment)
	}
}

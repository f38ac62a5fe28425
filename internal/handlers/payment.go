package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/payments"
	"github.com/pushp314/coursehub-backend/internal/services"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/logger"
)

const maxWebhookBody = 1 << 20

type CreateOrderInput struct {
	CourseID string `json:"courseId" binding:"required"`
}

// CreateOrder opens a Razorpay order for a paid course.
func (h *Handler) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if !bindJSON(c, &input) {
		return
	}

	order, err := h.svc.Checkout.CreateOrder(c.Request.Context(), userID(c), input.CourseID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// VerifyPayment is called by the frontend with the checkout widget's response.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var input services.PaymentConfirmation
	if !bindJSON(c, &input) {
		return
	}

	purchase, err := h.svc.Checkout.VerifyPayment(c.Request.Context(), userID(c), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment verified", "purchase": purchase})
}

// RazorpayWebhook receives asynchronous payment events. Razorpay retries on any non-2xx.
func (h *Handler) RazorpayWebhook(c *gin.Context) {
	secret := h.cfg.RazorpayWebhookSecret
	if secret == "" {
		_ = c.Error(apperrors.Unavailable("Webhook not configured", nil))
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		_ = c.Error(apperrors.BadRequest("Failed to read body"))
		return
	}
	if !payments.VerifyWebhookSignature(secret, body, c.GetHeader("X-Razorpay-Signature")) {
		logger.Warn().Str("ip", c.ClientIP()).Msg("Webhook signature mismatch")
		_ = c.Error(apperrors.BadRequest("Invalid signature"))
		return
	}

	event, err := payments.ParseWebhookEvent(body)
	if err != nil {
		_ = c.Error(apperrors.BadRequest("Invalid webhook payload"))
		return
	}

	if err := h.svc.Checkout.HandleWebhookEvent(c.Request.Context(), event); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

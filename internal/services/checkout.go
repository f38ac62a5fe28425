package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/payments"
	"github.com/pushp314/coursehub-backend/internal/repository"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/logger"
	"github.com/pushp314/coursehub-backend/pkg/utils"
)

// PaymentGateway is the payment provider used at checkout.
type PaymentGateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*payments.Order, error)
	FetchOrder(ctx context.Context, orderID string) (*payments.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// CheckoutOrder is returned to the browser to open the payment widget.
type CheckoutOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
	CourseID string `json:"courseId"`
}

type Checkout struct {
	repo     *repository.Repository
	gateway  PaymentGateway
	currency string
}

func NewCheckout(repo *repository.Repository, gateway PaymentGateway, currency string) *Checkout {
	if currency == "" {
		currency = "INR"
	}
	return &Checkout{repo: repo, gateway: gateway, currency: strings.ToUpper(currency)}
}

func (c *Checkout) configured() error {
	if c.gateway == nil {
		return apperrors.Unavailable("Payment gateway not configured", nil)
	}
	return nil
}

// payableCourse loads a published paid course the user does not own yet.
func (c *Checkout) payableCourse(ctx context.Context, userID, courseID string) (*models.Course, error) {
	course, err := c.repo.FindCourse(ctx, courseID)
	if err != nil {
		return nil, storeError(err, "Course not found")
	}
	if !course.IsPublished {
		return nil, apperrors.NotFound("Course not found")
	}
	if course.Price == nil || *course.Price <= 0 {
		return nil, apperrors.BadRequest("Course is free, no payment needed")
	}

	purchase, err := c.repo.FindPurchase(ctx, userID, courseID)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to load purchase", err)
	}
	if purchase != nil {
		return nil, apperrors.Conflict("Already purchased")
	}
	return course, nil
}

func (c *Checkout) CreateOrder(ctx context.Context, userID, courseID string) (*CheckoutOrder, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	course, err := c.payableCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	amount := utils.ToMinorUnits(*course.Price)
	// Razorpay caps receipts at 40 characters
	receipt := "rcpt_" + strings.ReplaceAll(utils.GenerateID(), "-", "")[:8]
	order, err := c.gateway.CreateOrder(ctx, amount, c.currency, receipt, map[string]string{
		"courseId": courseID,
		"userId":   userID,
	})
	if err != nil {
		return nil, apperrors.Unavailable("Failed to create order", err)
	}

	logger.Info().Str("order_id", order.ID).Str("course_id", courseID).Str("user_id", userID).
		Int64("amount", amount).Msg("Payment order created")

	return &CheckoutOrder{
		OrderID:  order.ID,
		Amount:   amount,
		Currency: c.currency,
		KeyID:    c.gateway.KeyID(),
		CourseID: courseID,
	}, nil
}

// PaymentConfirmation is the browser callback after a successful payment.
type PaymentConfirmation struct {
	CourseID  string `json:"courseId" binding:"required"`
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// VerifyPayment checks the gateway signature and that the order was issued for this
// user and course, then records the purchase. Repeating a verification is harmless.
func (c *Checkout) VerifyPayment(ctx context.Context, userID string, in PaymentConfirmation) (*models.Purchase, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	if !c.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		return nil, apperrors.BadRequest("Invalid signature")
	}

	order, err := c.gateway.FetchOrder(ctx, in.OrderID)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to fetch order", err)
	}
	if order.Notes["courseId"] != in.CourseID || order.Notes["userId"] != userID {
		return nil, apperrors.BadRequest("Order does not match course")
	}

	return c.fulfil(ctx, userID, in.CourseID, in.PaymentID)
}

// fulfil records the purchase for a settled order and returns it.
func (c *Checkout) fulfil(ctx context.Context, userID, courseID, paymentID string) (*models.Purchase, error) {
	created, err := recordPurchase(ctx, c.repo, &models.Purchase{
		ID:        utils.GenerateID(),
		UserID:    userID,
		CourseID:  courseID,
		PaymentID: paymentID,
	})
	if err != nil {
		return nil, storeError(err, "Course not found")
	}
	if created {
		logger.Info().Str("payment_id", paymentID).Str("course_id", courseID).Str("user_id", userID).
			Msg("Course purchased")
	}

	purchase, err := c.repo.FindPurchase(ctx, userID, courseID)
	if err != nil || purchase == nil {
		return nil, apperrors.Unavailable("Failed to load purchase", err)
	}
	return purchase, nil
}

// HandleWebhookEvent settles orders whose buyer never returned to the verify callback.
// Events other than a capture are ignored. The event must already be signature-checked.
func (c *Checkout) HandleWebhookEvent(ctx context.Context, event *payments.WebhookEvent) error {
	if err := c.configured(); err != nil {
		return err
	}
	if !event.Captured() {
		return nil
	}
	if event.OrderID == "" {
		return apperrors.BadRequest("Webhook without order")
	}

	order, err := c.gateway.FetchOrder(ctx, event.OrderID)
	if err != nil {
		return apperrors.Unavailable("Failed to fetch order", err)
	}
	courseID, userID := order.Notes["courseId"], order.Notes["userId"]
	if courseID == "" || userID == "" {
		// Not a course order
		logger.Warn().Str("order_id", order.ID).Str("event", event.Event).Msg("Webhook order without course notes")
		return nil
	}

	_, err = c.fulfil(ctx, userID, courseID, event.PaymentID)
	if appErr, ok := apperrors.As(err); ok && appErr.Code == http.StatusNotFound {
		// The course was deleted after checkout. Acknowledge so the gateway stops retrying.
		logger.Warn().Str("order_id", order.ID).Str("payment_id", event.PaymentID).
			Str("course_id", courseID).Str("user_id", userID).Msg("Webhook for a deleted course")
		return nil
	}
	return err
}

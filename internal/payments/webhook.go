package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Webhook events that mean money was captured for an order.
const (
	EventPaymentCaptured = "payment.captured"
	EventOrderPaid       = "order.paid"
)

// WebhookEvent is the part of a Razorpay webhook the checkout flow reads.
type WebhookEvent struct {
	Event     string
	PaymentID string
	OrderID   string
}

// Captured reports whether the event settles an order.
func (e *WebhookEvent) Captured() bool {
	return e.Event == EventPaymentCaptured || e.Event == EventOrderPaid
}

// VerifyWebhookSignature checks X-Razorpay-Signature: HMAC-SHA256 of the raw body keyed
// with the webhook secret (not the API secret), hex encoded.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("razorpay: decode webhook: %w", err)
	}
	if p.Event == "" {
		return nil, fmt.Errorf("razorpay: webhook without event")
	}

	event := &WebhookEvent{
		Event:     p.Event,
		PaymentID: p.Payload.Payment.Entity.ID,
		OrderID:   p.Payload.Payment.Entity.OrderID,
	}
	if event.OrderID == "" {
		event.OrderID = p.Payload.Order.Entity.ID
	}
	return event, nil
}

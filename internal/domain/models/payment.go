package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is the one-to-one settlement record of a booking. Amount always
// equals the booking total at creation time.
type Payment struct {
	ID            int64           `json:"id"`
	BookingID     int64           `json:"booking_id"`
	TransactionID string          `json:"transaction_id"`
	Method        string          `json:"method"` // card, wallet, paypal
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        PaymentStatus   `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	RefundedAt    *time.Time      `json:"refunded_at,omitempty"`
}

// NormalizePaymentMethod maps caller input onto the supported methods,
// defaulting to card.
func NormalizePaymentMethod(m string) string {
	switch strings.ToLower(strings.TrimSpace(m)) {
	case "wallet":
		return "wallet"
	case "paypal":
		return "paypal"
	default:
		return "card"
	}
}

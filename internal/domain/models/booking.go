package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingRefunded   BookingStatus = "refunded"
)

// BookingStatuses lists every known status, useful for validation and tests.
var BookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
	BookingRefunded,
}

func (s BookingStatus) Valid() bool {
	for _, known := range BookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal statuses never transition again.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled || s == BookingRefunded
}

// Booking is the central reservation record. It is created only by the
// booking writer and mutated only through lifecycle transitions; cancelled
// bookings are retained for audit, never deleted.
type Booking struct {
	ID            int64  `json:"id"`
	BookingNumber string `json:"booking_number"`
	UserID        int64  `json:"user_id"`
	TourID        int64  `json:"tour_id"`
	AgencyID      int64  `json:"agency_id"`

	BookingDate    string `json:"booking_date"`           // YYYY-MM-DD
	BookingTime    string `json:"booking_time,omitempty"` // HH:MM, optional
	NumberOfPeople int    `json:"number_of_people"`

	PricePerPerson decimal.Decimal `json:"price_per_person"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Tax            decimal.Decimal `json:"tax"`
	TotalPrice     decimal.Decimal `json:"total_price"`

	// Contact snapshot captured at booking time, decoupled from the
	// live customer profile.
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	SpecialRequirements string `json:"special_requirements,omitempty"`

	Status             BookingStatus `json:"status"`
	ConfirmedAt        *time.Time    `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`

	// HasReview is a read-side projection used by CanBeReviewed.
	HasReview bool `json:"has_review"`

	CreatedAt time.Time `json:"created_at"`
}

func (b Booking) IsPending() bool   { return b.Status == BookingPending }
func (b Booking) IsConfirmed() bool { return b.Status == BookingConfirmed }
func (b Booking) IsCancelled() bool { return b.Status == BookingCancelled }

// CanBeCancelled reports whether the booking may still be cancelled: only
// pending or confirmed bookings whose date is strictly in the future.
func (b Booking) CanBeCancelled(now time.Time) bool {
	if b.Status != BookingPending && b.Status != BookingConfirmed {
		return false
	}
	date, err := time.ParseInLocation("2006-01-02", b.BookingDate, now.Location())
	if err != nil {
		return false
	}
	return date.After(now)
}

// CanBeReviewed is true only for completed bookings without a review yet.
func (b Booking) CanBeReviewed() bool {
	return b.Status == BookingCompleted && !b.HasReview
}

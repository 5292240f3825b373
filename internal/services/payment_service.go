package services

import (
	"context"
	"strconv"

	"bookandgo/internal/domain"
	"bookandgo/internal/domain/models"
	"bookandgo/internal/repositories"
	"bookandgo/internal/utils"
)

// PaymentService is the callback surface for the payment collaborator.
// Capture confirmations arrive here and drive the booking to confirmed.
type PaymentService struct {
	Payments  repositories.PaymentRepository
	Bookings  BookingService
	RequestID string
}

// ConfirmCapture marks the payment completed and transitions the booking
// from pending to confirmed. The booking lifecycle is consulted before any
// payment write: a capture landing on a cancelled or otherwise closed
// booking is rejected and no money is taken. Re-delivery of a capture
// confirmation is a safe no-op.
func (s PaymentService) ConfirmCapture(ctx context.Context, paymentID int64) (models.Booking, []domain.Intent, error) {
	payment, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return models.Booking{}, nil, err
	}

	booking, err := s.Bookings.Bookings.GetByID(ctx, payment.BookingID)
	if err != nil {
		return models.Booking{}, nil, err
	}
	if booking.Status != models.BookingPending && booking.Status != models.BookingConfirmed {
		return models.Booking{}, nil, domain.ConflictError{
			Resource: "payment",
			Msg:      "cannot capture payment for a " + string(booking.Status) + " booking",
		}
	}

	if err := s.Payments.MarkCompleted(ctx, payment.BookingID); err != nil {
		return models.Booking{}, nil, err
	}
	utils.LogEvent(s.RequestID, "payment", "capture",
		"transaction_id="+payment.TransactionID+" booking_id="+strconv.FormatInt(payment.BookingID, 10))

	if booking.Status == models.BookingConfirmed {
		return booking, nil, nil
	}

	actor := domain.Actor{Role: domain.RoleSystem}
	return s.Bookings.Transition(ctx, actor, booking.ID, models.BookingConfirmed, "")
}

// Refund settles the payment record after the collaborator executed a
// RefundPayment intent. Idempotent for already-refunded payments.
func (s PaymentService) Refund(ctx context.Context, bookingID int64) error {
	if err := s.Payments.MarkRefunded(ctx, bookingID); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "payment", "refund", "booking_id="+strconv.FormatInt(bookingID, 10))
	return nil
}

// Get returns a payment record, enforcing the booking view guard.
func (s PaymentService) Get(ctx context.Context, actor domain.Actor, paymentID int64) (models.Payment, error) {
	payment, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return models.Payment{}, err
	}
	booking, err := s.Bookings.Bookings.GetByID(ctx, payment.BookingID)
	if err != nil {
		return models.Payment{}, err
	}
	if err := domain.Authorize(actor, booking, domain.ActionView); err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

package services

import (
	"context"
	"strconv"

	"bookandgo/internal/domain"
	"bookandgo/internal/repositories"
	"bookandgo/internal/utils"
)

// PaymentCollaborator executes payment-side intents. Implementations must
// be idempotent; intents can be re-dispatched.
type PaymentCollaborator interface {
	Capture(ctx context.Context, bookingID int64) error
	Refund(ctx context.Context, bookingID int64) error
}

// Notifier delivers customer notifications. Fire and forget: a failed
// notification never affects the booking state.
type Notifier interface {
	Notify(ctx context.Context, bookingID int64, event string) error
}

// IntentDispatcher executes the side-effect intents returned by the booking
// core after the state change has been committed.
type IntentDispatcher struct {
	Gateway   PaymentCollaborator
	Notifier  Notifier
	RequestID string
}

func (d IntentDispatcher) Dispatch(ctx context.Context, intents []domain.Intent) {
	for _, intent := range intents {
		var err error
		switch intent.Type {
		case domain.IntentCapturePayment:
			if d.Gateway != nil {
				err = d.Gateway.Capture(ctx, intent.BookingID)
			}
		case domain.IntentRefundPayment:
			if d.Gateway != nil {
				err = d.Gateway.Refund(ctx, intent.BookingID)
			}
		case domain.IntentNotifyCustomer:
			if d.Notifier != nil {
				err = d.Notifier.Notify(ctx, intent.BookingID, intent.Event)
			}
		}
		if err != nil {
			utils.LogEvent(d.RequestID, "intent", string(intent.Type),
				"booking_id="+strconv.FormatInt(intent.BookingID, 10)+" error: "+err.Error())
		}
	}
}

// SimulatedGateway settles payments instantly against the local payment
// records. It stands in for a real card/wallet/PayPal processor.
type SimulatedGateway struct {
	Payments  repositories.PaymentRepository
	RequestID string
}

func (g SimulatedGateway) Capture(ctx context.Context, bookingID int64) error {
	return g.Payments.MarkCompleted(ctx, bookingID)
}

func (g SimulatedGateway) Refund(ctx context.Context, bookingID int64) error {
	return g.Payments.MarkRefunded(ctx, bookingID)
}

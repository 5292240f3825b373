package domain

import (
	"strings"
	"time"

	"bookandgo/internal/domain/models"
)

// IntentType names a side effect an external collaborator must perform.
// The state machine never calls out itself; it returns intents and the
// orchestrating caller executes them after the transition is committed.
type IntentType string

const (
	IntentCapturePayment IntentType = "capture_payment"
	IntentRefundPayment  IntentType = "refund_payment"
	IntentNotifyCustomer IntentType = "notify_customer"
)

type Intent struct {
	Type      IntentType `json:"type"`
	BookingID int64      `json:"booking_id"`
	Event     string     `json:"event,omitempty"` // notify intents only
}

func CaptureIntent(bookingID int64) Intent {
	return Intent{Type: IntentCapturePayment, BookingID: bookingID}
}

func RefundIntent(bookingID int64) Intent {
	return Intent{Type: IntentRefundPayment, BookingID: bookingID}
}

func NotifyIntent(bookingID int64, event string) Intent {
	return Intent{Type: IntentNotifyCustomer, BookingID: bookingID, Event: event}
}

// Action names an operation subject to the authorization guard.
type Action string

const (
	ActionView     Action = "view"
	ActionCancel   Action = "cancel"
	ActionConfirm  Action = "confirm"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionRefund   Action = "refund"
)

// Authorize is the single authorization guard for booking operations,
// replacing per-endpoint ownership checks.
func Authorize(actor Actor, b models.Booking, action Action) error {
	if actor.Role == RoleAdmin {
		return nil
	}

	customerOwner := actor.Role == RoleCustomer && actor.UserID == b.UserID
	agencyOwner := actor.Role == RoleAgency && actor.AgencyID == b.AgencyID

	allowed := false
	switch action {
	case ActionView:
		allowed = customerOwner || agencyOwner
	case ActionCancel:
		allowed = customerOwner || agencyOwner
	case ActionConfirm, ActionStart, ActionComplete:
		allowed = agencyOwner || actor.Role == RoleSystem
	case ActionRefund:
		allowed = agencyOwner
	}

	if !allowed {
		return PermissionError{Action: string(action)}
	}
	return nil
}

// legalTransitions is the full lifecycle table. Anything absent here fails
// with TransitionError before any guard runs.
var legalTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:    {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed:  {models.BookingInProgress, models.BookingCancelled, models.BookingRefunded},
	models.BookingInProgress: {models.BookingCompleted},
	models.BookingCompleted:  {models.BookingRefunded},
}

func transitionAllowed(from, to models.BookingStatus) bool {
	for _, t := range legalTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

type TransitionRequest struct {
	Target models.BookingStatus
	Actor  Actor
	Reason string
	Now    time.Time
}

// TransitionResult describes the state change to persist plus the side
// effects the caller must dispatch once the change is committed.
type TransitionResult struct {
	Status             models.BookingStatus
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
	Intents            []Intent
}

// Transition evaluates a lifecycle change against the legal table, the
// authorization guard and the per-transition business guards. It is pure:
// persistence and side effects are left to the caller.
func Transition(b models.Booking, payment models.Payment, req TransitionRequest) (TransitionResult, error) {
	if !req.Target.Valid() {
		return TransitionResult{}, ValidationError{Field: "status", Msg: "unknown status " + string(req.Target)}
	}
	if !transitionAllowed(b.Status, req.Target) {
		return TransitionResult{}, TransitionError{From: string(b.Status), To: string(req.Target)}
	}

	now := req.Now
	res := TransitionResult{Status: req.Target}

	switch req.Target {
	case models.BookingConfirmed:
		if err := Authorize(req.Actor, b, ActionConfirm); err != nil {
			return TransitionResult{}, err
		}
		// Payment capture drives confirmation, not the reverse.
		if payment.Status != models.PaymentCompleted {
			return TransitionResult{}, ConflictError{Resource: "payment", Msg: "payment has not been captured yet"}
		}
		res.ConfirmedAt = &now
		res.Intents = append(res.Intents, NotifyIntent(b.ID, "booking_confirmed"))

	case models.BookingCancelled:
		if err := Authorize(req.Actor, b, ActionCancel); err != nil {
			return TransitionResult{}, err
		}
		if strings.TrimSpace(req.Reason) == "" {
			return TransitionResult{}, ValidationError{Field: "reason", Msg: "cancellation reason is required"}
		}
		if !b.CanBeCancelled(now) {
			return TransitionResult{}, ValidationError{Field: "booking_date", Msg: "booking can no longer be cancelled"}
		}
		res.CancelledAt = &now
		res.CancellationReason = strings.TrimSpace(req.Reason)
		if payment.Status == models.PaymentCompleted {
			res.Intents = append(res.Intents, RefundIntent(b.ID))
		}
		res.Intents = append(res.Intents, NotifyIntent(b.ID, "booking_cancelled"))

	case models.BookingInProgress:
		if err := Authorize(req.Actor, b, ActionStart); err != nil {
			return TransitionResult{}, err
		}
		date, err := time.ParseInLocation(dateLayout, b.BookingDate, now.Location())
		if err != nil || now.Before(date) {
			return TransitionResult{}, ValidationError{Field: "booking_date", Msg: "tour has not started yet"}
		}

	case models.BookingCompleted:
		if err := Authorize(req.Actor, b, ActionComplete); err != nil {
			return TransitionResult{}, err
		}
		// The schema carries no tour duration, so the booking date is the
		// only temporal anchor for completion.
		date, err := time.ParseInLocation(dateLayout, b.BookingDate, now.Location())
		if err != nil || now.Before(date) {
			return TransitionResult{}, ValidationError{Field: "booking_date", Msg: "tour has not taken place yet"}
		}
		res.Intents = append(res.Intents, NotifyIntent(b.ID, "booking_completed"))

	case models.BookingRefunded:
		if err := Authorize(req.Actor, b, ActionRefund); err != nil {
			return TransitionResult{}, err
		}
		if payment.Status != models.PaymentCompleted {
			return TransitionResult{}, ConflictError{Resource: "payment", Msg: "only captured payments can be refunded"}
		}
		res.CancelledAt = &now
		res.CancellationReason = strings.TrimSpace(req.Reason)
		res.Intents = append(res.Intents, RefundIntent(b.ID), NotifyIntent(b.ID, "booking_refunded"))

	default:
		// pending is never a target; it is assigned at creation only.
		return TransitionResult{}, TransitionError{From: string(b.Status), To: string(req.Target)}
	}

	return res, nil
}

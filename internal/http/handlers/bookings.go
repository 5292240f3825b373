package handlers

import (
	"net/http"
	"strings"
	"time"

	"bookandgo/internal/domain"
	"bookandgo/internal/domain/models"
	"bookandgo/internal/http/middleware"
	"bookandgo/internal/services"

	"github.com/gin-gonic/gin"
)

// CreateBooking reserves a tour slot. The reservation itself commits
// atomically; payment capture and customer notification run afterwards as
// dispatched side effects.
func CreateBooking(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var in services.CreateBookingInput
	if !bindJSON(c, &in) {
		return
	}

	svc := newBookingService(c)
	res, err := svc.CreateBooking(c.Request.Context(), actor, in)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	newDispatcher(c).Dispatch(c.Request.Context(), res.Intents)

	c.JSON(http.StatusCreated, gin.H{
		"message": "booking created",
		"booking": res.Booking,
		"payment": res.Payment,
	})
}

// GetBookings lists bookings scoped to the caller's role.
func GetBookings(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	perPage := queryInt(c, "per_page", 15)
	if perPage > 100 {
		// Keep the echoed pagination in sync with what the query will use.
		perPage = 15
	}

	in := services.ListBookingsInput{
		Status:   c.Query("status"),
		Upcoming: queryBool(c, "upcoming"),
		Past:     queryBool(c, "past"),
		Page:     queryInt(c, "page", 1),
		PerPage:  perPage,
	}

	svc := newBookingService(c)
	bookings, total, err := svc.List(c.Request.Context(), actor, in)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": bookings,
		"pagination": domain.Pagination{
			Page:    in.Page,
			PerPage: in.PerPage,
			Total:   total,
		},
	})
}

// GetBookingByID returns one booking with its payment and the derived
// capability flags the frontend renders buttons from.
func GetBookingByID(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	svc := newBookingService(c)
	booking, payment, err := svc.Get(c.Request.Context(), actor, id)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":          booking,
		"payment":          payment,
		"can_be_cancelled": booking.CanBeCancelled(time.Now()),
		"can_be_reviewed":  booking.CanBeReviewed(),
	})
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBooking moves the booking to cancelled. Requires a reason; refund
// and notification intents are dispatched after the commit.
func CancelBooking(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req cancelBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	applyTransition(c, actor, id, models.BookingCancelled, req.Reason)
}

// ConfirmBooking moves the booking from pending to confirmed. Agency and
// admin callers only; the payment must already be captured.
func ConfirmBooking(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	applyTransition(c, actor, id, models.BookingConfirmed, "")
}

type transitionRequest struct {
	TargetStatus string `json:"target_status"`
	Reason       string `json:"reason"`
}

// TransitionBooking is the generic lifecycle endpoint for the remaining
// target statuses (in_progress, completed, refunded).
func TransitionBooking(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req transitionRequest
	if !bindJSON(c, &req) {
		return
	}

	target := models.BookingStatus(strings.ToLower(strings.TrimSpace(req.TargetStatus)))
	if !target.Valid() {
		RespondDomainError(c, middleware.GetRequestID(c),
			domain.ValidationError{Field: "target_status", Msg: "unknown status " + req.TargetStatus})
		return
	}

	applyTransition(c, actor, id, target, req.Reason)
}

func applyTransition(c *gin.Context, actor domain.Actor, id int64, target models.BookingStatus, reason string) {
	svc := newBookingService(c)
	booking, intents, err := svc.Transition(c.Request.Context(), actor, id, target, reason)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	newDispatcher(c).Dispatch(c.Request.Context(), intents)

	c.JSON(http.StatusOK, gin.H{
		"message": "booking " + string(target),
		"booking": booking,
	})
}

// GetBookingInvoice streams the booking invoice as a PDF download.
func GetBookingInvoice(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	svc := services.DocsService{
		Bookings:  newBookingService(c),
		RequestID: middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.BookingInvoice(c.Request.Context(), actor, id)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

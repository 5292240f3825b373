package handlers

import (
	"net/http"

	"bookandgo/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ConfirmPayment is the capture callback. The caller must be allowed to see
// the payment; the confirmation itself runs with system authority and drives
// the booking from pending to confirmed.
func ConfirmPayment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	svc := newPaymentService(c)
	if _, err := svc.Get(c.Request.Context(), actor, id); err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	booking, intents, err := svc.ConfirmCapture(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	newDispatcher(c).Dispatch(c.Request.Context(), intents)

	c.JSON(http.StatusOK, gin.H{
		"message": "payment confirmed",
		"booking": booking,
	})
}

// RefundPayment is the settlement callback from the payment collaborator
// after it executed a refund intent; it moves the payment record to refunded.
func RefundPayment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	svc := newPaymentService(c)
	payment, err := svc.Get(c.Request.Context(), actor, id)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	if err := svc.Refund(c.Request.Context(), payment.BookingID); err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment refunded"})
}

// GetPayment returns one payment record.
func GetPayment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	svc := newPaymentService(c)
	payment, err := svc.Get(c.Request.Context(), actor, id)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

package handlers

import (
	"net/http"
	"strconv"

	intconfig "bookandgo/internal/config"
	"bookandgo/internal/domain"
	"bookandgo/internal/http/middleware"
	"bookandgo/internal/repositories"
	"bookandgo/internal/services"
	"bookandgo/internal/utils"

	"github.com/gin-gonic/gin"
)

var (
	env      intconfig.Env
	notifier services.Notifier
)

// Configure wires the environment into the handler layer. Called once by the
// router before any route is registered.
func Configure(e intconfig.Env) {
	env = e
	if e.AMQPURL != "" {
		notifier = &services.AMQPNotifier{URL: e.AMQPURL}
	} else {
		notifier = services.LogNotifier{}
	}
	utils.LogEvent("", "http", "configure", "notifier ready, amqp="+strconv.FormatBool(e.AMQPURL != ""))
}

func mustActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
	}
	return actor, ok
}

func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error(), "bad_request")
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid "+name, "bad_request")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func queryBool(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func newBookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		Tours:    repositories.TourRepository{},
		Bookings: repositories.BookingRepository{},
		Payments: repositories.PaymentRepository{},
		Refs: services.ReferenceGenerator{
			Bookings: repositories.BookingRepository{},
		},
		TaxRate:   env.TaxRate,
		RequestID: middleware.GetRequestID(c),
	}
}

func newPaymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Payments:  repositories.PaymentRepository{},
		Bookings:  newBookingService(c),
		RequestID: middleware.GetRequestID(c),
	}
}

func newDispatcher(c *gin.Context) services.IntentDispatcher {
	reqID := middleware.GetRequestID(c)
	return services.IntentDispatcher{
		Gateway: services.SimulatedGateway{
			Payments:  repositories.PaymentRepository{},
			RequestID: reqID,
		},
		Notifier:  notifier,
		RequestID: reqID,
	}
}

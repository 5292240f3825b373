package http

import (
	"net/http"

	intconfig "bookandgo/internal/config"
	"bookandgo/internal/http/handlers"
	"bookandgo/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with the full middleware chain and the
// /api/v1 surface.
func NewRouter(env intconfig.Env) *gin.Engine {
	gin.SetMode(env.GinMode)
	handlers.Configure(env)

	r := gin.New()
	r.SetTrustedProxies(nil)
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(),
		middleware.Principal(env.JWTSecret),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.Health)
		api.GET("/db-check", handlers.DBCheck)

		api.GET("/tours", handlers.GetTours)
		api.GET("/tours/:id", handlers.GetTourByID)
	}

	auth := api.Group("", middleware.AuthRequired())
	{
		auth.POST("/bookings", handlers.CreateBooking)
		auth.GET("/bookings", handlers.GetBookings)
		auth.GET("/bookings/:id", handlers.GetBookingByID)
		auth.POST("/bookings/:id/cancel", handlers.CancelBooking)
		auth.POST("/bookings/:id/confirm", handlers.ConfirmBooking)
		auth.POST("/bookings/:id/transition", handlers.TransitionBooking)
		auth.GET("/bookings/:id/invoice", handlers.GetBookingInvoice)

		auth.GET("/payments/:id", handlers.GetPayment)
		auth.POST("/payments/:id/confirm", handlers.ConfirmPayment)
		auth.POST("/payments/:id/refund", handlers.RefundPayment)

		auth.POST("/tours", handlers.CreateTour)
		auth.PUT("/tours/:id", handlers.UpdateTour)

		auth.GET("/agency/dashboard", handlers.GetAgencyDashboard)
	}

	return r
}

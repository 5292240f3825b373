package handlers

import (
	"net/http"

	"bookandgo/internal/http/middleware"
	"bookandgo/internal/repositories"
	"bookandgo/internal/services"

	"github.com/gin-gonic/gin"
)

// GetAgencyDashboard returns the agency home-screen aggregates.
func GetAgencyDashboard(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	svc := services.DashboardService{
		Reports:   repositories.ReportRepository{},
		Bookings:  repositories.BookingRepository{},
		RequestID: middleware.GetRequestID(c),
	}
	dashboard, err := svc.AgencyDashboard(c.Request.Context(), actor)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

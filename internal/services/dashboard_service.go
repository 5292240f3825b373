package services

import (
	"context"

	"bookandgo/internal/domain"
	"bookandgo/internal/domain/models"
	"bookandgo/internal/repositories"
)

// AgencyDashboard bundles the numbers an agency sees on its home screen.
type AgencyDashboard struct {
	Stats          repositories.AgencyStats    `json:"stats"`
	MonthlyRevenue []repositories.MonthRevenue `json:"monthly_revenue"`
	RecentBookings []models.Booking            `json:"recent_bookings"`
}

type DashboardService struct {
	Reports   repositories.ReportRepository
	Bookings  repositories.BookingRepository
	RequestID string
}

func (s DashboardService) AgencyDashboard(ctx context.Context, actor domain.Actor) (AgencyDashboard, error) {
	if actor.Role != domain.RoleAgency || actor.AgencyID <= 0 {
		return AgencyDashboard{}, domain.PermissionError{Action: "view dashboard for"}
	}

	stats, err := s.Reports.AgencyStats(ctx, actor.AgencyID)
	if err != nil {
		return AgencyDashboard{}, err
	}

	monthly, err := s.Reports.MonthlyRevenue(ctx, actor.AgencyID, 6)
	if err != nil {
		return AgencyDashboard{}, err
	}

	recent, _, err := s.Bookings.List(ctx, repositories.BookingFilter{
		AgencyID: actor.AgencyID,
		Page:     1,
		PerPage:  10,
	})
	if err != nil {
		return AgencyDashboard{}, err
	}

	return AgencyDashboard{
		Stats:          stats,
		MonthlyRevenue: monthly,
		RecentBookings: recent,
	}, nil
}

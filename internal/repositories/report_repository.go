package repositories

import (
	"context"
	"database/sql"

	intconfig "bookandgo/internal/config"
	"bookandgo/internal/domain"

	"github.com/shopspring/decimal"
)

// AgencyStats aggregates the dashboard numbers for one agency.
type AgencyStats struct {
	TotalTours       int64           `json:"total_tours"`
	ActiveTours      int64           `json:"active_tours"`
	TotalBookings    int64           `json:"total_bookings"`
	PendingBookings  int64           `json:"pending_bookings"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	ThisMonthRevenue decimal.Decimal `json:"this_month_revenue"`
}

// MonthRevenue is one month of completed-booking revenue.
type MonthRevenue struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
}

type ReportRepository struct {
	DB *sql.DB
}

func (r ReportRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ReportRepository) AgencyStats(ctx context.Context, agencyID int64) (AgencyStats, error) {
	var s AgencyStats

	err := r.db().QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM tours WHERE agency_id=?),
			(SELECT COUNT(*) FROM tours WHERE agency_id=? AND is_active=1),
			(SELECT COUNT(*) FROM bookings WHERE agency_id=?),
			(SELECT COUNT(*) FROM bookings WHERE agency_id=? AND status='pending'),
			(SELECT COALESCE(SUM(total_price),0) FROM bookings WHERE agency_id=? AND status='completed'),
			(SELECT COALESCE(SUM(total_price),0) FROM bookings
				WHERE agency_id=? AND status='completed'
				AND YEAR(created_at)=YEAR(NOW()) AND MONTH(created_at)=MONTH(NOW()))`,
		agencyID, agencyID, agencyID, agencyID, agencyID, agencyID,
	).Scan(
		&s.TotalTours,
		&s.ActiveTours,
		&s.TotalBookings,
		&s.PendingBookings,
		&s.TotalRevenue,
		&s.ThisMonthRevenue,
	)
	if err != nil {
		return AgencyStats{}, domain.InternalError{Err: err}
	}
	return s, nil
}

// MonthlyRevenue returns completed-booking revenue per month over the last
// N months, oldest first.
func (r ReportRepository) MonthlyRevenue(ctx context.Context, agencyID int64, months int) ([]MonthRevenue, error) {
	if months < 1 {
		months = 6
	}
	rows, err := r.db().QueryContext(ctx, `
		SELECT DATE_FORMAT(created_at, '%Y-%m') AS month, SUM(total_price) AS revenue
		FROM bookings
		WHERE agency_id=? AND status='completed'
		  AND created_at >= DATE_SUB(NOW(), INTERVAL ? MONTH)
		GROUP BY month
		ORDER BY month`,
		agencyID, months)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []MonthRevenue{}
	for rows.Next() {
		var m MonthRevenue
		if err := rows.Scan(&m.Month, &m.Revenue); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Tour is the capacity and pricing contract a booking is created against.
// The booking core treats it as read-only except for TotalBookings.
type Tour struct {
	ID            int64               `json:"id"`
	AgencyID      int64               `json:"agency_id"`
	Title         string              `json:"title"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	MinPeople     int                 `json:"min_people"`
	MaxPeople     int                 `json:"max_people"`
	// AvailableDays holds lowercase weekday names, comma separated.
	// Empty means the tour departs every day.
	AvailableDays string `json:"available_days"`
	AvailableFrom string `json:"available_from,omitempty"` // YYYY-MM-DD, optional
	AvailableTo   string `json:"available_to,omitempty"`   // YYYY-MM-DD, optional
	IsActive      bool   `json:"is_active"`
	TotalBookings int64  `json:"total_bookings"`
}

// CurrentPrice returns the discounted unit price when it is set and strictly
// below the regular price, otherwise the regular price.
func (t Tour) CurrentPrice() decimal.Decimal {
	if t.DiscountPrice.Valid &&
		t.DiscountPrice.Decimal.IsPositive() &&
		t.DiscountPrice.Decimal.LessThan(t.Price) {
		return t.DiscountPrice.Decimal
	}
	return t.Price
}

// DepartsOn reports whether the tour runs on the given weekday name.
func (t Tour) DepartsOn(weekday string) bool {
	days := strings.TrimSpace(t.AvailableDays)
	if days == "" {
		return true
	}
	weekday = strings.ToLower(strings.TrimSpace(weekday))
	for _, d := range strings.Split(days, ",") {
		if strings.ToLower(strings.TrimSpace(d)) == weekday {
			return true
		}
	}
	return false
}

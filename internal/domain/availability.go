package domain

import (
	"fmt"
	"strings"
	"time"

	"bookandgo/internal/domain/models"
)

const dateLayout = "2006-01-02"

// CheckAvailability validates a requested people count and date against a
// tour's capacity contract. Decisions are advisory at read time; the writer
// re-runs this check inside the booking transaction while holding the tour
// row lock.
func CheckAvailability(tour models.Tour, requestedPeople int, requestedDate string, now time.Time) error {
	if !tour.IsActive {
		return ValidationError{Field: "tour", Msg: "tour is not active"}
	}

	minPeople := tour.MinPeople
	if minPeople < 1 {
		minPeople = 1
	}
	if requestedPeople < minPeople || requestedPeople > tour.MaxPeople {
		return ValidationError{
			Field: "number_of_people",
			Msg:   fmt.Sprintf("must be between %d and %d", minPeople, tour.MaxPeople),
		}
	}

	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(requestedDate), now.Location())
	if err != nil {
		return ValidationError{Field: "booking_date", Msg: "must be a valid date (YYYY-MM-DD)", Err: err}
	}
	if !date.After(now) {
		return ValidationError{Field: "booking_date", Msg: "must be in the future"}
	}

	if tour.AvailableFrom != "" {
		from, err := time.ParseInLocation(dateLayout, tour.AvailableFrom, now.Location())
		if err == nil && date.Before(from) {
			return ValidationError{Field: "booking_date", Msg: "tour is not yet available on this date"}
		}
	}
	if tour.AvailableTo != "" {
		to, err := time.ParseInLocation(dateLayout, tour.AvailableTo, now.Location())
		if err == nil && date.After(to) {
			return ValidationError{Field: "booking_date", Msg: "tour is no longer available on this date"}
		}
	}

	if !tour.DepartsOn(date.Weekday().String()) {
		return ValidationError{Field: "booking_date", Msg: "tour does not depart on this day"}
	}

	return nil
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bookandgo/internal/repositories"

	"github.com/google/uuid"
)

type ReferenceStrategy string

const (
	// StrategyToken appends a random token to the day stamp. No shared
	// counter, so concurrent creators can never collide on generation.
	StrategyToken ReferenceStrategy = "token"
	// StrategySequence numbers bookings per day (BKG-YYYYMMDD-0001). Only
	// safe inside the booking transaction behind the tour row lock, with
	// the unique index on booking_number as backstop.
	StrategySequence ReferenceStrategy = "sequence"
)

// ReferenceGenerator produces human-readable booking numbers and payment
// transaction ids. Callers treat the output as opaque beyond uniqueness.
type ReferenceGenerator struct {
	Strategy ReferenceStrategy
	Bookings repositories.BookingRepository
}

func (g ReferenceGenerator) Next(ctx context.Context, tx *sql.Tx, day time.Time) (string, error) {
	stamp := day.Format("20060102")

	if g.Strategy == StrategySequence && tx != nil {
		n, err := g.Bookings.CountCreatedOn(ctx, tx, day.Format("2006-01-02"))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("BKG-%s-%04d", stamp, n+1), nil
	}

	return fmt.Sprintf("BKG-%s-%s", stamp, randomToken(8)), nil
}

func (g ReferenceGenerator) NextTransactionID() string {
	return "TXN-" + randomToken(20)
}

func randomToken(n int) string {
	s := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

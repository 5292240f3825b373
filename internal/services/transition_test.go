package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"bookandgo/internal/domain"
	"bookandgo/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingCols = []string{
	"id", "booking_number", "user_id", "tour_id", "agency_id",
	"booking_date", "booking_time", "number_of_people",
	"price_per_person", "subtotal", "discount", "tax", "total_price",
	"customer_name", "customer_email", "customer_phone",
	"special_requirements", "status",
	"confirmed_at", "cancelled_at", "cancellation_reason",
	"has_review", "created_at",
}

func bookingRow(status string) *sqlmock.Rows {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tourDate := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(bookingCols).AddRow(
		42, "BKG-20260301-AB12CD34", 7, 1, 10,
		tourDate, "09:30", 2,
		"80.00", "160.00", "0.00", "28.80", "188.80",
		"Maria Quispe", "maria@example.com", "+51 987 654 321",
		"", status,
		nil, nil, "",
		false, created,
	)
}

func capturedPaymentRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "booking_id", "transaction_id", "method", "amount",
		"currency", "status", "paid_at", "refunded_at",
	}).AddRow(5, 42, "TXN-ABCDEF", "card", "188.80", "PEN", "completed", nil, nil)
}

// A transition that loses the optimistic status race surfaces as a
// TransitionError, never as a silent overwrite.
func TestTransitionLostRace(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b WHERE b.id=?")).
		WithArgs(int64(42)).
		WillReturnRows(bookingRow("pending"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE booking_id=?")).
		WithArgs(int64(42)).
		WillReturnRows(capturedPaymentRow())
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	actor := domain.Actor{Role: domain.RoleSystem}
	_, _, err := svc.Transition(context.Background(), actor, 42, models.BookingConfirmed, "")
	require.True(t, domain.IsTransition(err), "got %v", err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionCancelReturnsRefundIntent(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b WHERE b.id=?")).
		WithArgs(int64(42)).
		WillReturnRows(bookingRow("confirmed"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE booking_id=?")).
		WithArgs(int64(42)).
		WillReturnRows(capturedPaymentRow())
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b WHERE b.id=?")).
		WithArgs(int64(42)).
		WillReturnRows(bookingRow("cancelled"))

	actor := domain.Actor{UserID: 7, Role: domain.RoleCustomer}
	updated, intents, err := svc.Transition(context.Background(), actor, 42, models.BookingCancelled, "change of plans")
	require.NoError(t, err)

	assert.Equal(t, models.BookingCancelled, updated.Status)
	require.Len(t, intents, 2)
	assert.Equal(t, domain.IntentRefundPayment, intents[0].Type)
	assert.Equal(t, domain.IntentNotifyCustomer, intents[1].Type)

	assert.NoError(t, mock.ExpectationsWereMet())
}

package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"bookandgo/internal/domain"
	"bookandgo/internal/domain/models"
	"bookandgo/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tourCols = []string{
	"id", "agency_id", "title", "price", "discount_price",
	"min_people", "max_people", "available_days", "available_from", "available_to",
	"is_active", "total_bookings",
}

func tourRow() *sqlmock.Rows {
	return sqlmock.NewRows(tourCols).
		AddRow(1, 10, "City Walking Tour", "100.00", "80.00", 1, 4, "", nil, nil, true, 3)
}

func newTestService(t *testing.T) (BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return BookingService{
		DB:       db,
		Tours:    repositories.TourRepository{DB: db},
		Bookings: repositories.BookingRepository{DB: db},
		Payments: repositories.PaymentRepository{DB: db},
		Refs:     ReferenceGenerator{},
		TaxRate:  decimal.NewFromFloat(0.18),
		Now: func() time.Time {
			return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		},
	}, mock
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		TourID:         1,
		BookingDate:    "2026-03-14",
		BookingTime:    "09:30",
		NumberOfPeople: 2,
		CustomerName:   "Maria Quispe",
		CustomerEmail:  "maria@example.com",
		CustomerPhone:  "+51 987 654 321",
		PaymentMethod:  "card",
	}
}

func TestCreateBookingHappyPath(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(tourRow())
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tours SET total_bookings=total_bookings+1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	actor := domain.Actor{UserID: 7, Role: domain.RoleCustomer}
	res, err := svc.CreateBooking(context.Background(), actor, validInput())
	require.NoError(t, err)

	b := res.Booking
	assert.Equal(t, int64(7), b.ID)
	assert.True(t, strings.HasPrefix(b.BookingNumber, "BKG-20260310-"), b.BookingNumber)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, "80.00", b.PricePerPerson.StringFixed(2))
	assert.Equal(t, "160.00", b.Subtotal.StringFixed(2))
	assert.Equal(t, "28.80", b.Tax.StringFixed(2))
	assert.Equal(t, "188.80", b.TotalPrice.StringFixed(2))

	p := res.Payment
	assert.Equal(t, int64(9), p.ID)
	assert.Equal(t, int64(7), p.BookingID)
	assert.Equal(t, "PEN", p.Currency)
	assert.Equal(t, models.PaymentPending, p.Status)
	assert.True(t, p.Amount.Equal(b.TotalPrice))

	require.Len(t, res.Intents, 2)
	assert.Equal(t, domain.IntentCapturePayment, res.Intents[0].Type)
	assert.Equal(t, domain.IntentNotifyCustomer, res.Intents[1].Type)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsUnavailableTour(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(tourRow())
	mock.ExpectRollback()

	in := validInput()
	in.NumberOfPeople = 5 // above max_people

	actor := domain.Actor{UserID: 7, Role: domain.RoleCustomer}
	_, err := svc.CreateBooking(context.Background(), actor, in)
	require.True(t, domain.IsValidation(err), "got %v", err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed payment insert must roll back the whole reservation: no booking
// row survives without its payment row.
func TestCreateBookingRollsBackWhenPaymentInsertFails(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(tourRow())
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	actor := domain.Actor{UserID: 7, Role: domain.RoleCustomer}
	_, err := svc.CreateBooking(context.Background(), actor, validInput())
	require.True(t, domain.IsInternal(err), "got %v", err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRetriesReferenceCollisionOnce(t *testing.T) {
	svc, mock := newTestService(t)
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(tourRow())
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(dup)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tours SET total_bookings=total_bookings+1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	actor := domain.Actor{UserID: 7, Role: domain.RoleCustomer}
	res, err := svc.CreateBooking(context.Background(), actor, validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.Booking.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingGivesUpAfterSecondCollision(t *testing.T) {
	svc, mock := newTestService(t)
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(tourRow())
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(dup)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(dup)
	mock.ExpectRollback()

	actor := domain.Actor{UserID: 7, Role: domain.RoleCustomer}
	_, err := svc.CreateBooking(context.Background(), actor, validInput())
	require.True(t, domain.IsConflict(err), "got %v", err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRequiresAuthenticatedCustomer(t *testing.T) {
	svc, mock := newTestService(t)

	_, err := svc.CreateBooking(context.Background(), domain.Actor{}, validInput())
	require.True(t, domain.IsPermission(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	actor := domain.Actor{UserID: 7, Role: domain.RoleCustomer}

	cases := []struct {
		name   string
		mutate func(*CreateBookingInput)
	}{
		{"missing tour", func(in *CreateBookingInput) { in.TourID = 0 }},
		{"zero people", func(in *CreateBookingInput) { in.NumberOfPeople = 0 }},
		{"missing name", func(in *CreateBookingInput) { in.CustomerName = "  " }},
		{"bad email", func(in *CreateBookingInput) { in.CustomerEmail = "not-an-email" }},
		{"missing phone", func(in *CreateBookingInput) { in.CustomerPhone = "" }},
		{"missing date", func(in *CreateBookingInput) { in.BookingDate = "" }},
		{"bad time", func(in *CreateBookingInput) { in.BookingTime = "9 o'clock" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.CreateBooking(context.Background(), actor, in)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}
}

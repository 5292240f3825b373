package repositories

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

func newBookingRepo(t *testing.T) (BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return BookingRepository{DB: db}, mock
}

func TestApplyTransitionGuardsOnExpectedStatus(t *testing.T) {
	repo, mock := newBookingRepo(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	res := domain.TransitionResult{
		Status:             models.BookingCancelled,
		CancelledAt:        &now,
		CancellationReason: "change of plans",
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET")).
		WithArgs("cancelled", now, "change of plans", int64(42), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.ApplyTransition(context.Background(), 42, models.BookingConfirmed, res)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// When a concurrent transition already moved the row, the guarded update hits
// zero rows and the caller must treat it as a lost race.
func TestApplyTransitionReportsLostRace(t *testing.T) {
	repo, mock := newBookingRepo(t)

	res := domain.TransitionResult{Status: models.BookingConfirmed}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET")).
		WithArgs("confirmed", int64(42), "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.ApplyTransition(context.Background(), 42, models.BookingPending, res)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b WHERE b.id=?")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 404)
	require.True(t, domain.IsNotFound(err), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListScopesAndFilters(t *testing.T) {
	repo, mock := newBookingRepo(t)

	countRe := regexp.QuoteMeta("SELECT COUNT(*) FROM bookings b")

	mock.ExpectQuery(countRe).
		WithArgs(int64(7), "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY b.created_at DESC, b.id DESC")).
		WithArgs(int64(7), "confirmed", 15, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	out, total, err := repo.List(context.Background(), BookingFilter{
		UserID: 7,
		Status: models.BookingConfirmed,
	})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Oversized per_page requests fall back to the default page size; the query
// must never run with the caller's raw value.
func TestListCapsOversizedPageRequest(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings b")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY b.created_at DESC, b.id DESC")).
		WithArgs(int64(7), 15, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(context.Background(), BookingFilter{
		UserID:  7,
		PerPage: 500,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

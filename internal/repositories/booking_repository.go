package repositories

import (
	"context"
	"database/sql"
	"strings"

	intconfig "bookandgo/internal/config"
	intdb "bookandgo/internal/db"
	"bookandgo/internal/domain"
	"bookandgo/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `b.id, b.booking_number, b.user_id, b.tour_id, b.agency_id,
	b.booking_date, COALESCE(b.booking_time,''), b.number_of_people,
	b.price_per_person, b.subtotal, b.discount, b.tax, b.total_price,
	b.customer_name, b.customer_email, b.customer_phone,
	COALESCE(b.special_requirements,''), b.status,
	b.confirmed_at, b.cancelled_at, COALESCE(b.cancellation_reason,''),
	EXISTS(SELECT 1 FROM reviews rv WHERE rv.booking_id=b.id),
	b.created_at`

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b                      models.Booking
		bookingDate            sql.NullTime
		confirmedAt, cancelled sql.NullTime
	)
	err := row.Scan(
		&b.ID,
		&b.BookingNumber,
		&b.UserID,
		&b.TourID,
		&b.AgencyID,
		&bookingDate,
		&b.BookingTime,
		&b.NumberOfPeople,
		&b.PricePerPerson,
		&b.Subtotal,
		&b.Discount,
		&b.Tax,
		&b.TotalPrice,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.SpecialRequirements,
		&b.Status,
		&confirmedAt,
		&cancelled,
		&b.CancellationReason,
		&b.HasReview,
		&b.CreatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	if bookingDate.Valid {
		b.BookingDate = bookingDate.Time.Format("2006-01-02")
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		b.ConfirmedAt = &t
	}
	if cancelled.Valid {
		t := cancelled.Time
		b.CancelledAt = &t
	}
	return b, nil
}

// Insert writes a new booking row inside the caller's transaction. A
// duplicate booking_number surfaces as-is so the writer can regenerate the
// reference and retry once.
func (r BookingRepository) Insert(ctx context.Context, tx *sql.Tx, b models.Booking) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO bookings
		(booking_number, user_id, tour_id, agency_id,
		 booking_date, booking_time, number_of_people,
		 price_per_person, subtotal, discount, tax, total_price,
		 customer_name, customer_email, customer_phone,
		 special_requirements, status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.BookingNumber,
		b.UserID,
		b.TourID,
		b.AgencyID,
		b.BookingDate,
		intdb.NullIfEmpty(b.BookingTime),
		b.NumberOfPeople,
		b.PricePerPerson,
		b.Subtotal,
		b.Discount,
		b.Tax,
		b.TotalPrice,
		b.CustomerName,
		b.CustomerEmail,
		b.CustomerPhone,
		intdb.NullIfEmpty(b.SpecialRequirements),
		string(b.Status),
	)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	row := r.db().QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings b WHERE b.id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	return b, nil
}

// BookingFilter scopes list queries. Role resolution happens in the service:
// exactly one of UserID/AgencyID is set for non-admin callers.
type BookingFilter struct {
	UserID   int64
	AgencyID int64
	Status   models.BookingStatus
	Upcoming bool
	Past     bool
	Page     int
	PerPage  int
}

func (r BookingRepository) List(ctx context.Context, f BookingFilter) ([]models.Booking, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 15
	}

	conds := []string{"1=1"}
	args := []any{}
	if f.UserID > 0 {
		conds = append(conds, "b.user_id=?")
		args = append(args, f.UserID)
	}
	if f.AgencyID > 0 {
		conds = append(conds, "b.agency_id=?")
		args = append(args, f.AgencyID)
	}
	if f.Status != "" {
		conds = append(conds, "b.status=?")
		args = append(args, string(f.Status))
	}
	if f.Upcoming {
		conds = append(conds, "b.booking_date >= CURDATE()", "b.status IN ('pending','confirmed')")
	}
	if f.Past {
		conds = append(conds, "b.booking_date < CURDATE()", "b.status='completed'")
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings b`+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}

	args = append(args, f.PerPage, (f.Page-1)*f.PerPage)
	rows, err := r.db().QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings b`+where+` ORDER BY b.created_at DESC, b.id DESC LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := make([]models.Booking, 0, f.PerPage)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	return out, total, nil
}

// ApplyTransition persists a transition with an optimistic status guard:
// the row is updated only while its status still equals the expected from
// state. Returns false when a concurrent transition won the race.
func (r BookingRepository) ApplyTransition(ctx context.Context, id int64, from models.BookingStatus, res domain.TransitionResult) (bool, error) {
	sets := []string{"status=?", "updated_at=NOW()"}
	args := []any{string(res.Status)}
	if res.ConfirmedAt != nil {
		sets = append(sets, "confirmed_at=?")
		args = append(args, *res.ConfirmedAt)
	}
	if res.CancelledAt != nil {
		sets = append(sets, "cancelled_at=?")
		args = append(args, *res.CancelledAt)
	}
	if res.CancellationReason != "" {
		sets = append(sets, "cancellation_reason=?")
		args = append(args, res.CancellationReason)
	}
	args = append(args, id, string(from))

	result, err := r.db().ExecContext(ctx,
		`UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id=? AND status=?`, args...)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return n > 0, nil
}

// CountCreatedOn counts bookings created on the given day, used by the
// daily-sequence reference strategy inside the booking transaction.
func (r BookingRepository) CountCreatedOn(ctx context.Context, tx *sql.Tx, day string) (int, error) {
	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE DATE(created_at)=?`, day).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

package repositories

import (
	"context"
	"database/sql"
	"time"

	intconfig "bookandgo/internal/config"
	intdb "bookandgo/internal/db"
	"bookandgo/internal/domain"
	"bookandgo/internal/domain/models"
)

type TourRepository struct {
	DB *sql.DB
}

func (r TourRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tourColumns = `id, agency_id, title, price, discount_price,
	min_people, max_people, COALESCE(available_days,''), available_from, available_to,
	is_active, total_bookings`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTour(row rowScanner) (models.Tour, error) {
	var (
		t        models.Tour
		from, to sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.AgencyID,
		&t.Title,
		&t.Price,
		&t.DiscountPrice,
		&t.MinPeople,
		&t.MaxPeople,
		&t.AvailableDays,
		&from,
		&to,
		&t.IsActive,
		&t.TotalBookings,
	)
	if err != nil {
		return models.Tour{}, err
	}
	if from.Valid {
		t.AvailableFrom = from.Time.Format("2006-01-02")
	}
	if to.Valid {
		t.AvailableTo = to.Time.Format("2006-01-02")
	}
	return t, nil
}

func (r TourRepository) GetByID(ctx context.Context, id int64) (models.Tour, error) {
	row := r.db().QueryRowContext(ctx, `SELECT `+tourColumns+` FROM tours WHERE id=? LIMIT 1`, id)
	t, err := scanTour(row)
	if err == sql.ErrNoRows {
		return models.Tour{}, domain.NotFoundError{Resource: "tour", Err: err}
	}
	if err != nil {
		return models.Tour{}, domain.InternalError{Err: err}
	}
	return t, nil
}

// LockForBooking reads the tour snapshot under FOR UPDATE so concurrent
// booking writers against the same tour are ordered by the row lock.
func (r TourRepository) LockForBooking(ctx context.Context, tx *sql.Tx, id int64) (models.Tour, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+tourColumns+` FROM tours WHERE id=? FOR UPDATE`, id)
	t, err := scanTour(row)
	if err == sql.ErrNoRows {
		return models.Tour{}, domain.NotFoundError{Resource: "tour", Err: err}
	}
	if err != nil {
		return models.Tour{}, domain.InternalError{Err: err}
	}
	return t, nil
}

// IncrementTotalBookings bumps the aggregate counter inside the booking
// transaction.
func (r TourRepository) IncrementTotalBookings(ctx context.Context, tx *sql.Tx, id int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE tours SET total_bookings=total_bookings+1 WHERE id=?`, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r TourRepository) Create(ctx context.Context, t models.Tour) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO tours
		(agency_id, title, price, discount_price, min_people, max_people,
		 available_days, available_from, available_to, is_active)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		t.AgencyID,
		t.Title,
		t.Price,
		t.DiscountPrice,
		t.MinPeople,
		t.MaxPeople,
		t.AvailableDays,
		intdb.NullIfEmpty(t.AvailableFrom),
		intdb.NullIfEmpty(t.AvailableTo),
		t.IsActive,
	)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r TourRepository) Update(ctx context.Context, t models.Tour) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE tours SET
			title=?, price=?, discount_price=?, min_people=?, max_people=?,
			available_days=?, available_from=?, available_to=?, is_active=?
		WHERE id=? AND agency_id=?`,
		t.Title,
		t.Price,
		t.DiscountPrice,
		t.MinPeople,
		t.MaxPeople,
		t.AvailableDays,
		intdb.NullIfEmpty(t.AvailableFrom),
		intdb.NullIfEmpty(t.AvailableTo),
		t.IsActive,
		t.ID,
		t.AgencyID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the tour does not exist or it belongs to another agency;
		// re-read to tell the two apart.
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
		return domain.PermissionError{Action: "update"}
	}
	return nil
}

func (r TourRepository) List(ctx context.Context, onlyActive bool, page, perPage int) ([]models.Tour, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 12
	}

	where := ""
	if onlyActive {
		where = " WHERE is_active=1"
	}

	var total int
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM tours`+where).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}

	rows, err := r.db().QueryContext(ctx,
		`SELECT `+tourColumns+` FROM tours`+where+` ORDER BY id DESC LIMIT ? OFFSET ?`,
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := make([]models.Tour, 0, perPage)
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, 0, domain.InternalError{Err: err}
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	return out, total, nil
}

// ValidateCapacityContract enforces the tour invariants shared by create and
// update paths.
func ValidateCapacityContract(t models.Tour) error {
	if t.Title == "" {
		return domain.ValidationError{Field: "title", Msg: "required"}
	}
	if !t.Price.IsPositive() {
		return domain.ValidationError{Field: "price", Msg: "must be greater than zero"}
	}
	if t.DiscountPrice.Valid && !t.DiscountPrice.Decimal.LessThan(t.Price) {
		return domain.ValidationError{Field: "discount_price", Msg: "must be less than price"}
	}
	if t.MinPeople < 1 {
		return domain.ValidationError{Field: "min_people", Msg: "must be at least 1"}
	}
	if t.MaxPeople < t.MinPeople {
		return domain.ValidationError{Field: "max_people", Msg: "must be greater than or equal to min_people"}
	}
	if t.AvailableFrom != "" && t.AvailableTo != "" {
		from, err1 := time.Parse("2006-01-02", t.AvailableFrom)
		to, err2 := time.Parse("2006-01-02", t.AvailableTo)
		if err1 != nil || err2 != nil || to.Before(from) {
			return domain.ValidationError{Field: "available_to", Msg: "must be after available_from"}
		}
	}
	return nil
}

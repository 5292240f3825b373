package repositories

import (
	"context"
	"database/sql"

	intconfig "bookandgo/internal/config"
	"bookandgo/internal/domain"
	"bookandgo/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const paymentColumns = `id, booking_id, transaction_id, method, amount,
	currency, status, paid_at, refunded_at`

func scanPayment(row rowScanner) (models.Payment, error) {
	var (
		p                models.Payment
		paidAt, refunded sql.NullTime
	)
	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.TransactionID,
		&p.Method,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&paidAt,
		&refunded,
	)
	if err != nil {
		return models.Payment{}, err
	}
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	if refunded.Valid {
		t := refunded.Time
		p.RefundedAt = &t
	}
	return p, nil
}

// Insert writes the companion payment row inside the booking transaction.
func (r PaymentRepository) Insert(ctx context.Context, tx *sql.Tx, p models.Payment) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO payments
		(booking_id, transaction_id, method, amount, currency, status)
		VALUES (?,?,?,?,?,?)`,
		p.BookingID,
		p.TransactionID,
		p.Method,
		p.Amount,
		p.Currency,
		string(p.Status),
	)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r PaymentRepository) GetByID(ctx context.Context, id int64) (models.Payment, error) {
	row := r.db().QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id=? LIMIT 1`, id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return models.Payment{}, domain.NotFoundError{Resource: "payment", Err: err}
	}
	if err != nil {
		return models.Payment{}, domain.InternalError{Err: err}
	}
	return p, nil
}

func (r PaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (models.Payment, error) {
	row := r.db().QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE booking_id=? LIMIT 1`, bookingID)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return models.Payment{}, domain.NotFoundError{Resource: "payment", Err: err}
	}
	if err != nil {
		return models.Payment{}, domain.InternalError{Err: err}
	}
	return p, nil
}

// MarkCompleted captures a pending payment. Re-issuing capture for an
// already-completed payment is a safe no-op.
func (r PaymentRepository) MarkCompleted(ctx context.Context, bookingID int64) error {
	res, err := r.db().ExecContext(ctx,
		`UPDATE payments SET status=?, paid_at=NOW() WHERE booking_id=? AND status=?`,
		string(models.PaymentCompleted), bookingID, string(models.PaymentPending))
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	current, err := r.GetByBookingID(ctx, bookingID)
	if err != nil {
		return err
	}
	if current.Status == models.PaymentCompleted {
		return nil
	}
	return domain.ConflictError{Resource: "payment", Msg: "cannot capture a " + string(current.Status) + " payment"}
}

// MarkRefunded moves a completed payment to refunded. Idempotent for
// already-refunded payments.
func (r PaymentRepository) MarkRefunded(ctx context.Context, bookingID int64) error {
	res, err := r.db().ExecContext(ctx,
		`UPDATE payments SET status=?, refunded_at=NOW() WHERE booking_id=? AND status=?`,
		string(models.PaymentRefunded), bookingID, string(models.PaymentCompleted))
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	current, err := r.GetByBookingID(ctx, bookingID)
	if err != nil {
		return err
	}
	if current.Status == models.PaymentRefunded {
		return nil
	}
	return domain.ConflictError{Resource: "payment", Msg: "cannot refund a " + string(current.Status) + " payment"}
}

package services

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	intconfig "bookandgo/internal/config"
	intdb "bookandgo/internal/db"
	"bookandgo/internal/domain"
	"bookandgo/internal/domain/models"
	"bookandgo/internal/repositories"
	"bookandgo/internal/utils"

	"github.com/shopspring/decimal"
)

// BookingService owns the booking write path: creation under a single
// transaction and lifecycle transitions with optimistic status guards.
type BookingService struct {
	DB        *sql.DB
	Tours     repositories.TourRepository
	Bookings  repositories.BookingRepository
	Payments  repositories.PaymentRepository
	Refs      ReferenceGenerator
	TaxRate   decimal.Decimal
	RequestID string
	Now       func() time.Time
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CreateBookingInput struct {
	TourID              int64  `json:"tour_id"`
	BookingDate         string `json:"booking_date"`
	BookingTime         string `json:"booking_time"`
	NumberOfPeople      int    `json:"number_of_people"`
	CustomerName        string `json:"customer_name"`
	CustomerEmail       string `json:"customer_email"`
	CustomerPhone       string `json:"customer_phone"`
	SpecialRequirements string `json:"special_requirements"`
	PaymentMethod       string `json:"payment_method"`
}

func (in *CreateBookingInput) validate() error {
	in.CustomerName = utils.NormalizeSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.SpecialRequirements = strings.TrimSpace(in.SpecialRequirements)
	in.BookingDate = strings.TrimSpace(in.BookingDate)

	if in.TourID <= 0 {
		return domain.ValidationError{Field: "tour_id", Msg: "required"}
	}
	if in.NumberOfPeople <= 0 {
		return domain.ValidationError{Field: "number_of_people", Msg: "must be greater than zero"}
	}
	if in.CustomerName == "" {
		return domain.ValidationError{Field: "customer_name", Msg: "required"}
	}
	if in.CustomerEmail == "" || !strings.Contains(in.CustomerEmail, "@") {
		return domain.ValidationError{Field: "customer_email", Msg: "must be a valid email"}
	}
	if in.CustomerPhone == "" {
		return domain.ValidationError{Field: "customer_phone", Msg: "required"}
	}
	if in.BookingDate == "" {
		return domain.ValidationError{Field: "booking_date", Msg: "required"}
	}

	hhmm, err := utils.NormalizeClock(in.BookingTime)
	if err != nil {
		return domain.ValidationError{Field: "booking_time", Msg: "must be HH:MM", Err: err}
	}
	in.BookingTime = hhmm
	return nil
}

type CreateBookingResult struct {
	Booking models.Booking  `json:"booking"`
	Payment models.Payment  `json:"payment"`
	Intents []domain.Intent `json:"-"`
}

// CreateBooking runs the full reservation sequence as one atomic unit of
// work: lock the tour snapshot, check availability, compute the price
// breakdown, assign a reference and insert booking plus payment. Any
// failure rolls back everything; no partial booking or orphaned payment is
// ever visible.
func (s BookingService) CreateBooking(ctx context.Context, actor domain.Actor, in CreateBookingInput) (CreateBookingResult, error) {
	if actor.UserID <= 0 {
		return CreateBookingResult{}, domain.PermissionError{Action: "create"}
	}
	if err := in.validate(); err != nil {
		return CreateBookingResult{}, err
	}

	now := s.now()

	tx, err := s.db().BeginTx(ctx, nil)
	if err != nil {
		return CreateBookingResult{}, domain.InternalError{Msg: "failed to open transaction", Err: err}
	}
	defer tx.Rollback()

	tour, err := s.Tours.LockForBooking(ctx, tx, in.TourID)
	if err != nil {
		return CreateBookingResult{}, err
	}

	if err := domain.CheckAvailability(tour, in.NumberOfPeople, in.BookingDate, now); err != nil {
		return CreateBookingResult{}, err
	}

	breakdown, err := domain.ComputePrice(tour.Price, tour.DiscountPrice, in.NumberOfPeople, s.TaxRate, decimal.Zero)
	if err != nil {
		return CreateBookingResult{}, err
	}

	ref, err := s.Refs.Next(ctx, tx, now)
	if err != nil {
		return CreateBookingResult{}, domain.InternalError{Msg: "failed to generate booking number", Err: err}
	}

	booking := models.Booking{
		BookingNumber:       ref,
		UserID:              actor.UserID,
		TourID:              tour.ID,
		AgencyID:            tour.AgencyID,
		BookingDate:         in.BookingDate,
		BookingTime:         in.BookingTime,
		NumberOfPeople:      in.NumberOfPeople,
		PricePerPerson:      breakdown.PricePerPerson,
		Subtotal:            breakdown.Subtotal,
		Discount:            breakdown.Discount,
		Tax:                 breakdown.Tax,
		TotalPrice:          breakdown.Total,
		CustomerName:        in.CustomerName,
		CustomerEmail:       in.CustomerEmail,
		CustomerPhone:       in.CustomerPhone,
		SpecialRequirements: in.SpecialRequirements,
		Status:              models.BookingPending,
		CreatedAt:           now,
	}

	bookingID, err := s.Bookings.Insert(ctx, tx, booking)
	if intdb.IsDuplicate(err) {
		// Reference collision: regenerate once, then surface as conflict.
		ref, err = s.Refs.Next(ctx, tx, now)
		if err != nil {
			return CreateBookingResult{}, domain.InternalError{Msg: "failed to regenerate booking number", Err: err}
		}
		booking.BookingNumber = ref
		bookingID, err = s.Bookings.Insert(ctx, tx, booking)
		if intdb.IsDuplicate(err) {
			return CreateBookingResult{}, domain.ConflictError{Resource: "booking_number", Msg: "reference collision, please retry"}
		}
	}
	if err != nil {
		return CreateBookingResult{}, domain.InternalError{Msg: "failed to save booking", Err: err}
	}
	booking.ID = bookingID

	payment := models.Payment{
		BookingID:     bookingID,
		TransactionID: s.Refs.NextTransactionID(),
		Method:        models.NormalizePaymentMethod(in.PaymentMethod),
		Amount:        breakdown.Total,
		Currency:      "PEN",
		Status:        models.PaymentPending,
	}
	paymentID, err := s.Payments.Insert(ctx, tx, payment)
	if err != nil {
		return CreateBookingResult{}, domain.InternalError{Msg: "failed to save payment", Err: err}
	}
	payment.ID = paymentID

	if err := s.Tours.IncrementTotalBookings(ctx, tx, tour.ID); err != nil {
		return CreateBookingResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return CreateBookingResult{}, domain.InternalError{Msg: "failed to commit booking", Err: err}
	}

	utils.LogEvent(s.RequestID, "booking", "create",
		"booking_number="+booking.BookingNumber+" tour_id="+strconv.FormatInt(tour.ID, 10))

	return CreateBookingResult{
		Booking: booking,
		Payment: payment,
		Intents: []domain.Intent{
			domain.CaptureIntent(bookingID),
			domain.NotifyIntent(bookingID, "booking_created"),
		},
	}, nil
}

// Transition applies a lifecycle change. The write is guarded by the
// expected from-status, so a concurrent transition makes this one fail with
// TransitionError instead of silently overwriting.
func (s BookingService) Transition(ctx context.Context, actor domain.Actor, bookingID int64, target models.BookingStatus, reason string) (models.Booking, []domain.Intent, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, nil, err
	}

	payment, err := s.Payments.GetByBookingID(ctx, bookingID)
	if err != nil && !domain.IsNotFound(err) {
		return models.Booking{}, nil, err
	}

	res, err := domain.Transition(booking, payment, domain.TransitionRequest{
		Target: target,
		Actor:  actor,
		Reason: reason,
		Now:    s.now(),
	})
	if err != nil {
		return models.Booking{}, nil, err
	}

	ok, err := s.Bookings.ApplyTransition(ctx, booking.ID, booking.Status, res)
	if err != nil {
		return models.Booking{}, nil, err
	}
	if !ok {
		return models.Booking{}, nil, domain.TransitionError{From: string(booking.Status), To: string(target)}
	}

	utils.LogEvent(s.RequestID, "booking", "transition",
		"booking_number="+booking.BookingNumber+" from="+string(booking.Status)+" to="+string(target))

	updated, err := s.Bookings.GetByID(ctx, booking.ID)
	if err != nil {
		return models.Booking{}, nil, err
	}
	return updated, res.Intents, nil
}

// Get returns a booking with its payment, enforcing the view guard.
func (s BookingService) Get(ctx context.Context, actor domain.Actor, bookingID int64) (models.Booking, models.Payment, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, models.Payment{}, err
	}
	if err := domain.Authorize(actor, booking, domain.ActionView); err != nil {
		return models.Booking{}, models.Payment{}, err
	}

	payment, err := s.Payments.GetByBookingID(ctx, bookingID)
	if err != nil && !domain.IsNotFound(err) {
		return models.Booking{}, models.Payment{}, err
	}
	return booking, payment, nil
}

type ListBookingsInput struct {
	Status   string
	Upcoming bool
	Past     bool
	Page     int
	PerPage  int
}

// List returns role-scoped bookings: customers see their own, agencies see
// their tours' bookings, admins see everything.
func (s BookingService) List(ctx context.Context, actor domain.Actor, in ListBookingsInput) ([]models.Booking, int, error) {
	f := repositories.BookingFilter{
		Upcoming: in.Upcoming,
		Past:     in.Past,
		Page:     in.Page,
		PerPage:  in.PerPage,
	}

	switch actor.Role {
	case domain.RoleAdmin:
		// no owner scoping
	case domain.RoleAgency:
		if actor.AgencyID <= 0 {
			return nil, 0, domain.PermissionError{Action: "list"}
		}
		f.AgencyID = actor.AgencyID
	default:
		if actor.UserID <= 0 {
			return nil, 0, domain.PermissionError{Action: "list"}
		}
		f.UserID = actor.UserID
	}

	if in.Status != "" {
		status := models.BookingStatus(strings.ToLower(strings.TrimSpace(in.Status)))
		if !status.Valid() {
			return nil, 0, domain.ValidationError{Field: "status", Msg: "unknown status " + in.Status}
		}
		f.Status = status
	}

	return s.Bookings.List(ctx, f)
}

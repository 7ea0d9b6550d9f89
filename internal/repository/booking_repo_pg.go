package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dkurenkov/eventease/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListConfirmedByEvent(ctx context.Context, eventID int64) ([]domain.Booking, error)
	CountConfirmedByEvent(ctx context.Context, eventID int64) (int, error)
	HasConfirmedForUserAndEvent(ctx context.Context, userID, eventID int64) (bool, error)
	MarkCancelled(ctx context.Context, id int64, cancelledAt time.Time) error
	ListRecentConfirmed(ctx context.Context, limit int) ([]domain.Booking, error)
	CountConfirmed(ctx context.Context) (int, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `b.id, b.code, b.user_id, b.event_id, b.seats, b.status,
	b.total_amount, b.booking_date, b.cancelled_at`

func scanBooking(row pgx.Row, withEvent, withUser bool) (*domain.Booking, error) {
	var b domain.Booking
	dest := []any{
		&b.ID, &b.Code, &b.UserID, &b.EventID, &b.Seats, &b.Status,
		&b.TotalAmount, &b.BookingDate, &b.CancelledAt,
	}
	var e domain.Event
	if withEvent {
		dest = append(dest,
			&e.ID, &e.Code, &e.Title, &e.Description, &e.Category,
			&e.Location.Type, &e.Location.Address, &e.Location.City, &e.Location.Country,
			&e.Date, &e.EndDate, &e.StartTime, &e.EndTime,
			&e.Capacity, &e.BookedSeats, &e.Price, &e.ImageURL, &e.CreatedBy, &e.CreatedAt,
		)
	}
	var u domain.UserRef
	if withUser {
		dest = append(dest, &u.ID, &u.Name, &u.Email)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	if withEvent {
		b.Event = &e
	}
	if withUser {
		b.User = &u
	}
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.QueryRow(ctx, `INSERT INTO bookings
		(code, user_id, event_id, seats, status, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, booking_date`,
		booking.Code, booking.UserID, booking.EventID, booking.Seats,
		booking.Status, booking.TotalAmount).
		Scan(&booking.ID, &booking.BookingDate)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+`, `+eventColumns+`
		FROM bookings b JOIN events e ON e.id = b.event_id WHERE b.id=$1`, id)
	return scanBooking(row, true, false)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+`, `+eventColumns+`
		FROM bookings b JOIN events e ON e.id = b.event_id
		WHERE b.user_id=$1 ORDER BY b.booking_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows, true, false)
}

func (r *PGBookingRepository) ListConfirmedByEvent(ctx context.Context, eventID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+`, u.id, u.name, u.email
		FROM bookings b JOIN users u ON u.id = b.user_id
		WHERE b.event_id=$1 AND b.status=$2 ORDER BY b.booking_date DESC`,
		eventID, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows, false, true)
}

func (r *PGBookingRepository) CountConfirmedByEvent(ctx context.Context, eventID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE event_id=$1 AND status=$2`,
		eventID, domain.BookingStatusConfirmed).Scan(&n)
	return n, err
}

func (r *PGBookingRepository) HasConfirmedForUserAndEvent(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM bookings WHERE user_id=$1 AND event_id=$2 AND status=$3)`,
		userID, eventID, domain.BookingStatusConfirmed).Scan(&exists)
	return exists, err
}

func (r *PGBookingRepository) MarkCancelled(ctx context.Context, id int64, cancelledAt time.Time) error {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET status=$2, cancelled_at=$3 WHERE id=$1`,
		id, domain.BookingStatusCancelled, cancelledAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *PGBookingRepository) ListRecentConfirmed(ctx context.Context, limit int) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+`, `+eventColumns+`, u.id, u.name, u.email
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		JOIN users u ON u.id = b.user_id
		WHERE b.status=$1 ORDER BY b.booking_date DESC LIMIT $2`,
		domain.BookingStatusConfirmed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows, true, true)
}

func (r *PGBookingRepository) CountConfirmed(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE status=$1`,
		domain.BookingStatusConfirmed).Scan(&n)
	return n, err
}

func collectBookings(rows pgx.Rows, withEvent, withUser bool) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows, withEvent, withUser)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)

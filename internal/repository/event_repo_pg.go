package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dkurenkov/eventease/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventFilter narrows List to the server-side filterable fields. Status
// filtering happens in memory because status is derived, not stored.
type EventFilter struct {
	Category     domain.EventCategory
	LocationType domain.LocationType
	StartDate    *time.Time
	EndDate      *time.Time
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter EventFilter) ([]domain.Event, error)
	Count(ctx context.Context) (int, error)
	ReserveSeats(ctx context.Context, eventID int64, seats int) (*domain.Event, error)
	ReleaseSeats(ctx context.Context, eventID int64, seats int) (*domain.Event, error)
}

type PGEventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) EventRepository {
	return &PGEventRepository{db: db}
}

const eventColumns = `e.id, e.code, e.title, e.description, e.category,
	e.location_type, e.location_address, e.location_city, e.location_country,
	e.date, e.end_date, e.start_time, e.end_time,
	e.capacity, e.booked_seats, e.price, e.image_url, e.created_by, e.created_at`

func scanEvent(row pgx.Row, withCreator bool) (*domain.Event, error) {
	var e domain.Event
	dest := []any{
		&e.ID, &e.Code, &e.Title, &e.Description, &e.Category,
		&e.Location.Type, &e.Location.Address, &e.Location.City, &e.Location.Country,
		&e.Date, &e.EndDate, &e.StartTime, &e.EndTime,
		&e.Capacity, &e.BookedSeats, &e.Price, &e.ImageURL, &e.CreatedBy, &e.CreatedAt,
	}
	var creator domain.UserRef
	if withCreator {
		dest = append(dest, &creator.ID, &creator.Name, &creator.Email)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	if withCreator {
		e.Creator = &creator
	}
	return &e, nil
}

func (r *PGEventRepository) Create(ctx context.Context, event *domain.Event) error {
	return r.db.QueryRow(ctx, `INSERT INTO events
		(code, title, description, category, location_type, location_address, location_city, location_country,
		 date, end_date, start_time, end_time, capacity, booked_seats, price, image_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at`,
		event.Code, event.Title, event.Description, event.Category,
		event.Location.Type, event.Location.Address, event.Location.City, event.Location.Country,
		event.Date, event.EndDate, event.StartTime, event.EndTime,
		event.Capacity, event.BookedSeats, event.Price, event.ImageURL, event.CreatedBy).
		Scan(&event.ID, &event.CreatedAt)
}

func (r *PGEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	row := r.db.QueryRow(ctx, `SELECT `+eventColumns+`, u.id, u.name, u.email
		FROM events e JOIN users u ON u.id = e.created_by WHERE e.id=$1`, id)
	return scanEvent(row, true)
}

func (r *PGEventRepository) Update(ctx context.Context, event *domain.Event) error {
	cmd, err := r.db.Exec(ctx, `UPDATE events SET
		title=$2, description=$3, category=$4,
		location_type=$5, location_address=$6, location_city=$7, location_country=$8,
		date=$9, end_date=$10, start_time=$11, end_time=$12,
		capacity=$13, price=$14, image_url=$15
		WHERE id=$1`,
		event.ID, event.Title, event.Description, event.Category,
		event.Location.Type, event.Location.Address, event.Location.City, event.Location.Country,
		event.Date, event.EndDate, event.StartTime, event.EndTime,
		event.Capacity, event.Price, event.ImageURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *PGEventRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *PGEventRepository) List(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + `, u.id, u.name, u.email
		FROM events e JOIN users u ON u.id = e.created_by WHERE 1=1`
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += ` AND e.category=$` + strconv.Itoa(len(args))
	}
	if filter.LocationType != "" {
		args = append(args, filter.LocationType)
		query += ` AND e.location_type=$` + strconv.Itoa(len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += ` AND e.date >= $` + strconv.Itoa(len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += ` AND e.date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY e.date ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows, true)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *PGEventRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// ReserveSeats performs the capacity check and the increment as a single
// conditional update so concurrent bookings cannot race past the check.
func (r *PGEventRepository) ReserveSeats(ctx context.Context, eventID int64, seats int) (*domain.Event, error) {
	row := r.db.QueryRow(ctx, `UPDATE events e SET booked_seats = booked_seats + $2
		WHERE e.id=$1 AND booked_seats + $2 <= capacity
		RETURNING `+eventColumns, eventID, seats)
	event, err := scanEvent(row, false)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, domain.ErrEventNotFound) {
		return nil, err
	}

	// No row updated: either the event is gone or the capacity would be
	// exceeded. Re-read to tell the two apart and report availability.
	current, getErr := r.GetByID(ctx, eventID)
	if getErr != nil {
		return nil, getErr
	}
	return nil, &domain.CapacityExceededError{Available: current.AvailableSeats()}
}

// ReleaseSeats decrements booked seats, clamped at zero.
func (r *PGEventRepository) ReleaseSeats(ctx context.Context, eventID int64, seats int) (*domain.Event, error) {
	row := r.db.QueryRow(ctx, `UPDATE events e SET booked_seats = GREATEST(booked_seats - $2, 0)
		WHERE e.id=$1
		RETURNING `+eventColumns, eventID, seats)
	return scanEvent(row, false)
}

var _ EventRepository = (*PGEventRepository)(nil)

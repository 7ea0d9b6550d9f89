package booking

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dkurenkov/eventease/internal/clock"
	"github.com/dkurenkov/eventease/internal/domain"
	"github.com/dkurenkov/eventease/internal/relay"
	"github.com/dkurenkov/eventease/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type CreateBookingInput struct {
	EventID int64 `json:"eventId"`
	Seats   int   `json:"seats"`
}

// Cache is the slice of the event cache bookings care about: seat changes
// must drop the cached listing so availability never lags a mutation.
type Cache interface {
	InvalidateEvents(ctx context.Context) error
}

type BookingService struct {
	bookings  repository.BookingRepository
	events    repository.EventRepository
	publisher relay.Publisher
	cache     Cache
	clock     clock.Clock
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	events repository.EventRepository,
	publisher relay.Publisher,
	clk clock.Clock,
	opts ...BookingServiceOption,
) *BookingService {
	if publisher == nil {
		publisher = relay.Noop{}
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	service := &BookingService{
		bookings:  bookings,
		events:    events,
		publisher: publisher,
		clock:     clk,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error) {
	if input.Seats < domain.MinSeatsPerBooking || input.Seats > domain.MaxSeatsPerBooking {
		return nil, domain.ErrInvalidSeatCount
	}

	event, err := s.events.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}

	if event.Status(s.clock.Now()) != domain.EventStatusUpcoming {
		return nil, domain.ErrEventClosed
	}

	exists, err := s.bookings.HasConfirmedForUserAndEvent(ctx, userID, input.EventID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateBooking
	}

	// Capacity check and increment happen as one conditional update, so two
	// concurrent bookings cannot both pass the check.
	updated, err := s.events.ReserveSeats(ctx, input.EventID, input.Seats)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		Code:        newBookingCode(s.clock.Now()),
		UserID:      userID,
		EventID:     input.EventID,
		Seats:       input.Seats,
		Status:      domain.BookingStatusConfirmed,
		TotalAmount: event.Price * float64(input.Seats),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		// Hand the seats back so the counter does not drift on a failed insert.
		if _, relErr := s.events.ReleaseSeats(ctx, input.EventID, input.Seats); relErr != nil {
			log.Printf("release seats after failed booking insert: %v", relErr)
		}
		return nil, err
	}

	s.invalidateCache(ctx)
	s.publish(ctx, relay.EventUpdated, updated)

	booking.Event = updated
	return booking, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	now := s.clock.Now()
	if booking.Event.Status(now) != domain.EventStatusUpcoming {
		return nil, domain.ErrEventStarted
	}

	if err := s.bookings.MarkCancelled(ctx, bookingID, now); err != nil {
		return nil, err
	}

	updated, err := s.events.ReleaseSeats(ctx, booking.EventID, booking.Seats)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.publish(ctx, relay.EventUpdated, updated)

	booking.Status = domain.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.Event = updated
	return booking, nil
}

func (s *BookingService) ListMyBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.InvalidateEvents(ctx); err != nil {
			log.Printf("invalidate events cache: %v", err)
		}
	}
}

func (s *BookingService) publish(ctx context.Context, typ relay.NotificationType, payload any) {
	if err := s.publisher.Publish(ctx, relay.Notification{Type: typ, Payload: payload}); err != nil {
		log.Printf("WARNING: failed to publish %s notification: %v", typ, err)
	}
}

// newBookingCode builds a globally unique reference from the creation instant
// and a random suffix. No count-derived sequence: concurrent creations must
// not be able to collide.
func newBookingCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("BKG-%d-%s", now.UnixMilli(), suffix)
}

var _ BookingUseCase = (*BookingService)(nil)

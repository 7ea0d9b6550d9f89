package events

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/dkurenkov/eventease/internal/clock"
	"github.com/dkurenkov/eventease/internal/domain"
	"github.com/dkurenkov/eventease/internal/relay"
	"github.com/dkurenkov/eventease/internal/repository"
	"github.com/google/uuid"
)

type EventUseCase interface {
	Create(ctx context.Context, input CreateEventInput, creatorID int64) (*domain.Event, error)
	Update(ctx context.Context, id int64, input UpdateEventInput) (*domain.Event, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, input ListEventsInput) (*EventPage, error)
	ListAttendees(ctx context.Context, eventID int64) (*AttendeeReport, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

// Cache holds the unfiltered event listing; mutations invalidate it.
type Cache interface {
	GetEvents(ctx context.Context) ([]domain.Event, error)
	SetEvents(ctx context.Context, events []domain.Event) error
	InvalidateEvents(ctx context.Context) error
}

type LocationInput struct {
	Type    string `json:"type"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type CreateEventInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Location    LocationInput `json:"location"`
	Date        time.Time     `json:"date"`
	EndDate     *time.Time    `json:"endDate"`
	StartTime   string        `json:"time"`
	EndTime     string        `json:"endTime"`
	Capacity    int           `json:"capacity"`
	Price       float64       `json:"price"`
	ImageURL    string        `json:"imageUrl"`
}

type UpdateEventInput struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Category    *string        `json:"category"`
	Location    *LocationInput `json:"location"`
	Date        *time.Time     `json:"date"`
	EndDate     *time.Time     `json:"endDate"`
	StartTime   *string        `json:"time"`
	EndTime     *string        `json:"endTime"`
	Capacity    *int           `json:"capacity"`
	Price       *float64       `json:"price"`
	ImageURL    *string        `json:"imageUrl"`
}

type ListEventsInput struct {
	Filter repository.EventFilter
	Status domain.EventStatus
	Page   int
	Limit  int
}

type EventPage struct {
	Events     []domain.Event
	Total      int
	TotalPages int
	Page       int
}

type Attendee struct {
	BookingID   string    `json:"bookingId"`
	UserName    string    `json:"userName"`
	UserEmail   string    `json:"userEmail"`
	Seats       int       `json:"seats"`
	TotalAmount float64   `json:"totalAmount"`
	BookingDate time.Time `json:"bookingDate"`
}

type EventSummary struct {
	Title          string `json:"title"`
	EventID        string `json:"eventId"`
	TotalCapacity  int    `json:"totalCapacity"`
	BookedSeats    int    `json:"bookedSeats"`
	AvailableSeats int    `json:"availableSeats"`
}

type AttendeeReport struct {
	Event     EventSummary
	Attendees []Attendee
}

type Stats struct {
	TotalEvents     int `json:"totalEvents"`
	TotalBookings   int `json:"totalBookings"`
	UpcomingEvents  int `json:"upcomingEvents"`
	OngoingEvents   int `json:"ongoingEvents"`
	CompletedEvents int `json:"completedEvents"`
}

type DashboardStats struct {
	Stats          Stats            `json:"stats"`
	RecentBookings []domain.Booking `json:"recentBookings"`
}

const defaultImageURL = "https://via.placeholder.com/400x300"

type EventService struct {
	events    repository.EventRepository
	bookings  repository.BookingRepository
	publisher relay.Publisher
	cache     Cache
	clock     clock.Clock
}

func NewEventService(
	events repository.EventRepository,
	bookings repository.BookingRepository,
	publisher relay.Publisher,
	cache Cache,
	clk clock.Clock,
) *EventService {
	if publisher == nil {
		publisher = relay.Noop{}
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &EventService{
		events:    events,
		bookings:  bookings,
		publisher: publisher,
		cache:     cache,
		clock:     clk,
	}
}

func (s *EventService) Create(ctx context.Context, input CreateEventInput, creatorID int64) (*domain.Event, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.NewValidationError("event title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, domain.NewValidationError("event description is required")
	}
	if !domain.ValidCategory(domain.EventCategory(input.Category)) {
		return nil, domain.NewValidationError("invalid category: %s", input.Category)
	}
	if input.Date.IsZero() {
		return nil, domain.NewValidationError("event date is required")
	}
	if strings.TrimSpace(input.StartTime) == "" {
		return nil, domain.NewValidationError("event start time is required")
	}
	if input.Capacity < 1 {
		return nil, domain.NewValidationError("event capacity must be at least 1")
	}
	if input.Price < 0 {
		return nil, domain.NewValidationError("event price cannot be negative")
	}
	location, err := normalizeLocation(input.Location)
	if err != nil {
		return nil, err
	}

	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = defaultImageURL
	}

	event := &domain.Event{
		Code:        newEventCode(input.Date),
		Title:       input.Title,
		Description: input.Description,
		Category:    domain.EventCategory(input.Category),
		Location:    location,
		Date:        input.Date,
		EndDate:     input.EndDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Capacity:    input.Capacity,
		BookedSeats: 0,
		Price:       input.Price,
		ImageURL:    imageURL,
		CreatedBy:   creatorID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.publish(ctx, relay.EventCreated, event)
	return event, nil
}

func (s *EventService) Update(ctx context.Context, id int64, input UpdateEventInput) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Capacity != nil && *input.Capacity < event.BookedSeats {
		return nil, domain.NewValidationError(
			"cannot reduce capacity below %d (already booked seats)", event.BookedSeats)
	}
	if input.Location != nil {
		location, err := normalizeLocation(*input.Location)
		if err != nil {
			return nil, err
		}
		event.Location = location
	}
	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Category != nil {
		if !domain.ValidCategory(domain.EventCategory(*input.Category)) {
			return nil, domain.NewValidationError("invalid category: %s", *input.Category)
		}
		event.Category = domain.EventCategory(*input.Category)
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.EndDate != nil {
		event.EndDate = input.EndDate
	}
	if input.StartTime != nil {
		event.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		event.EndTime = *input.EndTime
	}
	if input.Capacity != nil {
		event.Capacity = *input.Capacity
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, domain.NewValidationError("event price cannot be negative")
		}
		event.Price = *input.Price
	}
	if input.ImageURL != nil {
		event.ImageURL = *input.ImageURL
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.publish(ctx, relay.EventUpdated, event)
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	if _, err := s.events.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.bookings.CountConfirmedByEvent(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.ErrHasActiveBookings
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	s.publish(ctx, relay.EventDeleted, map[string]int64{"eventId": id})
	return nil
}

func (s *EventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	return s.events.GetByID(ctx, id)
}

// List applies category/location/date filters in SQL, status filtering in
// memory (status is derived from now) and paginates last.
func (s *EventService) List(ctx context.Context, input ListEventsInput) (*EventPage, error) {
	events, err := s.loadEvents(ctx, input.Filter)
	if err != nil {
		return nil, err
	}

	if input.Status != "" {
		now := s.clock.Now()
		filtered := events[:0]
		for _, e := range events {
			if e.Status(now) == input.Status {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = 10
	}

	total := len(events)
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &EventPage{
		Events:     events[start:end],
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
	}, nil
}

func (s *EventService) loadEvents(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	unfiltered := filter == (repository.EventFilter{})
	if unfiltered && s.cache != nil {
		if cached, err := s.cache.GetEvents(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if unfiltered && s.cache != nil {
		_ = s.cache.SetEvents(ctx, events)
	}
	return events, nil
}

func (s *EventService) ListAttendees(ctx context.Context, eventID int64) (*AttendeeReport, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListConfirmedByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	attendees := make([]Attendee, 0, len(bookings))
	for _, b := range bookings {
		attendees = append(attendees, Attendee{
			BookingID:   b.Code,
			UserName:    b.User.Name,
			UserEmail:   b.User.Email,
			Seats:       b.Seats,
			TotalAmount: b.TotalAmount,
			BookingDate: b.BookingDate,
		})
	}

	return &AttendeeReport{
		Event: EventSummary{
			Title:          event.Title,
			EventID:        event.Code,
			TotalCapacity:  event.Capacity,
			BookedSeats:    event.BookedSeats,
			AvailableSeats: event.AvailableSeats(),
		},
		Attendees: attendees,
	}, nil
}

// DashboardStats derives the status of every event in memory. An O(n) scan,
// acceptable at this scale.
func (s *EventService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	totalEvents, err := s.events.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalBookings, err := s.bookings.CountConfirmed(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.events.List(ctx, repository.EventFilter{})
	if err != nil {
		return nil, err
	}

	stats := Stats{TotalEvents: totalEvents, TotalBookings: totalBookings}
	now := s.clock.Now()
	for _, e := range events {
		switch e.Status(now) {
		case domain.EventStatusUpcoming:
			stats.UpcomingEvents++
		case domain.EventStatusOngoing:
			stats.OngoingEvents++
		case domain.EventStatusCompleted:
			stats.CompletedEvents++
		}
	}

	recent, err := s.bookings.ListRecentConfirmed(ctx, 10)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{Stats: stats, RecentBookings: recent}, nil
}

func (s *EventService) publish(ctx context.Context, typ relay.NotificationType, payload any) {
	if err := s.publisher.Publish(ctx, relay.Notification{Type: typ, Payload: payload}); err != nil {
		log.Printf("WARNING: failed to publish %s notification: %v", typ, err)
	}
}

func (s *EventService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.InvalidateEvents(ctx); err != nil {
			log.Printf("invalidate events cache: %v", err)
		}
	}
}

func normalizeLocation(input LocationInput) (domain.Location, error) {
	typ := domain.LocationType(input.Type)
	if typ != domain.LocationOnline && typ != domain.LocationInPerson {
		if input.Type == "" {
			return domain.Location{}, domain.NewValidationError("location type is required")
		}
		return domain.Location{}, domain.NewValidationError("invalid location type: %s", input.Type)
	}
	if typ == domain.LocationInPerson && strings.TrimSpace(input.Address) == "" {
		return domain.Location{}, domain.NewValidationError("address is required for In-Person events")
	}
	return domain.Location{
		Type:    typ,
		Address: input.Address,
		City:    input.City,
		Country: input.Country,
	}, nil
}

// newEventCode builds the human-readable EVT-MMMYYYY-XXX reference from the
// event month/year plus a random suffix.
func newEventCode(date time.Time) string {
	month := strings.ToUpper(date.Format("Jan"))
	suffix := strings.ToUpper(uuid.NewString()[:3])
	return fmt.Sprintf("EVT-%s%d-%s", month, date.Year(), suffix)
}

var _ EventUseCase = (*EventService)(nil)

package events

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dkurenkov/eventease/internal/clock"
	"github.com/dkurenkov/eventease/internal/domain"
	"github.com/dkurenkov/eventease/internal/relay"
	"github.com/dkurenkov/eventease/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventRepository) List(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockEventRepository) ReserveSeats(ctx context.Context, eventID int64, seats int) (*domain.Event, error) {
	args := m.Called(ctx, eventID, seats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) ReleaseSeats(ctx context.Context, eventID int64, seats int) (*domain.Event, error) {
	args := m.Called(ctx, eventID, seats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListConfirmedByEvent(ctx context.Context, eventID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountConfirmedByEvent(ctx context.Context, eventID int64) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) HasConfirmedForUserAndEvent(ctx context.Context, userID, eventID int64) (bool, error) {
	args := m.Called(ctx, userID, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) MarkCancelled(ctx context.Context, id int64, cancelledAt time.Time) error {
	args := m.Called(ctx, id, cancelledAt)
	return args.Error(0)
}

func (m *MockBookingRepository) ListRecentConfirmed(ctx context.Context, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountConfirmed(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var testNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

func newTestService(eventsRepo *MockEventRepository, bookings *MockBookingRepository, recorder *relay.Recorder) *EventService {
	return NewEventService(eventsRepo, bookings, recorder, nil, clock.NewFixed(testNow))
}

func validCreateInput() CreateEventInput {
	return CreateEventInput{
		Title:       "GopherCon",
		Description: "The Go conference",
		Category:    "Tech",
		Location:    LocationInput{Type: "In-Person", Address: "1 Main St", City: "Berlin", Country: "Germany"},
		Date:        time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		Capacity:    300,
		Price:       149.99,
	}
}

func TestEventService_Create_Success(t *testing.T) {
	mockEvents := &MockEventRepository{}
	mockBookings := &MockBookingRepository{}
	recorder := &relay.Recorder{}
	service := newTestService(mockEvents, mockBookings, recorder)
	ctx := context.Background()

	mockEvents.On("Create", ctx, mock.AnythingOfType("*domain.Event")).Return(nil).Once()

	event, err := service.Create(ctx, validCreateInput(), 3)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), event.CreatedBy)
	assert.Equal(t, 0, event.BookedSeats)
	assert.Equal(t, domain.CategoryTech, event.Category)
	assert.Equal(t, defaultImageURL, event.ImageURL)
	assert.True(t, strings.HasPrefix(event.Code, "EVT-OCT2026-"), "code %s", event.Code)
	assert.Len(t, event.Code, len("EVT-OCT2026-")+3)

	sent := recorder.Sent()
	assert.Len(t, sent, 1)
	assert.Equal(t, relay.EventCreated, sent[0].Type)
	mockEvents.AssertExpectations(t)
}

func TestEventService_Create_OnlineWithoutAddress(t *testing.T) {
	mockEvents := &MockEventRepository{}
	service := newTestService(mockEvents, &MockBookingRepository{}, &relay.Recorder{})
	ctx := context.Background()

	input := validCreateInput()
	input.Location = LocationInput{Type: "Online"}
	mockEvents.On("Create", ctx, mock.AnythingOfType("*domain.Event")).Return(nil).Once()

	event, err := service.Create(ctx, input, 3)

	assert.NoError(t, err)
	assert.Equal(t, domain.LocationOnline, event.Location.Type)
	assert.Equal(t, "", event.Location.Address)
	assert.Equal(t, "", event.Location.City)
	assert.Equal(t, "", event.Location.Country)
}

func TestEventService_Create_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*CreateEventInput)
	}{
		{"missing title", func(in *CreateEventInput) { in.Title = " " }},
		{"missing description", func(in *CreateEventInput) { in.Description = "" }},
		{"unknown category", func(in *CreateEventInput) { in.Category = "Festival" }},
		{"missing location type", func(in *CreateEventInput) { in.Location.Type = "" }},
		{"invalid location type", func(in *CreateEventInput) { in.Location.Type = "Hybrid" }},
		{"in-person without address", func(in *CreateEventInput) { in.Location = LocationInput{Type: "In-Person"} }},
		{"zero capacity", func(in *CreateEventInput) { in.Capacity = 0 }},
		{"negative price", func(in *CreateEventInput) { in.Price = -1 }},
		{"missing date", func(in *CreateEventInput) { in.Date = time.Time{} }},
		{"missing start time", func(in *CreateEventInput) { in.StartTime = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := newTestService(&MockEventRepository{}, &MockBookingRepository{}, &relay.Recorder{})
			input := validCreateInput()
			tc.mutate(&input)

			_, err := service.Create(context.Background(), input, 3)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestEventService_Update_CapacityGuard(t *testing.T) {
	mockEvents := &MockEventRepository{}
	service := newTestService(mockEvents, &MockBookingRepository{}, &relay.Recorder{})
	ctx := context.Background()

	stored := &domain.Event{ID: 4, Title: "Go Meetup", Category: domain.CategoryTech,
		Location: domain.Location{Type: domain.LocationOnline}, Capacity: 100, BookedSeats: 40}
	mockEvents.On("GetByID", ctx, int64(4)).Return(stored, nil)

	under := 39
	_, err := service.Update(ctx, 4, UpdateEventInput{Capacity: &under})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "cannot reduce capacity below 40")

	// Shrinking to exactly the booked count is allowed.
	exact := 40
	mockEvents.On("Update", ctx, mock.AnythingOfType("*domain.Event")).Return(nil).Once()
	updated, err := service.Update(ctx, 4, UpdateEventInput{Capacity: &exact})
	assert.NoError(t, err)
	assert.Equal(t, 40, updated.Capacity)
}

func TestEventService_Update_NotFound(t *testing.T) {
	mockEvents := &MockEventRepository{}
	service := newTestService(mockEvents, &MockBookingRepository{}, &relay.Recorder{})
	ctx := context.Background()

	mockEvents.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrEventNotFound).Once()

	_, err := service.Update(ctx, 99, UpdateEventInput{})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventService_Update_LocationValidated(t *testing.T) {
	mockEvents := &MockEventRepository{}
	service := newTestService(mockEvents, &MockBookingRepository{}, &relay.Recorder{})
	ctx := context.Background()

	stored := &domain.Event{ID: 4, Title: "Go Meetup", Category: domain.CategoryTech,
		Location: domain.Location{Type: domain.LocationOnline}, Capacity: 100}
	mockEvents.On("GetByID", ctx, int64(4)).Return(stored, nil).Once()

	_, err := service.Update(ctx, 4, UpdateEventInput{Location: &LocationInput{Type: "In-Person"}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventService_Delete_BlockedByActiveBookings(t *testing.T) {
	mockEvents := &MockEventRepository{}
	mockBookings := &MockBookingRepository{}
	recorder := &relay.Recorder{}
	service := newTestService(mockEvents, mockBookings, recorder)
	ctx := context.Background()

	mockEvents.On("GetByID", ctx, int64(4)).Return(&domain.Event{ID: 4}, nil).Once()
	mockBookings.On("CountConfirmedByEvent", ctx, int64(4)).Return(2, nil).Once()

	err := service.Delete(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrHasActiveBookings)
	assert.Empty(t, recorder.Sent())
	mockBookings.AssertExpectations(t)
}

func TestEventService_Delete_CancelledBookingsDoNotBlock(t *testing.T) {
	mockEvents := &MockEventRepository{}
	mockBookings := &MockBookingRepository{}
	recorder := &relay.Recorder{}
	service := newTestService(mockEvents, mockBookings, recorder)
	ctx := context.Background()

	mockEvents.On("GetByID", ctx, int64(4)).Return(&domain.Event{ID: 4}, nil).Once()
	mockBookings.On("CountConfirmedByEvent", ctx, int64(4)).Return(0, nil).Once()
	mockEvents.On("Delete", ctx, int64(4)).Return(nil).Once()

	err := service.Delete(ctx, 4)
	assert.NoError(t, err)

	sent := recorder.Sent()
	assert.Len(t, sent, 1)
	assert.Equal(t, relay.EventDeleted, sent[0].Type)
	assert.Equal(t, map[string]int64{"eventId": 4}, sent[0].Payload)
	mockEvents.AssertExpectations(t)
}

func TestEventService_List_StatusFilterAndPagination(t *testing.T) {
	mockEvents := &MockEventRepository{}
	service := newTestService(mockEvents, &MockBookingRepository{}, &relay.Recorder{})
	ctx := context.Background()

	all := []domain.Event{
		{ID: 1, Date: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)},   // Completed
		{ID: 2, Date: time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC)}, // Upcoming
		{ID: 3, Date: time.Date(2026, time.September, 9, 0, 0, 0, 0, time.UTC)}, // Upcoming
		{ID: 4, Date: time.Date(2026, time.September, 20, 0, 0, 0, 0, time.UTC)}, // Upcoming
	}
	mockEvents.On("List", ctx, repository.EventFilter{}).Return(all, nil)

	page, err := service.List(ctx, ListEventsInput{
		Status: domain.EventStatusUpcoming,
		Page:   2,
		Limit:  2,
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Events, 1)
	assert.Equal(t, int64(4), page.Events[0].ID)
}

func TestEventService_List_PageBeyondEnd(t *testing.T) {
	mockEvents := &MockEventRepository{}
	service := newTestService(mockEvents, &MockBookingRepository{}, &relay.Recorder{})
	ctx := context.Background()

	mockEvents.On("List", ctx, repository.EventFilter{}).
		Return([]domain.Event{{ID: 1, Date: testNow}}, nil)

	page, err := service.List(ctx, ListEventsInput{Page: 5, Limit: 10})
	assert.NoError(t, err)
	assert.Empty(t, page.Events)
	assert.Equal(t, 1, page.Total)
}

func TestEventService_ListAttendees(t *testing.T) {
	mockEvents := &MockEventRepository{}
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockEvents, mockBookings, &relay.Recorder{})
	ctx := context.Background()

	event := &domain.Event{ID: 4, Code: "EVT-SEP2026-A1B", Title: "Go Meetup", Capacity: 10, BookedSeats: 3}
	mockEvents.On("GetByID", ctx, int64(4)).Return(event, nil).Once()
	mockBookings.On("ListConfirmedByEvent", ctx, int64(4)).Return([]domain.Booking{
		{Code: "BKG-2", Seats: 2, TotalAmount: 100, User: &domain.UserRef{Name: "Bea", Email: "bea@example.com"}},
		{Code: "BKG-1", Seats: 1, TotalAmount: 50, User: &domain.UserRef{Name: "Abe", Email: "abe@example.com"}},
	}, nil).Once()

	report, err := service.ListAttendees(ctx, 4)

	assert.NoError(t, err)
	assert.Equal(t, "Go Meetup", report.Event.Title)
	assert.Equal(t, "EVT-SEP2026-A1B", report.Event.EventID)
	assert.Equal(t, 7, report.Event.AvailableSeats)
	assert.Len(t, report.Attendees, 2)
	assert.Equal(t, "BKG-2", report.Attendees[0].BookingID)
	assert.Equal(t, "Bea", report.Attendees[0].UserName)
	assert.Equal(t, "bea@example.com", report.Attendees[0].UserEmail)
}

func TestEventService_ListAttendees_EventNotFound(t *testing.T) {
	mockEvents := &MockEventRepository{}
	service := newTestService(mockEvents, &MockBookingRepository{}, &relay.Recorder{})
	ctx := context.Background()

	mockEvents.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrEventNotFound).Once()

	_, err := service.ListAttendees(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventService_DashboardStats(t *testing.T) {
	mockEvents := &MockEventRepository{}
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockEvents, mockBookings, &relay.Recorder{})
	ctx := context.Background()

	all := []domain.Event{
		{ID: 1, Date: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Date: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Date: time.Date(2026, time.September, 9, 0, 0, 0, 0, time.UTC)},
	}
	recent := []domain.Booking{{ID: 9, Code: "BKG-9"}}

	mockEvents.On("Count", ctx).Return(3, nil).Once()
	mockBookings.On("CountConfirmed", ctx).Return(12, nil).Once()
	mockEvents.On("List", ctx, repository.EventFilter{}).Return(all, nil).Once()
	mockBookings.On("ListRecentConfirmed", ctx, 10).Return(recent, nil).Once()

	stats, err := service.DashboardStats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Stats.TotalEvents)
	assert.Equal(t, 12, stats.Stats.TotalBookings)
	assert.Equal(t, 1, stats.Stats.UpcomingEvents)
	assert.Equal(t, 1, stats.Stats.OngoingEvents)
	assert.Equal(t, 1, stats.Stats.CompletedEvents)
	assert.Equal(t, recent, stats.RecentBookings)
}

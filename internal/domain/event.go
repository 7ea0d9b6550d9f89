package domain

import "time"

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "Upcoming"
	EventStatusOngoing   EventStatus = "Ongoing"
	EventStatusCompleted EventStatus = "Completed"
)

type EventCategory string

const (
	CategoryMusic    EventCategory = "Music"
	CategoryTech     EventCategory = "Tech"
	CategoryBusiness EventCategory = "Business"
	CategorySports   EventCategory = "Sports"
	CategoryArts     EventCategory = "Arts"
	CategoryFood     EventCategory = "Food"
	CategoryOther    EventCategory = "Other"
)

func ValidCategory(c EventCategory) bool {
	switch c {
	case CategoryMusic, CategoryTech, CategoryBusiness, CategorySports, CategoryArts, CategoryFood, CategoryOther:
		return true
	}
	return false
}

type LocationType string

const (
	LocationOnline   LocationType = "Online"
	LocationInPerson LocationType = "In-Person"
)

type Location struct {
	Type    LocationType `json:"type"`
	Address string       `json:"address"`
	City    string       `json:"city"`
	Country string       `json:"country"`
}

type Event struct {
	ID          int64         `json:"id"`
	Code        string        `json:"eventId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    EventCategory `json:"category"`
	Location    Location      `json:"location"`
	Date        time.Time     `json:"date"`
	EndDate     *time.Time    `json:"endDate,omitempty"`
	StartTime   string        `json:"time"`
	EndTime     string        `json:"endTime,omitempty"`
	Capacity    int           `json:"capacity"`
	BookedSeats int           `json:"bookedSeats"`
	Price       float64       `json:"price"`
	ImageURL    string        `json:"imageUrl"`
	CreatedBy   int64         `json:"createdBy"`
	CreatedAt   time.Time     `json:"createdAt"`

	// Projection of the creating user, filled on reads that join users.
	Creator *UserRef `json:"creator,omitempty"`
}

// UserRef is the name/email projection attached to events and bookings.
type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Status derives the lifecycle phase from the event window and now.
// The start date counts from midnight, the effective end date (end date,
// or the start date for single-day events) until end of day. Status is
// never stored; callers recompute it on every read.
func (e *Event) Status(now time.Time) EventStatus {
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}

	today := day(now)
	start := day(e.Date)
	end := start
	if e.EndDate != nil {
		end = day(*e.EndDate)
	}
	endOfDay := end.Add(24*time.Hour - time.Nanosecond)

	switch {
	case today.Before(start):
		return EventStatusUpcoming
	case !today.After(endOfDay):
		return EventStatusOngoing
	default:
		return EventStatusCompleted
	}
}

func (e *Event) AvailableSeats() int {
	return e.Capacity - e.BookedSeats
}

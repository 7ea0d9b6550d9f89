package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Seats per booking are capped independently of event capacity.
const (
	MinSeatsPerBooking = 1
	MaxSeatsPerBooking = 2
)

type Booking struct {
	ID          int64         `json:"id"`
	Code        string        `json:"bookingId"`
	UserID      int64         `json:"userId"`
	EventID     int64         `json:"eventId"`
	Seats       int           `json:"seats"`
	Status      BookingStatus `json:"status"`
	TotalAmount float64       `json:"totalAmount"`
	BookingDate time.Time     `json:"bookingDate"`
	CancelledAt *time.Time    `json:"cancelledAt,omitempty"`

	Event *Event   `json:"event,omitempty"`
	User  *UserRef `json:"user,omitempty"`
}

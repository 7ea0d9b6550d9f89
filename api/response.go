package api

import (
	"net/http"
	"time"

	"github.com/dkurenkov/eventease/internal/domain"
	"github.com/gin-gonic/gin"
)

// All responses share the {success, message?, data} envelope. Errors carry
// the domain message verbatim with a status derived from the error kind.

func respondData(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	case domain.IsForbidden(err):
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
}

// eventView attaches the derived fields (status, availableSeats) that are
// never stored.
type eventView struct {
	*domain.Event
	Status         domain.EventStatus `json:"status"`
	AvailableSeats int                `json:"availableSeats"`
}

func newEventView(e *domain.Event, now time.Time) *eventView {
	if e == nil {
		return nil
	}
	return &eventView{
		Event:          e,
		Status:         e.Status(now),
		AvailableSeats: e.AvailableSeats(),
	}
}

type bookingView struct {
	*domain.Booking
	Event *eventView `json:"event,omitempty"`
}

func newBookingView(b *domain.Booking, now time.Time) *bookingView {
	return &bookingView{
		Booking: b,
		Event:   newEventView(b.Event, now),
	}
}

func newBookingViews(bookings []domain.Booking, now time.Time) []*bookingView {
	views := make([]*bookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, newBookingView(&bookings[i], now))
	}
	return views
}

package api

import (
	"net/http"
	"strconv"

	"github.com/dkurenkov/eventease/internal/clock"
	"github.com/dkurenkov/eventease/internal/service/events"
	"github.com/gin-gonic/gin"
)

// AdminHandler carries the event administration surface. Routes registered
// here must sit behind RequireAuth + RequireAdmin.
type AdminHandler struct {
	service events.EventUseCase
	clock   clock.Clock
}

func NewAdminHandler(service events.EventUseCase, clk clock.Clock) *AdminHandler {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &AdminHandler{service: service, clock: clk}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.POST("/events", h.createEvent)
	router.PUT("/events/:id", h.updateEvent)
	router.DELETE("/events/:id", h.deleteEvent)
	router.GET("/events/:id/attendees", h.listAttendees)
	router.GET("/dashboard", h.dashboard)
}

func (h *AdminHandler) createEvent(c *gin.Context) {
	user := CurrentUser(c)

	var req events.CreateEventInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	event, err := h.service.Create(c.Request.Context(), req, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, "event created successfully", newEventView(event, h.clock.Now()))
}

func (h *AdminHandler) updateEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req events.UpdateEventInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	event, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "event updated successfully", newEventView(event, h.clock.Now()))
}

func (h *AdminHandler) deleteEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "event deleted successfully"})
}

func (h *AdminHandler) listAttendees(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	report, err := h.service.ListAttendees(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"event":   report.Event,
		"count":   len(report.Attendees),
		"data":    report.Attendees,
	})
}

func (h *AdminHandler) dashboard(c *gin.Context) {
	stats, err := h.service.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	now := h.clock.Now()
	respondData(c, http.StatusOK, "", gin.H{
		"stats":          stats.Stats,
		"recentBookings": newBookingViews(stats.RecentBookings, now),
	})
}

func eventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid event id"})
		return 0, false
	}
	return id, true
}

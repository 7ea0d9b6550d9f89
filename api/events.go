package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dkurenkov/eventease/internal/clock"
	"github.com/dkurenkov/eventease/internal/domain"
	"github.com/dkurenkov/eventease/internal/relay"
	"github.com/dkurenkov/eventease/internal/repository"
	"github.com/dkurenkov/eventease/internal/service/events"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service events.EventUseCase
	hub     *relay.Hub
	clock   clock.Clock
}

func NewEventHandler(service events.EventUseCase, hub *relay.Hub, clk clock.Clock) *EventHandler {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &EventHandler{service: service, hub: hub, clock: clk}
}

func (h *EventHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

// RegisterStream wires the SSE endpoint pushing eventCreated/eventUpdated/
// eventDeleted payloads to all connected clients.
func (h *EventHandler) RegisterStream(router *gin.RouterGroup) {
	router.GET("/stream", h.stream)
}

func (h *EventHandler) list(c *gin.Context) {
	input := events.ListEventsInput{
		Filter: repository.EventFilter{
			Category:     domain.EventCategory(c.Query("category")),
			LocationType: domain.LocationType(c.Query("location")),
		},
		Status: domain.EventStatus(c.Query("status")),
	}

	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid startDate, expected YYYY-MM-DD"})
			return
		}
		input.Filter.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid endDate, expected YYYY-MM-DD"})
			return
		}
		input.Filter.EndDate = &t
	}
	input.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	input.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	page, err := h.service.List(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	now := h.clock.Now()
	views := make([]*eventView, 0, len(page.Events))
	for i := range page.Events {
		views = append(views, newEventView(&page.Events[i], now))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       page.Total,
		"totalPages":  page.TotalPages,
		"currentPage": page.Page,
		"data":        views,
	})
}

func (h *EventHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid event id"})
		return
	}

	event, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "", newEventView(event, h.clock.Now()))
}

func (h *EventHandler) stream(c *gin.Context) {
	ch, cancel := h.hub.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case n, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(n.Type), n.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

package api

import (
	"net/http"
	"strconv"

	"github.com/dkurenkov/eventease/internal/clock"
	"github.com/dkurenkov/eventease/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	clock   clock.Clock
}

func NewBookingHandler(service booking.BookingUseCase, clk clock.Clock) *BookingHandler {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &BookingHandler{service: service, clock: clk}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/my-bookings", h.listMine)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	user := CurrentUser(c)

	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, "booking created successfully", newBookingView(b, h.clock.Now()))
}

func (h *BookingHandler) listMine(c *gin.Context) {
	user := CurrentUser(c)

	bookings, err := h.service.ListMyBookings(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(bookings),
		"data":    newBookingViews(bookings, h.clock.Now()),
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	user := CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid booking id"})
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "booking cancelled successfully", newBookingView(b, h.clock.Now()))
}

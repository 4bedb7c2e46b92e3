package api

import (
	"errors"
	"net/http"

	"boxcric-api/internal/domain/booking"
	"boxcric-api/internal/usecase/commands"
	"boxcric-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewAdminHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *AdminHandler {
	return &AdminHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary List all bookings
// @Description Back-office listing across users, filterable by status, ground and date
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "Booking status"
// @Param ground_id query string false "Ground ID"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} queries.AdminBookingListItem
// @Router /admin/bookings [get]
func (h *AdminHandler) ListBookings(c *gin.Context) {
	var filter queries.AdminBookingFilter
	filter.Status = c.Query("status")
	filter.Date = c.Query("date")
	if raw := c.Query("ground_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ground ID"})
			return
		}
		filter.GroundID = &id
	}

	limit, offset := pagination(c)
	items, err := h.bookingQueries.ListAll(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": items})
}

type overrideStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Override booking status
// @Description Force a booking transition when reconciliation is stuck
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body overrideStatusRequest true "Target status"
// @Success 200 {object} queries.BookingView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/bookings/{id}/status [patch]
func (h *AdminHandler) OverrideBookingStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req overrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	status, err := booking.NewStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown booking status"})
		return
	}

	view, err := h.bookingCommands.OverrideStatus(c.Request.Context(), id, status)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, commands.ErrStateConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking cannot move to that status"})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown booking status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

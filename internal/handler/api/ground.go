package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "boxcric-api/internal/handler/dto/request"
	"boxcric-api/internal/handler/middleware"
	"boxcric-api/internal/usecase/commands"
	"boxcric-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GroundHandler struct {
	groundCommands commands.GroundCommands
	groundQueries  queries.GroundQueries
}

func NewGroundHandler(groundCommands commands.GroundCommands, groundQueries queries.GroundQueries) *GroundHandler {
	return &GroundHandler{
		groundCommands: groundCommands,
		groundQueries:  groundQueries,
	}
}

// @Summary List grounds
// @Description List active grounds, optionally filtered by location, price and pitch type
// @Tags grounds
// @Produce json
// @Param location_id query string false "Location ID"
// @Param max_price query int false "Maximum price per hour in paise"
// @Param pitch_type query string false "Pitch type"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} queries.GroundListItem
// @Router /grounds [get]
func (h *GroundHandler) List(c *gin.Context) {
	var filter queries.GroundFilter
	if raw := c.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
			return
		}
		filter.LocationID = &id
	}
	if raw := c.Query("max_price"); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max price"})
			return
		}
		filter.MaxPrice = price
	}
	filter.PitchType = c.Query("pitch_type")

	limit, offset := pagination(c)

	items, err := h.groundQueries.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"grounds": items})
}

// @Summary Get ground
// @Tags grounds
// @Produce json
// @Param id path string true "Ground ID"
// @Success 200 {object} queries.GroundView
// @Failure 404 {object} map[string]string
// @Router /grounds/{id} [get]
func (h *GroundHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ground ID"})
		return
	}

	view, err := h.groundQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ground not found"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Ground availability
// @Description Slots still open for a ground on a date
// @Tags grounds
// @Produce json
// @Param id path string true "Ground ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} queries.GroundAvailability
// @Failure 404 {object} map[string]string
// @Router /grounds/{id}/availability [get]
func (h *GroundHandler) Availability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ground ID"})
		return
	}
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	availability, err := h.groundQueries.Availability(c.Request.Context(), id, date)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ground not found"})
		return
	}
	c.JSON(http.StatusOK, availability)
}

// @Summary Create ground
// @Tags grounds
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateGroundRequest true "Ground"
// @Success 201 {object} queries.GroundView
// @Failure 400 {object} map[string]string
// @Router /grounds [post]
func (h *GroundHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req reqdto.CreateGroundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.groundCommands.CreateGround(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ground data"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, view)
}

// @Summary Update ground
// @Tags grounds
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Ground ID"
// @Param request body reqdto.UpdateGroundRequest true "Fields to update"
// @Success 200 {object} queries.GroundView
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /grounds/{id} [put]
func (h *GroundHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ground ID"})
		return
	}

	var req reqdto.UpdateGroundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.groundCommands.UpdateGround(c.Request.Context(), id, req, userID, role)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrGroundNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Ground not found"})
		case errors.Is(err, commands.ErrGroundAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this ground"})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ground data"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Deactivate ground
// @Tags grounds
// @Security BearerAuth
// @Param id path string true "Ground ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /grounds/{id} [delete]
func (h *GroundHandler) Deactivate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ground ID"})
		return
	}

	if err := h.groundCommands.DeactivateGround(c.Request.Context(), id, userID, role); err != nil {
		switch {
		case errors.Is(err, commands.ErrGroundNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Ground not found"})
		case errors.Is(err, commands.ErrGroundAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this ground"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List my grounds
// @Tags grounds
// @Security BearerAuth
// @Produce json
// @Success 200 {array} queries.GroundListItem
// @Router /grounds/mine [get]
func (h *GroundHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	items, err := h.groundQueries.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"grounds": items})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

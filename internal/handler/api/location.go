package api

import (
	"net/http"

	"boxcric-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	locationQueries queries.LocationQueries
}

func NewLocationHandler(locationQueries queries.LocationQueries) *LocationHandler {
	return &LocationHandler{locationQueries: locationQueries}
}

// @Summary List serviceable cities
// @Tags locations
// @Produce json
// @Success 200 {array} queries.LocationView
// @Router /locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	views, err := h.locationQueries.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": views})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"delivery/internal/domain"
	"delivery/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// RegisterDriverRequest is the HTTP request body for driver registration.
type RegisterDriverRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	TravelMode string `json:"travel_mode"`
}

// UpdateLocationRequest is the HTTP request body for a position report.
// Pointers distinguish a missing coordinate from zero.
type UpdateLocationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// AvailabilityRequest is the HTTP request body for toggling availability.
type AvailabilityRequest struct {
	Available *bool `json:"available"`
}

// DriverResponse is the HTTP response for driver data.
type DriverResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	TravelMode  string `json:"travel_mode,omitempty"`
	IsAvailable bool   `json:"is_available"`
}

func toDriverResponse(d *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:          d.ID,
		Name:        d.Name,
		Phone:       d.Phone,
		TravelMode:  string(d.TravelMode),
		IsAvailable: d.IsAvailable,
	}
}

// Register handles POST /v1/drivers/register
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Register(c.Request.Context(), service.RegisterDriverRequest{
		Name:       req.Name,
		Phone:      req.Phone,
		TravelMode: req.TravelMode,
	})
	if errors.Is(err, service.ErrDriverAlreadyRegistered) && driver != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "Driver already registered",
			"driver":  toDriverResponse(driver),
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDriverResponse(driver))
}

// UpdateLocation handles POST /v1/drivers/:id/location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Lat == nil || req.Lng == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lat and lng are required"})
		return
	}

	err := h.driverService.UpdateLocation(c.Request.Context(), service.UpdateLocationRequest{
		DriverID: c.Param("id"),
		Lat:      *req.Lat,
		Lng:      *req.Lng,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetAvailability handles POST /v1/drivers/:id/availability
func (h *DriverHandler) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "available is required"})
		return
	}

	if err := h.driverService.SetAvailability(c.Request.Context(), c.Param("id"), *req.Available); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"delivery/internal/domain"
	"delivery/internal/service"
)

// RestaurantHandler handles HTTP requests for restaurants.
type RestaurantHandler struct {
	restaurantService *service.RestaurantService
}

// NewRestaurantHandler creates a new RestaurantHandler.
func NewRestaurantHandler(restaurantService *service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantService: restaurantService}
}

// RegisterRestaurantRequest is the HTTP request body for restaurant registration.
type RegisterRestaurantRequest struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

// RestaurantLocationRequest sets coordinates; both null clears them.
type RestaurantLocationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// RestaurantResponse is the HTTP response for restaurant data.
type RestaurantResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Location *LocationResponse `json:"location"`
}

// Register handles POST /v1/restaurants
func (h *RestaurantHandler) Register(c *gin.Context) {
	var req RegisterRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	restaurant, err := h.restaurantService.Register(c.Request.Context(), service.RegisterRestaurantRequest{
		Name: req.Name,
		Lat:  req.Lat,
		Lng:  req.Lng,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, RestaurantResponse{
		ID:       restaurant.ID,
		Name:     restaurant.Name,
		Location: toLocationResponse(restaurant.Location),
	})
}

// UpdateLocation handles PUT /v1/restaurants/:id/location
func (h *RestaurantHandler) UpdateLocation(c *gin.Context) {
	var req RestaurantLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		respondError(c, service.ErrInvalidLocation)
		return
	}

	var location *domain.GeoPoint
	if req.Lat != nil {
		location = &domain.GeoPoint{Latitude: *req.Lat, Longitude: *req.Lng}
	}

	if err := h.restaurantService.UpdateLocation(c.Request.Context(), c.Param("id"), location); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

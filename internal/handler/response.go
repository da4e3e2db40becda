package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"delivery/internal/domain"
	"delivery/internal/repository"
	"delivery/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Internal errors are not echoed to the client.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal error"
	}
	c.JSON(code, ErrorResponse{Error: msg})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidOrderID),
		errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidRestaurantID),
		errors.Is(err, service.ErrInvalidRestaurantName),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidDriverName),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidTravelMode),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidAdminID),
		errors.Is(err, service.ErrUnknownSetting),
		errors.Is(err, service.ErrInvalidSettingValue):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrOrderNotConfirmed),
		errors.Is(err, service.ErrOrderAlreadyAssigned),
		errors.Is(err, service.ErrDriverAlreadyRegistered):
		return http.StatusConflict

	// Service unavailable
	case errors.Is(err, service.ErrDispatchQueueFull):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// OrderResponse is the HTTP response for order data.
type OrderResponse struct {
	ID           string  `json:"id"`
	CustomerID   string  `json:"customer_id"`
	RestaurantID string  `json:"restaurant_id"`
	Status       string  `json:"status"`
	DriverID     *string `json:"driver_id"`
	AssignedBy   *string `json:"assigned_by"`
	AssignedAt   *string `json:"assigned_at"`
	ConfirmedAt  *string `json:"confirmed_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		RestaurantID: o.RestaurantID,
		Status:       string(o.Status),
		DriverID:     optionalString(o.DriverID),
		AssignedBy:   optionalString(o.AssignedBy),
		AssignedAt:   optionalTime(o.AssignedAt),
		ConfirmedAt:  optionalTime(o.ConfirmedAt),
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
	}
}

// OutcomeResponse is the HTTP response for an assignment attempt.
type OutcomeResponse struct {
	OrderID    string   `json:"order_id"`
	Outcome    string   `json:"outcome"`
	DriverID   *string  `json:"driver_id,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	ETAMinutes *int     `json:"eta_minutes,omitempty"`
}

func toOutcomeResponse(orderID string, o domain.Outcome) OutcomeResponse {
	resp := OutcomeResponse{OrderID: orderID, Outcome: string(o.Kind)}
	if o.IsAssigned() {
		resp.DriverID = &o.DriverID
		resp.DistanceKm = &o.DistanceKm
		resp.ETAMinutes = &o.ETAMinutes
	}
	return resp
}

// LocationResponse is a coordinate pair in responses.
type LocationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toLocationResponse(p *domain.GeoPoint) *LocationResponse {
	if p == nil {
		return nil
	}
	return &LocationResponse{Lat: p.Latitude, Lng: p.Longitude}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

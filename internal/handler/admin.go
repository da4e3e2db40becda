package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"delivery/internal/middleware"
	"delivery/internal/service"
)

// AdminHandler handles operator endpoints for assignment.
type AdminHandler struct {
	orderService    *service.OrderService
	settingsService *service.SettingsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(orderService *service.OrderService, settingsService *service.SettingsService) *AdminHandler {
	return &AdminHandler{
		orderService:    orderService,
		settingsService: settingsService,
	}
}

// AssignDriverRequest is the HTTP request body for manual assignment.
type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

// SettingRequest is the HTTP request body for updating a setting.
type SettingRequest struct {
	Value *int `json:"value"`
}

// SettingResponse is a single setting.
type SettingResponse struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// TriggerAssignment handles POST /v1/admin/orders/:id/assign
// Business outcomes, including no assignment, are 200 responses.
func (h *AdminHandler) TriggerAssignment(c *gin.Context) {
	orderID := c.Param("id")

	outcome, err := h.orderService.AssignNow(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOutcomeResponse(orderID, outcome))
}

// AssignDriver handles POST /v1/admin/orders/:id/assign-driver
func (h *AdminHandler) AssignDriver(c *gin.Context) {
	var req AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orderService.AssignManually(c.Request.Context(), c.Param("id"), req.DriverID, middleware.AdminID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// GetSettings handles GET /v1/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]SettingResponse, 0, len(settings))
	for _, s := range settings {
		response = append(response, SettingResponse{Key: s.Key, Value: s.Value})
	}
	respondJSON(c, http.StatusOK, response)
}

// UpdateSetting handles PUT /v1/admin/settings/:key
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "value is required"})
		return
	}

	key := c.Param("key")
	if err := h.settingsService.Set(c.Request.Context(), key, *req.Value); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SettingResponse{Key: key, Value: *req.Value})
}

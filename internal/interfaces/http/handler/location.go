package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
)

// LocationHandler handles location endpoints
type LocationHandler struct {
	BaseHandler
	service *inventoryapp.LocationService
}

// NewLocationHandler creates a LocationHandler
func NewLocationHandler(service *inventoryapp.LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// Create handles POST /locations
func (h *LocationHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	location, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, location)
}

// List handles GET /locations
func (h *LocationHandler) List(c *gin.Context) {
	var req inventoryapp.LocationListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	locations, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, locations)
}

// Get handles GET /locations/:id
func (h *LocationHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	location, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// Update handles PUT /locations/:id
func (h *LocationHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	location, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// SetStock handles PUT /locations/:id/stock
func (h *LocationHandler) SetStock(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.SetStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	stock, err := h.service.SetStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

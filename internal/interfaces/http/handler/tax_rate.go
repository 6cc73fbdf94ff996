package handler

import (
	"github.com/gin-gonic/gin"
	taxapp "github.com/stockroom/backend/internal/application/tax"
)

// TaxRateHandler handles tax rate endpoints
type TaxRateHandler struct {
	BaseHandler
	service *taxapp.RateService
}

// NewTaxRateHandler creates a TaxRateHandler
func NewTaxRateHandler(service *taxapp.RateService) *TaxRateHandler {
	return &TaxRateHandler{service: service}
}

type taxRateQuery struct {
	ActiveOnly bool `form:"active_only"`
}

// Create handles POST /tax-rates
func (h *TaxRateHandler) Create(c *gin.Context) {
	var req taxapp.CreateRateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rate, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rate)
}

// List handles GET /tax-rates?active_only=
func (h *TaxRateHandler) List(c *gin.Context) {
	var q taxRateQuery
	if !h.BindQuery(c, &q) {
		return
	}
	rates, err := h.service.List(c.Request.Context(), q.ActiveOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}

// Get handles GET /tax-rates/:id
func (h *TaxRateHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	rate, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}

// Update handles PUT /tax-rates/:id
func (h *TaxRateHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req taxapp.UpdateRateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rate, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}

// Delete handles DELETE /tax-rates/:id
func (h *TaxRateHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

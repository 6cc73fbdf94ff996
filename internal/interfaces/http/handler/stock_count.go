package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
)

// StockCountHandler handles the stock count wizard endpoints
type StockCountHandler struct {
	BaseHandler
	service *inventoryapp.StockCountService
}

// NewStockCountHandler creates a StockCountHandler
func NewStockCountHandler(service *inventoryapp.StockCountService) *StockCountHandler {
	return &StockCountHandler{service: service}
}

// Create handles POST /stock-counts
func (h *StockCountHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateStockCountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	count, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, count)
}

// List handles GET /stock-counts
func (h *StockCountHandler) List(c *gin.Context) {
	var req inventoryapp.StockCountListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	page, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get handles GET /stock-counts/:id
func (h *StockCountHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	count, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// ChangeStatus handles POST /stock-counts/:id/status
func (h *StockCountHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.StockCountStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	count, err := h.service.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// RecordCount handles PUT /stock-counts/:id/lines/:line_id
func (h *StockCountHandler) RecordCount(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.ParamID(c, "line_id")
	if !ok {
		return
	}
	var req inventoryapp.RecordCountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	line, err := h.service.RecordCount(c.Request.Context(), id, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// Progress handles GET /stock-counts/:id/progress
func (h *StockCountHandler) Progress(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	progress, err := h.service.Progress(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, progress)
}

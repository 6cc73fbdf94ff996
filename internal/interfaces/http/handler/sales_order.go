package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	tradeapp "github.com/stockroom/backend/internal/application/trade"
)

// SalesOrderHandler handles sales order endpoints
type SalesOrderHandler struct {
	BaseHandler
	service *tradeapp.SalesOrderService
}

// NewSalesOrderHandler creates a SalesOrderHandler
func NewSalesOrderHandler(service *tradeapp.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{service: service}
}

// salesOrderQuery binds GET /sales-orders. Dates are whole days.
type salesOrderQuery struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy     string     `form:"sort_by" binding:"omitempty,max=50"`
	SortDir    string     `form:"sort_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search     string     `form:"search" binding:"omitempty,max=100"`
	Status     string     `form:"status" binding:"omitempty,max=30"`
	CustomerID string     `form:"customer_id" binding:"omitempty,uuid"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
}

// Create handles POST /sales-orders
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSalesOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List handles GET /sales-orders
func (h *SalesOrderHandler) List(c *gin.Context) {
	var q salesOrderQuery
	if !h.BindQuery(c, &q) {
		return
	}
	customerID, err := optionalUUID(q.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer_id")
		return
	}
	page, err := h.service.List(c.Request.Context(), tradeapp.SalesOrderListRequest{
		Page:       q.Page,
		PageSize:   q.PageSize,
		SortBy:     q.SortBy,
		SortDir:    q.SortDir,
		Search:     q.Search,
		Status:     q.Status,
		CustomerID: customerID,
		From:       q.From,
		To:         q.To,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// StatusSummary handles GET /sales-orders/stats/status
func (h *SalesOrderHandler) StatusSummary(c *gin.Context) {
	summary, err := h.service.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Get handles GET /sales-orders/:id and returns the order with customer and lines
func (h *SalesOrderHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	details, err := h.service.GetDetails(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, details)
}

// Update handles PUT /sales-orders/:id
func (h *SalesOrderHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateSalesOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete handles DELETE /sales-orders/:id
func (h *SalesOrderHandler) Delete(c *gin.Context) {
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

// ChangeStatus handles POST /sales-orders/:id/status
func (h *SalesOrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.ChangeStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.service.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AddItem handles POST /sales-orders/:id/items
func (h *SalesOrderHandler) AddItem(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.OrderLineRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.service.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// UpdateItem handles PUT /sales-orders/:id/items/:item_id
func (h *SalesOrderHandler) UpdateItem(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.ParamID(c, "item_id")
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderLineRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.service.UpdateItem(c.Request.Context(), id, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RemoveItem handles DELETE /sales-orders/:id/items/:item_id
func (h *SalesOrderHandler) RemoveItem(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.ParamID(c, "item_id")
	if !ok {
		return
	}
	order, err := h.service.RemoveItem(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RecalculateItemTaxes handles POST /sales-orders/:id/items/:item_id/taxes/recalculate
func (h *SalesOrderHandler) RecalculateItemTaxes(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.ParamID(c, "item_id")
	if !ok {
		return
	}
	order, err := h.service.RecalculateItemTaxes(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// PickList handles GET /sales-orders/:id/pick-list
func (h *SalesOrderHandler) PickList(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	pickList, err := h.service.GetPickList(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pickList)
}

package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/stockroom/backend/internal/application/trade"
)

// PickListHandler handles pick list endpoints
type PickListHandler struct {
	BaseHandler
	service *tradeapp.PickListService
}

// NewPickListHandler creates a PickListHandler
func NewPickListHandler(service *tradeapp.PickListService) *PickListHandler {
	return &PickListHandler{service: service}
}

// Get handles GET /pick-lists/:id
func (h *PickListHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	pickList, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pickList)
}

// RecordPick handles PUT /pick-lists/:id/lines/:line_id
func (h *PickListHandler) RecordPick(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.ParamID(c, "line_id")
	if !ok {
		return
	}
	var req tradeapp.RecordPickRequest
	if !h.BindJSON(c, &req) {
		return
	}
	pickList, err := h.service.RecordPick(c.Request.Context(), id, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pickList)
}

// Complete handles POST /pick-lists/:id/complete
func (h *PickListHandler) Complete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	pickList, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pickList)
}

package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
)

// FolderHandler handles folder endpoints
type FolderHandler struct {
	BaseHandler
	service *inventoryapp.FolderService
}

// NewFolderHandler creates a FolderHandler
func NewFolderHandler(service *inventoryapp.FolderService) *FolderHandler {
	return &FolderHandler{service: service}
}

// Create handles POST /folders
func (h *FolderHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateFolderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	folder, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, folder)
}

// List handles GET /folders?parent_id=root|<id>&search=
func (h *FolderHandler) List(c *gin.Context) {
	var req inventoryapp.FolderListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	folders, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, folders)
}

// Get handles GET /folders/:id
func (h *FolderHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	folder, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, folder)
}

// Update handles PUT /folders/:id
func (h *FolderHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateFolderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	folder, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, folder)
}

// Move handles POST /folders/:id/move
func (h *FolderHandler) Move(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.MoveFolderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	folder, err := h.service.Move(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, folder)
}

// Delete handles DELETE /folders/:id
func (h *FolderHandler) Delete(c *gin.Context) {
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

// Stats handles GET /folders/:id/stats
func (h *FolderHandler) Stats(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

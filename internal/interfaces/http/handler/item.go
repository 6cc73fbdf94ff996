package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
)

// ItemHandler handles item, lot, serial and image endpoints
type ItemHandler struct {
	BaseHandler
	service *inventoryapp.ItemService
}

// NewItemHandler creates an ItemHandler
func NewItemHandler(service *inventoryapp.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// Create handles POST /items
func (h *ItemHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// List handles GET /items
func (h *ItemHandler) List(c *gin.Context) {
	var req inventoryapp.ItemListRequest
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

// Get handles GET /items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update handles PUT /items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete handles DELETE /items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
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

// Adjust handles POST /items/:id/adjust
func (h *ItemHandler) Adjust(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.AdjustQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.service.AdjustQuantity(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Locations handles GET /items/:id/locations
func (h *ItemHandler) Locations(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	rows, err := h.service.Locations(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Lots handles GET /items/:id/lots
func (h *ItemHandler) Lots(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	lots, err := h.service.Lots(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lots)
}

// AddLot handles POST /items/:id/lots
func (h *ItemHandler) AddLot(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.AddLotRequest
	if !h.BindJSON(c, &req) {
		return
	}
	lot, err := h.service.AddLot(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lot)
}

type serialQuery struct {
	Status string `form:"status" binding:"omitempty,max=20"`
}

// Serials handles GET /items/:id/serials?status=
func (h *ItemHandler) Serials(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var q serialQuery
	if !h.BindQuery(c, &q) {
		return
	}
	serials, err := h.service.Serials(c.Request.Context(), id, q.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, serials)
}

// AddSerial handles POST /items/:id/serials
func (h *ItemHandler) AddSerial(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.AddSerialRequest
	if !h.BindJSON(c, &req) {
		return
	}
	serial, err := h.service.AddSerial(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, serial)
}

type fefoQuery struct {
	Quantity   string `form:"quantity" binding:"required"`
	LocationID string `form:"location_id" binding:"omitempty,uuid"`
}

// FEFO handles GET /items/:id/fefo?quantity=&location_id=
func (h *ItemHandler) FEFO(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var q fefoQuery
	if !h.BindQuery(c, &q) {
		return
	}
	qty, err := decimal.NewFromString(q.Quantity)
	if err != nil {
		h.BadRequest(c, "Invalid quantity")
		return
	}
	locationID, err := optionalUUID(q.LocationID)
	if err != nil {
		h.BadRequest(c, "Invalid location_id")
		return
	}
	suggestion, err := h.service.FEFO(c.Request.Context(), id, inventoryapp.FEFORequest{Quantity: qty, LocationID: locationID})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suggestion)
}

// ImageUploadURL handles POST /items/:id/image-upload-url
func (h *ItemHandler) ImageUploadURL(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.ImageUploadRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.ImageUploadURL(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ImageURL handles GET /items/:id/image-url
func (h *ItemHandler) ImageURL(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.ImageURL(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteImage handles DELETE /items/:id/image
func (h *ItemHandler) DeleteImage(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteImage(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

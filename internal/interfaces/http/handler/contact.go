package handler

import (
	"github.com/gin-gonic/gin"
	contactapp "github.com/stockroom/backend/internal/application/contact"
)

// ContactHandler serves the contact picker
type ContactHandler struct {
	BaseHandler
	service *contactapp.Service
}

// NewContactHandler creates a ContactHandler
func NewContactHandler(service *contactapp.Service) *ContactHandler {
	return &ContactHandler{service: service}
}

// List handles GET /contacts?type=customer|member&search=&limit=
func (h *ContactHandler) List(c *gin.Context) {
	var req contactapp.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	contacts, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contacts)
}

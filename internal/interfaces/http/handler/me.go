package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/stockroom/backend/internal/application/identity"
)

// MeHandler serves the caller's own profile
type MeHandler struct {
	BaseHandler
	service *identityapp.MeService
}

// NewMeHandler creates a MeHandler
func NewMeHandler(service *identityapp.MeService) *MeHandler {
	return &MeHandler{service: service}
}

// Get handles GET /me
func (h *MeHandler) Get(c *gin.Context) {
	me, err := h.service.Me(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, me)
}

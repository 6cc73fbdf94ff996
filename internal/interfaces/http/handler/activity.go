package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	activityapp "github.com/stockroom/backend/internal/application/activity"
)

// ActivityHandler serves the activity log
type ActivityHandler struct {
	BaseHandler
	service *activityapp.Service
}

// NewActivityHandler creates an ActivityHandler
func NewActivityHandler(service *activityapp.Service) *ActivityHandler {
	return &ActivityHandler{service: service}
}

type activityQuery struct {
	EntityType string     `form:"entity_type" binding:"omitempty,max=50"`
	UserID     string     `form:"user_id" binding:"omitempty,uuid"`
	Since      *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit      int        `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset     int        `form:"offset" binding:"omitempty,min=0"`
}

// Recent handles GET /activity
func (h *ActivityHandler) Recent(c *gin.Context) {
	var q activityQuery
	if !h.BindQuery(c, &q) {
		return
	}
	userID, err := optionalUUID(q.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user_id")
		return
	}
	resp, err := h.service.Recent(c.Request.Context(), activityapp.ListRequest{
		EntityType: q.EntityType,
		UserID:     userID,
		Since:      q.Since,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ForEntity handles GET /activity/:entity_type/:entity_id
func (h *ActivityHandler) ForEntity(c *gin.Context) {
	entityID, ok := h.ParamID(c, "entity_id")
	if !ok {
		return
	}
	var req activityapp.EntityRequest
	if !h.BindQuery(c, &req) {
		return
	}
	resp, err := h.service.ForEntity(c.Request.Context(), c.Param("entity_type"), entityID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

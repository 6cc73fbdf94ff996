package handler

import (
	"github.com/gin-gonic/gin"
	jobapp "github.com/stockroom/backend/internal/application/job"
)

// JobHandler handles job endpoints
type JobHandler struct {
	BaseHandler
	service *jobapp.JobService
}

// NewJobHandler creates a JobHandler
func NewJobHandler(service *jobapp.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// Create handles POST /jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req jobapp.CreateJobRequest
	if !h.BindJSON(c, &req) {
		return
	}
	job, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, job)
}

// List handles GET /jobs
func (h *JobHandler) List(c *gin.Context) {
	var req jobapp.JobListRequest
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

// Get handles GET /jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	job, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// Update handles PUT /jobs/:id, status changes included
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req jobapp.UpdateJobRequest
	if !h.BindJSON(c, &req) {
		return
	}
	job, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// Delete handles DELETE /jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
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

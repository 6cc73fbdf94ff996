package job

import (
	"time"

	"github.com/google/uuid"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/job"
)

// CreateJobRequest is the request body for creating a job
type CreateJobRequest struct {
	Name       string     `json:"name" binding:"required,min=1,max=200"`
	CustomerID *uuid.UUID `json:"customer_id"`
	StartDate  *time.Time `json:"start_date"`
	DueDate    *time.Time `json:"due_date"`
	Notes      string     `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateJobRequest changes the fields that are set. ClearCustomer unlinks the customer.
type UpdateJobRequest struct {
	Name          *string    `json:"name" binding:"omitempty,min=1,max=200"`
	CustomerID    *uuid.UUID `json:"customer_id"`
	ClearCustomer bool       `json:"clear_customer"`
	Status        *string    `json:"status" binding:"omitempty,oneof=planned active completed cancelled"`
	StartDate     *time.Time `json:"start_date"`
	DueDate       *time.Time `json:"due_date"`
	Notes         *string    `json:"notes" binding:"omitempty,max=2000"`
}

// JobListRequest binds the job list query
type JobListRequest struct {
	appshared.ListParams
	Status     string `form:"status" binding:"omitempty,oneof=planned active completed cancelled"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
}

// JobResponse is a job in API responses
type JobResponse struct {
	ID          uuid.UUID  `json:"id"`
	DisplayID   string     `json:"display_id"`
	Name        string     `json:"name"`
	CustomerID  *uuid.UUID `json:"customer_id,omitempty"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsOverdue   bool       `json:"is_overdue"`
	Notes       string     `json:"notes"`
	Version     int        `json:"version"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToJobResponse converts a domain job
func ToJobResponse(j *job.Job, at time.Time) JobResponse {
	return JobResponse{
		ID:          j.ID,
		DisplayID:   j.DisplayID,
		Name:        j.Name,
		CustomerID:  j.CustomerID,
		Status:      string(j.Status),
		StartDate:   j.StartDate,
		DueDate:     j.DueDate,
		CompletedAt: j.CompletedAt,
		IsOverdue:   j.IsOverdue(at),
		Notes:       j.Notes,
		Version:     j.Version,
		CreatedBy:   j.CreatedBy,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

package job

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// AggregateTypeJob names the job aggregate in events and activity logs
const AggregateTypeJob = "job"

// Event type constants
const (
	EventTypeJobCreated       = "JobCreated"
	EventTypeJobUpdated       = "JobUpdated"
	EventTypeJobDeleted       = "JobDeleted"
	EventTypeJobStatusChanged = "JobStatusChanged"
)

// Status is the state of a job
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var jobTransitions = map[Status][]Status{
	StatusPlanned:   {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusCancelled, StatusPlanned},
	StatusCompleted: {StatusActive},
	StatusCancelled: {StatusPlanned},
}

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	_, ok := jobTransitions[s]
	return ok
}

// CanTransitionTo reports whether target is reachable. Self transitions are valid.
func (s Status) CanTransitionTo(target Status) bool {
	if !s.IsValid() || !target.IsValid() {
		return false
	}
	if s == target {
		return true
	}
	for _, next := range jobTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Job groups work done for a customer, such as an installation or a project
type Job struct {
	shared.TenantAggregateRoot
	DisplayID   string
	Name        string
	CustomerID  *uuid.UUID
	Status      Status
	StartDate   *time.Time
	DueDate     *time.Time
	CompletedAt *time.Time
	Notes       string
}

// NewJob creates a planned job
func NewJob(tenantID uuid.UUID, displayID, name string) (*Job, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Job name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("Job name cannot exceed 200 characters")
	}
	j := &Job{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DisplayID:           displayID,
		Name:                name,
		Status:              StatusPlanned,
	}
	j.AddDomainEvent(&JobEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobCreated, AggregateTypeJob, j.ID, tenantID),
		DisplayID:       displayID,
		Name:            name,
	})
	return j, nil
}

// Update changes the descriptive fields
func (j *Job) Update(name string, customerID *uuid.UUID, start, due *time.Time, notes string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Job name is required")
	}
	if start != nil && due != nil && due.Before(*start) {
		return shared.NewValidationError("Due date cannot be before the start date")
	}
	j.Name = name
	j.CustomerID = customerID
	j.StartDate = start
	j.DueDate = due
	j.Notes = strings.TrimSpace(notes)
	j.Touch()
	return nil
}

// MarkUpdated records a JobUpdated event once an edit is complete
func (j *Job) MarkUpdated() {
	j.AddDomainEvent(j.event(EventTypeJobUpdated))
}

// NewJobDeletedEvent is published after a job row is removed
func NewJobDeletedEvent(j *Job) *JobEvent {
	return j.event(EventTypeJobDeleted)
}

func (j *Job) event(eventType string) *JobEvent {
	return &JobEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeJob, j.ID, j.TenantID),
		DisplayID:       j.DisplayID,
		Name:            j.Name,
	}
}

// ChangeStatus moves the job to target
func (j *Job) ChangeStatus(target Status) error {
	if !j.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot change job status from %s to %s", j.Status, target))
	}
	if j.Status == target {
		return nil
	}
	if target == StatusCompleted {
		now := time.Now()
		j.CompletedAt = &now
	} else {
		j.CompletedAt = nil
	}
	from := j.Status
	j.Status = target
	j.Touch()
	j.AddDomainEvent(&JobEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobStatusChanged, AggregateTypeJob, j.ID, j.TenantID),
		DisplayID:       j.DisplayID,
		Name:            j.Name,
		From:            string(from),
		To:              string(target),
	})
	return nil
}

// IsOverdue reports whether an open job is past its due date
func (j *Job) IsOverdue(at time.Time) bool {
	if j.DueDate == nil || j.Status == StatusCompleted || j.Status == StatusCancelled {
		return false
	}
	return at.After(*j.DueDate)
}

// JobEvent is published for job lifecycle changes
type JobEvent struct {
	shared.BaseDomainEvent
	DisplayID string `json:"display_id"`
	Name      string `json:"name"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
}

// Repository persists jobs
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)
	// FindAllForTenant supports the filters status and customer_id
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Job, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, job *Job) error
	SaveWithLock(ctx context.Context, job *Job) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

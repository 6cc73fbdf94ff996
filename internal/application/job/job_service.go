// Package job implements the job use cases: planned work for a customer.
package job

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/job"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const resourceJob = "Job"

// JobService handles job use cases
type JobService struct {
	jobs      job.Repository
	txScope   appshared.TransactionScope
	publisher shared.EventPublisher
}

// NewJobService creates a new JobService
func NewJobService(jobs job.Repository, txScope appshared.TransactionScope, publisher shared.EventPublisher) *JobService {
	return &JobService{jobs: jobs, txScope: txScope, publisher: publisher}
}

// Create creates a planned job
func (s *JobService) Create(ctx context.Context, req CreateJobRequest) (*JobResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		j      *job.Job
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		if err := verifyCustomer(ctx, repos, auth, req.CustomerID); err != nil {
			return err
		}
		displayID, err := repos.DisplayIDs().Next(ctx, auth.TenantID, shared.EntityJob)
		if err != nil {
			return err
		}
		j, err = job.NewJob(auth.TenantID, displayID, req.Name)
		if err != nil {
			return err
		}
		j.SetCreatedBy(auth.UserID)
		if err := j.Update(j.Name, req.CustomerID, req.StartDate, req.DueDate, req.Notes); err != nil {
			return err
		}
		if err := repos.Jobs().Save(ctx, j); err != nil {
			return err
		}
		events.Collect(j)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	logger.L(ctx).Info("Job created", zap.String("job_id", j.ID.String()), zap.String("display_id", j.DisplayID))
	resp := ToJobResponse(j, time.Now())
	return &resp, nil
}

// GetByID returns a job of the caller's tenant
func (s *JobService) GetByID(ctx context.Context, id uuid.UUID) (*JobResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	j, err := guard.Own[*job.Job](auth, resourceJob)(s.jobs.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	resp := ToJobResponse(j, time.Now())
	return &resp, nil
}

// List returns a page of jobs
func (s *JobService) List(ctx context.Context, req JobListRequest) (*shared.Paginated[JobResponse], error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}

	filter := req.ListParams.Filter()
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.CustomerID != "" {
		filter.Filters["customer_id"] = req.CustomerID
	}

	jobs, err := s.jobs.FindAllForTenant(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.jobs.CountForTenant(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]JobResponse, len(jobs))
	for i := range jobs {
		items[i] = ToJobResponse(&jobs[i], now)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update applies the present fields and, when given, the status change
func (s *JobService) Update(ctx context.Context, id uuid.UUID, req UpdateJobRequest) (*JobResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}
	if req.Status != nil && !job.Status(*req.Status).IsValid() {
		return nil, shared.NewValidationError("Unknown job status: " + *req.Status)
	}

	var (
		j      *job.Job
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		j, err = guard.Own[*job.Job](auth, resourceJob)(repos.Jobs().FindByID(ctx, id))
		if err != nil {
			return err
		}

		name, customerID, start, due, notes := j.Name, j.CustomerID, j.StartDate, j.DueDate, j.Notes
		if req.Name != nil {
			name = *req.Name
		}
		switch {
		case req.ClearCustomer:
			customerID = nil
		case req.CustomerID != nil:
			if err := verifyCustomer(ctx, repos, auth, req.CustomerID); err != nil {
				return err
			}
			customerID = req.CustomerID
		}
		if req.StartDate != nil {
			start = req.StartDate
		}
		if req.DueDate != nil {
			due = req.DueDate
		}
		if req.Notes != nil {
			notes = *req.Notes
		}
		if err := j.Update(name, customerID, start, due, notes); err != nil {
			return err
		}
		j.MarkUpdated()
		if req.Status != nil {
			if err := j.ChangeStatus(job.Status(*req.Status)); err != nil {
				return err
			}
		}

		if err := repos.Jobs().SaveWithLock(ctx, j); err != nil {
			return err
		}
		events.Collect(j)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	resp := ToJobResponse(j, time.Now())
	return &resp, nil
}

// Delete removes a job. Requires admin.
func (s *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	auth, err := guard.Authorize(ctx, identity.PermissionAdmin)
	if err != nil {
		return err
	}

	var events appshared.EventCollector
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		j, err := guard.Own[*job.Job](auth, resourceJob)(repos.Jobs().FindByID(ctx, id))
		if err != nil {
			return err
		}
		if err := repos.Jobs().Delete(ctx, auth.TenantID, j.ID); err != nil {
			return err
		}
		events.Add(job.NewJobDeletedEvent(j))
		return nil
	})
	if err != nil {
		return err
	}

	events.Publish(ctx, s.publisher)
	logger.L(ctx).Info("Job deleted", zap.String("job_id", id.String()))
	return nil
}

// verifyCustomer checks that a referenced customer belongs to the caller
func verifyCustomer(ctx context.Context, repos appshared.Repositories, auth *guard.AuthContext, customerID *uuid.UUID) error {
	if customerID == nil {
		return nil
	}
	_, err := guard.Own[*partner.Customer](auth, "Customer")(repos.Customers().FindByID(ctx, *customerID))
	return err
}

package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/job"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stockroom/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormJobRepository implements job.Repository using GORM
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// FindByID finds a job by its ID
func (r *GormJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	var model models.JobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, TranslateError(err, "Job")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists jobs matching the filter
func (r *GormJobRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]job.Job, error) {
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.JobModel{}).Scopes(tenant.Scope(tenantID)), filter),
		filter, JobSortFields, "created_at")

	var rows []models.JobModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	jobs := make([]job.Job, len(rows))
	for i := range rows {
		jobs[i] = *rows[i].ToDomain()
	}
	return jobs, nil
}

// CountForTenant counts jobs matching the filter
func (r *GormJobRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.JobModel{}).Scopes(tenant.Scope(tenantID)), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a job
func (r *GormJobRepository) Save(ctx context.Context, j *job.Job) error {
	return TranslateError(r.db.WithContext(ctx).Save(models.JobModelFromDomain(j)).Error, "Job")
}

// SaveWithLock updates a job if its version is unchanged
func (r *GormJobRepository) SaveWithLock(ctx context.Context, j *job.Job) error {
	model := models.JobModelFromDomain(j)
	model.Version = j.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), model, j.ID, j.Version); err != nil {
		return TranslateError(err, "Job")
	}
	j.Version = model.Version
	return nil
}

// Delete removes a job
func (r *GormJobRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Delete(&models.JobModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Job")
	}
	return nil
}

func (r *GormJobRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name", "display_id")
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", stringFilter(value))
		case "customer_id":
			if id, ok := uuidFilter(value); ok {
				query = query.Where("customer_id = ?", id)
			}
		}
	}
	return query
}

var _ job.Repository = (*GormJobRepository)(nil)

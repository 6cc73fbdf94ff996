package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/activity"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stockroom/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormActivityRepository implements activity.Repository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create appends an activity entry
func (r *GormActivityRepository) Create(ctx context.Context, log *activity.Log) error {
	return r.db.WithContext(ctx).Create(models.ActivityLogModelFromDomain(log)).Error
}

// List returns the newest entries matching the query and the total count
func (r *GormActivityRepository) List(ctx context.Context, tenantID uuid.UUID, q activity.Query) ([]activity.Log, int64, error) {
	q = q.Normalize()
	query := r.db.WithContext(ctx).Model(&models.ActivityLogModel{}).Scopes(tenant.Scope(tenantID))
	if q.EntityType != "" {
		query = query.Where("entity_type = ?", q.EntityType)
	}
	if q.EntityID != nil {
		query = query.Where("entity_id = ?", *q.EntityID)
	}
	if q.UserID != nil {
		query = query.Where("user_id = ?", *q.UserID)
	}
	if q.Since != nil {
		query = query.Where("created_at >= ?", *q.Since)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ActivityLogModel
	if err := query.Order("created_at DESC").Offset(q.Offset).Limit(q.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	logs := make([]activity.Log, len(rows))
	for i := range rows {
		logs[i] = rows[i].ToDomain()
	}
	return logs, total, nil
}

var _ activity.Repository = (*GormActivityRepository)(nil)

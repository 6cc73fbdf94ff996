package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/trade"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stockroom/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormPickListRepository implements trade.PickListRepository using GORM
type GormPickListRepository struct {
	db *gorm.DB
}

// NewGormPickListRepository creates a new GormPickListRepository
func NewGormPickListRepository(db *gorm.DB) *GormPickListRepository {
	return &GormPickListRepository{db: db}
}

func (r *GormPickListRepository) withLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") })
}

// FindByID loads a pick list with its lines
func (r *GormPickListRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PickList, error) {
	var model models.PickListModel
	if err := r.withLines(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, TranslateError(err, "Pick list")
	}
	return model.ToDomain(), nil
}

// FindActiveByOrder returns the pending or in-progress pick list of an order
func (r *GormPickListRepository) FindActiveByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*trade.PickList, error) {
	var model models.PickListModel
	err := r.withLines(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("sales_order_id = ? AND status IN ?", orderID,
			[]string{string(trade.PickListStatusPending), string(trade.PickListStatusInProgress)}).
		First(&model).Error
	if err != nil {
		return nil, TranslateError(err, "Pick list")
	}
	return model.ToDomain(), nil
}

// FindLatestByOrder returns the newest pick list of an order in any status
func (r *GormPickListRepository) FindLatestByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*trade.PickList, error) {
	var model models.PickListModel
	err := r.withLines(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("sales_order_id = ?", orderID).
		Order("created_at DESC").
		Take(&model).Error
	if err != nil {
		return nil, TranslateError(err, "Pick list")
	}
	return model.ToDomain(), nil
}

// Save creates or updates a pick list and replaces its lines
func (r *GormPickListRepository) Save(ctx context.Context, pickList *trade.PickList) error {
	model := models.PickListModelFromDomain(pickList)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(model).Error; err != nil {
			return TranslateError(err, "Pick list")
		}
		if err := tx.Where("pick_list_id = ?", pickList.ID).Delete(&models.PickListLineModel{}).Error; err != nil {
			return err
		}
		if len(model.Lines) == 0 {
			return nil
		}
		return tx.CreateInBatches(model.Lines, 200).Error
	})
}

// SaveWithLock updates a pick list if its version is unchanged and replaces its lines
func (r *GormPickListRepository) SaveWithLock(ctx context.Context, pickList *trade.PickList) error {
	model := models.PickListModelFromDomain(pickList)
	model.Version = pickList.Version + 1
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, model, pickList.ID, pickList.Version); err != nil {
			return err
		}
		if err := tx.Where("pick_list_id = ?", pickList.ID).Delete(&models.PickListLineModel{}).Error; err != nil {
			return err
		}
		if len(model.Lines) == 0 {
			return nil
		}
		return tx.CreateInBatches(model.Lines, 200).Error
	})
	if err != nil {
		return TranslateError(err, "Pick list")
	}
	pickList.Version = model.Version
	return nil
}

var _ trade.PickListRepository = (*GormPickListRepository)(nil)

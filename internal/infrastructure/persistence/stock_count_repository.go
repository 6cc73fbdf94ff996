package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stockroom/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormStockCountRepository implements inventory.StockCountRepository using GORM
type GormStockCountRepository struct {
	db *gorm.DB
}

// NewGormStockCountRepository creates a new GormStockCountRepository
func NewGormStockCountRepository(db *gorm.DB) *GormStockCountRepository {
	return &GormStockCountRepository{db: db}
}

// FindByID loads a stock count with its lines
func (r *GormStockCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockCount, error) {
	var model models.StockCountModel
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, TranslateError(err, "Stock count")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists stock counts without lines. Filters: status
func (r *GormStockCountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockCount, error) {
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.StockCountModel{}).Scopes(tenant.Scope(tenantID)), filter),
		filter, StockCountSortFields, "created_at")

	var rows []models.StockCountModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make([]inventory.StockCount, len(rows))
	for i := range rows {
		counts[i] = *rows[i].ToDomain()
	}
	return counts, nil
}

// CountForTenant counts stock counts matching the filter
func (r *GormStockCountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.StockCountModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a stock count and replaces its lines
func (r *GormStockCountRepository) Save(ctx context.Context, count *inventory.StockCount) error {
	model := models.StockCountModelFromDomain(count)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(model).Error; err != nil {
			return TranslateError(err, "Stock count")
		}
		return replaceStockCountLines(tx, count.ID, model.Lines)
	})
}

// SaveWithLock updates a stock count if its version is unchanged and replaces its lines
func (r *GormStockCountRepository) SaveWithLock(ctx context.Context, count *inventory.StockCount) error {
	model := models.StockCountModelFromDomain(count)
	model.Version = count.Version + 1
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, model, count.ID, count.Version); err != nil {
			return err
		}
		return replaceStockCountLines(tx, count.ID, model.Lines)
	})
	if err != nil {
		return TranslateError(err, "Stock count")
	}
	count.Version = model.Version
	return nil
}

func replaceStockCountLines(tx *gorm.DB, countID uuid.UUID, lines []models.StockCountLineModel) error {
	if err := tx.Where("stock_count_id = ?", countID).Delete(&models.StockCountLineModel{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return tx.CreateInBatches(lines, 200).Error
}

func (r *GormStockCountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name", "display_id")
	if v, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", stringFilter(v))
	}
	return query
}

var _ inventory.StockCountRepository = (*GormStockCountRepository)(nil)

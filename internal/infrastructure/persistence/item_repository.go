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

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ItemModel{}).Where("deleted_at IS NULL")
}

// FindByID finds an item that has not been deleted
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var model models.ItemModel
	if err := r.live(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, TranslateError(err, "Item")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists items matching the filter
func (r *GormItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	query := r.applyFilter(r.live(ctx).Scopes(tenant.Scope(tenantID)), tenantID, filter)
	query = paginate(query, filter, ItemSortFields, "name")

	var rows []models.ItemModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toItems(rows), nil
}

// CountForTenant counts items matching the filter
func (r *GormItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.live(ctx).Scopes(tenant.Scope(tenantID)), tenantID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByIDs loads the given items of a tenant
func (r *GormItemRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]inventory.Item, error) {
	if len(ids) == 0 {
		return []inventory.Item{}, nil
	}
	var rows []models.ItemModel
	if err := r.live(ctx).Scopes(tenant.Scope(tenantID)).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toItems(rows), nil
}

// FindInFolderTree returns the items of a folder subtree, or all items when folderPath is empty
func (r *GormItemRepository) FindInFolderTree(ctx context.Context, tenantID uuid.UUID, folderPath string) ([]inventory.Item, error) {
	query := r.live(ctx).Scopes(tenant.Scope(tenantID))
	if folderPath != "" {
		query = query.Where("folder_id IN (?)", folderSubtree(r.db.WithContext(ctx), tenantID, folderPath))
	}
	var rows []models.ItemModel
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toItems(rows), nil
}

// Save creates or updates an item
func (r *GormItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	return TranslateError(r.db.WithContext(ctx).Save(models.ItemModelFromDomain(item)).Error, "Item")
}

// SaveWithLock updates an item if its version is unchanged
func (r *GormItemRepository) SaveWithLock(ctx context.Context, item *inventory.Item) error {
	model := models.ItemModelFromDomain(item)
	model.Version = item.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), model, item.ID, item.Version); err != nil {
		return TranslateError(err, "Item")
	}
	item.Version = model.Version
	return nil
}

func (r *GormItemRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name", "sku", "barcode", "display_id")
	for key, value := range filter.Filters {
		switch key {
		case "folder_id":
			if s, ok := value.(string); ok && s == "root" {
				query = query.Where("folder_id IS NULL")
			} else if id, ok := uuidFilter(value); ok {
				query = query.Where("folder_id = ?", id)
			}
		case "folder_path":
			if p := stringFilter(value); p != "" {
				query = query.Where("folder_id IN (?)", folderSubtree(r.db, tenantID, p))
			}
		case "stock_status":
			switch inventory.StockStatus(stringFilter(value)) {
			case inventory.StockStatusOutOfStock:
				query = query.Where("quantity <= 0")
			case inventory.StockStatusLowStock:
				query = query.Where("quantity > 0 AND quantity <= min_quantity")
			case inventory.StockStatusInStock:
				query = query.Where("quantity > 0 AND quantity > min_quantity")
			}
		case "tracking_mode":
			query = query.Where("tracking_mode = ?", stringFilter(value))
		}
	}
	return query
}

// folderSubtree selects the ids of every folder whose path starts with path.
// Paths hold only uuids and slashes, so the pattern needs no escaping.
func folderSubtree(db *gorm.DB, tenantID uuid.UUID, path string) *gorm.DB {
	return db.Model(&models.FolderModel{}).
		Select("id").
		Scopes(tenant.Scope(tenantID)).
		Where("path LIKE ?", path+"%")
}

func toItems(rows []models.ItemModel) []inventory.Item {
	items := make([]inventory.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items
}

var _ inventory.ItemRepository = (*GormItemRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stockroom/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLocationRepository implements inventory.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location by its ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Location, error) {
	var model models.LocationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, TranslateError(err, "Location")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists locations. Filters: is_active (bool), type
func (r *GormLocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Location, error) {
	query := r.db.WithContext(ctx).Model(&models.LocationModel{}).Scopes(tenant.Scope(tenantID))
	query = searchAny(query, filter.Search, "name", "code")
	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			if b, ok := value.(bool); ok {
				query = query.Where("is_active = ?", b)
			}
		case "type":
			query = query.Where("type = ?", stringFilter(value))
		}
	}
	field := ValidateSortField(filter.OrderBy, LocationSortFields, "name")
	dir := ValidateSortOrder(filter.OrderDir, "ASC")

	var rows []models.LocationModel
	if err := query.Order(field + " " + dir).Find(&rows).Error; err != nil {
		return nil, err
	}
	locations := make([]inventory.Location, len(rows))
	for i := range rows {
		locations[i] = *rows[i].ToDomain()
	}
	return locations, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, location *inventory.Location) error {
	return TranslateError(r.db.WithContext(ctx).Save(models.LocationModelFromDomain(location)).Error, "Location")
}

// FindStock returns the stock of an item at a location, locking the row for
// the rest of the transaction. A missing row reads as zero quantity.
func (r *GormLocationRepository) FindStock(ctx context.Context, tenantID, itemID, locationID uuid.UUID) (*inventory.LocationStock, error) {
	var model models.LocationStockModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(tenantID)).
		Where("item_id = ? AND location_id = ?", itemID, locationID).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &inventory.LocationStock{
			TenantID:   tenantID,
			ItemID:     itemID,
			LocationID: locationID,
			Quantity:   decimal.Zero,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindStocksForItem lists the non-empty stock rows of an item
func (r *GormLocationRepository) FindStocksForItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]inventory.LocationStock, error) {
	var rows []models.LocationStockModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("item_id = ? AND quantity > 0", itemID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	stocks := make([]inventory.LocationStock, len(rows))
	for i := range rows {
		stocks[i] = *rows[i].ToDomain()
	}
	return stocks, nil
}

// FindStocksAtLocation lists the non-empty stock rows held at a location
func (r *GormLocationRepository) FindStocksAtLocation(ctx context.Context, tenantID, locationID uuid.UUID) ([]inventory.LocationStock, error) {
	var rows []models.LocationStockModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("location_id = ? AND quantity > 0", locationID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	stocks := make([]inventory.LocationStock, len(rows))
	for i := range rows {
		stocks[i] = *rows[i].ToDomain()
	}
	return stocks, nil
}

// SaveStock upserts the stock row of an item at a location
func (r *GormLocationRepository) SaveStock(ctx context.Context, stock *inventory.LocationStock) error {
	stock.UpdatedAt = time.Now()
	model := &models.LocationStockModel{
		TenantID:   stock.TenantID,
		ItemID:     stock.ItemID,
		LocationID: stock.LocationID,
		Quantity:   stock.Quantity,
		UpdatedAt:  stock.UpdatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}, {Name: "location_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(model).Error
}

// ItemLocations lists the per-location quantities of an item with location details
func (r *GormLocationRepository) ItemLocations(ctx context.Context, tenantID, itemID uuid.UUID) ([]inventory.ItemLocation, error) {
	type row struct {
		LocationID   uuid.UUID
		LocationName string
		LocationCode string
		LocationType string
		Quantity     decimal.Decimal
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("location_stock AS ls").
		Select("ls.location_id, l.name AS location_name, l.code AS location_code, l.type AS location_type, ls.quantity").
		Joins("JOIN locations AS l ON l.id = ls.location_id").
		Scopes(tenant.ScopeTable("ls", tenantID)).
		Where("ls.item_id = ? AND ls.quantity > 0", itemID).
		Order("ls.quantity DESC, l.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]inventory.ItemLocation, len(rows))
	for i, rw := range rows {
		out[i] = inventory.ItemLocation{
			LocationID:   rw.LocationID,
			LocationName: rw.LocationName,
			LocationCode: rw.LocationCode,
			LocationType: inventory.LocationType(rw.LocationType),
			Quantity:     rw.Quantity,
		}
	}
	return out, nil
}

var _ inventory.LocationRepository = (*GormLocationRepository)(nil)

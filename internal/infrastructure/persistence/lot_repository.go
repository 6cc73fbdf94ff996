package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stockroom/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormLotRepository implements inventory.LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// FindByID finds a lot by its ID
func (r *GormLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Lot, error) {
	var model models.LotModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, TranslateError(err, "Lot")
	}
	return model.ToDomain(), nil
}

// FindByItem lists the lots of an item by expiry, lots without expiry last
func (r *GormLotRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]inventory.Lot, error) {
	var rows []models.LotModel
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("item_id = ?", itemID).
		Order("CASE WHEN expiry_date IS NULL THEN 1 ELSE 0 END, expiry_date ASC, received_at ASC, lot_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	lots := make([]inventory.Lot, len(rows))
	for i := range rows {
		lots[i] = *rows[i].ToDomain()
	}
	return lots, nil
}

// Save creates or updates a lot
func (r *GormLotRepository) Save(ctx context.Context, lot *inventory.Lot) error {
	return TranslateError(r.db.WithContext(ctx).Save(models.LotModelFromDomain(lot)).Error, "Lot")
}

// GormSerialRepository implements inventory.SerialRepository using GORM
type GormSerialRepository struct {
	db *gorm.DB
}

// NewGormSerialRepository creates a new GormSerialRepository
func NewGormSerialRepository(db *gorm.DB) *GormSerialRepository {
	return &GormSerialRepository{db: db}
}

// FindByItem lists the serials of an item, optionally in one status
func (r *GormSerialRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, status inventory.SerialStatus) ([]inventory.Serial, error) {
	query := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("item_id = ?", itemID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var rows []models.SerialModel
	if err := query.Order("serial_number ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	serials := make([]inventory.Serial, len(rows))
	for i := range rows {
		serials[i] = *rows[i].ToDomain()
	}
	return serials, nil
}

// Save creates or updates a serial
func (r *GormSerialRepository) Save(ctx context.Context, serial *inventory.Serial) error {
	return TranslateError(r.db.WithContext(ctx).Save(models.SerialModelFromDomain(serial)).Error, "Serial")
}

var (
	_ inventory.LotRepository    = (*GormLotRepository)(nil)
	_ inventory.SerialRepository = (*GormSerialRepository)(nil)
)

package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/tax"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stockroom/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormTaxRateRepository implements tax.Repository using GORM
type GormTaxRateRepository struct {
	db *gorm.DB
}

// NewGormTaxRateRepository creates a new GormTaxRateRepository
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{db: db}
}

// FindByID finds a tax rate by its ID
func (r *GormTaxRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*tax.Rate, error) {
	var model models.TaxRateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, TranslateError(err, "Tax rate")
	}
	return model.ToDomain(), nil
}

// FindByIDs loads the given rates of a tenant, non-compound first
func (r *GormTaxRateRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]tax.Rate, error) {
	if len(ids) == 0 {
		return []tax.Rate{}, nil
	}
	return r.find(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id IN ?", ids))
}

// FindAllForTenant lists tax rates, optionally only active ones
func (r *GormTaxRateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]tax.Rate, error) {
	query := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID))
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	return r.find(query)
}

// FindDefaults lists the active default rates of a tenant
func (r *GormTaxRateRepository) FindDefaults(ctx context.Context, tenantID uuid.UUID) ([]tax.Rate, error) {
	return r.find(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("is_default = ? AND is_active = ?", true, true))
}

func (r *GormTaxRateRepository) find(query *gorm.DB) ([]tax.Rate, error) {
	var rows []models.TaxRateModel
	if err := query.Order("is_compound ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	rates := make([]tax.Rate, len(rows))
	for i := range rows {
		rates[i] = *rows[i].ToDomain()
	}
	return rates, nil
}

// Save creates or updates a tax rate
func (r *GormTaxRateRepository) Save(ctx context.Context, rate *tax.Rate) error {
	return TranslateError(r.db.WithContext(ctx).Save(models.TaxRateModelFromDomain(rate)).Error, "Tax rate")
}

// Delete removes a tax rate
func (r *GormTaxRateRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Delete(&models.TaxRateModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Tax rate")
	}
	return nil
}

// IsInUse reports whether any order line carries the rate
func (r *GormTaxRateRepository) IsInUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("line_item_taxes AS t").
		Joins("JOIN sales_order_items AS i ON i.id = t.sales_order_item_id").
		Joins("JOIN sales_orders AS o ON o.id = i.sales_order_id").
		Scopes(tenant.ScopeTable("o", tenantID)).
		Where("t.tax_rate_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

var _ tax.Repository = (*GormTaxRateRepository)(nil)

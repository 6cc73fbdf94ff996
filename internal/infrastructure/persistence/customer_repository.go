package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stockroom/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, TranslateError(err, "Customer")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all customers for a tenant
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, CustomerSortFields, "name")

	var rows []models.CustomerModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	customers := make([]partner.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, nil
}

// CountForTenant counts customers for a tenant
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return TranslateError(r.db.WithContext(ctx).Save(model).Error, "Customer")
}

// SaveWithLock saves a customer with optimistic locking (version check).
// Returns CONCURRENT_MODIFICATION if the version has changed.
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	model.Version = customer.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), model, customer.ID, customer.Version); err != nil {
		return TranslateError(err, "Customer")
	}
	customer.Version = model.Version
	return nil
}

// DeleteForTenant deletes a customer within a tenant
func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Customer")
	}
	return nil
}

// CountSalesOrders counts the sales orders that reference a customer
func (r *GormCustomerRepository) CountSalesOrders(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("customer_id = ?", id).
		Count(&count).Error
	return count, err
}

// applyFilter applies search and filters without pagination
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name", "code", "email", "contact_name")
	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			if b, ok := value.(bool); ok {
				query = query.Where("is_active = ?", b)
			}
		}
	}
	return query
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)

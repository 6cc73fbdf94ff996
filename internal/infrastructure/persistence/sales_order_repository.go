package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stockroom/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements trade.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID loads an order with lines and their taxes
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") }).
		Preload("Items.Taxes", func(db *gorm.DB) *gorm.DB { return db.Order("is_compound ASC, created_at ASC") }).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, TranslateError(err, "Sales order")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists orders without lines
func (r *GormSalesOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.SalesOrder, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, SalesOrderSortFields, "created_at")

	var rows []models.SalesOrderModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.SalesOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// CountForTenant counts orders matching the filter
func (r *GormSalesOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order and replaces its lines and taxes
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	model := models.SalesOrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return TranslateError(err, "Sales order")
		}
		return replaceOrderLines(tx, order.ID, model.Items)
	})
}

// SaveWithLock updates an order if its version is unchanged and replaces its lines
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *trade.SalesOrder) error {
	model := models.SalesOrderModelFromDomain(order)
	model.Version = order.Version + 1
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, model, order.ID, order.Version); err != nil {
			return err
		}
		return replaceOrderLines(tx, order.ID, model.Items)
	})
	if err != nil {
		return TranslateError(err, "Sales order")
	}
	order.Version = model.Version
	return nil
}

// replaceOrderLines rewrites lines and their taxes. Line ids are stable so
// pick list lines referencing them survive; removed lines are deleted.
func replaceOrderLines(tx *gorm.DB, orderID uuid.UUID, lines []models.SalesOrderItemModel) error {
	keep := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		keep = append(keep, l.ID)
	}

	removed := tx.Where("sales_order_id = ?", orderID)
	if len(keep) > 0 {
		removed = removed.Where("id NOT IN ?", keep)
	}
	if err := removed.Delete(&models.SalesOrderItemModel{}).Error; err != nil {
		return err
	}
	if len(keep) == 0 {
		return nil
	}
	if err := tx.Where("sales_order_item_id IN ?", keep).Delete(&models.LineItemTaxModel{}).Error; err != nil {
		return err
	}

	now := time.Now()
	taxes := make([]models.LineItemTaxModel, 0)
	for i := range lines {
		line := lines[i]
		if line.CreatedAt.IsZero() {
			line.CreatedAt = now
		}
		if line.UpdatedAt.IsZero() {
			line.UpdatedAt = now
		}
		taxes = append(taxes, line.Taxes...)
		line.Taxes = nil
		if err := tx.Omit("Taxes").Save(&line).Error; err != nil {
			return err
		}
	}
	if len(taxes) == 0 {
		return nil
	}
	return tx.CreateInBatches(taxes, 200).Error
}

// Delete removes an order; lines, taxes and pick lists cascade
func (r *GormSalesOrderRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Delete(&models.SalesOrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Sales order")
	}
	return nil
}

func (r *GormSalesOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "display_id", "customer_name")
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", stringFilter(value))
		case "customer_id":
			if id, ok := uuidFilter(value); ok {
				query = query.Where("customer_id = ?", id)
			}
		case "from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date >= ?", t)
			}
		case "to":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date <= ?", t)
			}
		}
	}
	return query
}

var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)

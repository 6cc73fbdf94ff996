package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// SalesOrderRepository persists sales orders with their lines and line taxes
type SalesOrderRepository interface {
	// FindByID loads an order with lines and taxes regardless of tenant; callers verify ownership
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	// FindAllForTenant lists orders without lines. Supported filters:
	// status, customer_id, from (order date >=), to (order date <=).
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// Save inserts or updates the order and replaces its lines and taxes
	Save(ctx context.Context, order *SalesOrder) error
	// SaveWithLock saves only if the stored version matches, then bumps it
	SaveWithLock(ctx context.Context, order *SalesOrder) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// OrderStatsReader answers aggregate queries over a tenant's orders
type OrderStatsReader interface {
	// CountByStatus returns the number of orders per status, zero for unused statuses
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[OrderStatus]int64, error)
}

// PickListRepository persists pick lists and their lines
type PickListRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PickList, error)
	// FindActiveByOrder returns the pending or in-progress pick list of an order
	FindActiveByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*PickList, error)
	// FindLatestByOrder returns the most recent pick list in any status
	FindLatestByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*PickList, error)
	Save(ctx context.Context, pickList *PickList) error
	// SaveWithLock saves only if the stored version matches, then bumps it
	SaveWithLock(ctx context.Context, pickList *PickList) error
}

package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// CustomerRepository defines customer persistence
type CustomerRepository interface {
	// FindByID loads a customer regardless of tenant; callers verify ownership
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindAllForTenant lists customers. Filters: "is_active" (bool)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// CountForTenant counts customers matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a customer. Unique violations surface as ALREADY_EXISTS.
	Save(ctx context.Context, customer *Customer) error

	// SaveWithLock updates a customer only if the stored version still equals the loaded one,
	// then bumps the version. Otherwise it fails with CONCURRENT_MODIFICATION.
	SaveWithLock(ctx context.Context, customer *Customer) error

	// DeleteForTenant hard deletes a customer
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountSalesOrders counts sales orders that reference the customer
	CountSalesOrders(ctx context.Context, tenantID, id uuid.UUID) (int64, error)
}

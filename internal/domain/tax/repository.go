package tax

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists tax rates
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Rate, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Rate, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]Rate, error)
	FindDefaults(ctx context.Context, tenantID uuid.UUID) ([]Rate, error)
	Save(ctx context.Context, rate *Rate) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	// IsInUse reports whether any line item tax references the rate
	IsInUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

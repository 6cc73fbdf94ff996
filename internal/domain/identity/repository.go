package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository persists tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// ProfileRepository persists member profiles
type ProfileRepository interface {
	FindByID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, search string, limit int) ([]Profile, error)
	Save(ctx context.Context, profile *Profile) error
}

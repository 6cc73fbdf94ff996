package identity

import (
	"strings"

	"github.com/stockroom/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant is an isolated customer organization. Every business row carries its ID.
type Tenant struct {
	shared.BaseAggregateRoot
	Name     string
	Slug     string
	Status   TenantStatus
	Currency string
}

// NewTenant creates an active tenant
func NewTenant(name, slug string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Organization name is required")
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, shared.NewValidationError("Organization slug is required")
	}
	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Status:            TenantStatusActive,
		Currency:          "USD",
	}, nil
}

// IsActive reports whether members of the tenant may use the application
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Suspend blocks all access for the tenant's members
func (t *Tenant) Suspend() {
	t.Status = TenantStatusSuspended
	t.Touch()
}

// Activate lifts a suspension
func (t *Tenant) Activate() {
	t.Status = TenantStatusActive
	t.Touch()
}

package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Profile links an authenticated user to exactly one tenant and a role.
// The profile ID equals the user ID issued by the identity provider.
type Profile struct {
	shared.BaseEntity
	TenantID uuid.UUID
	Email    string
	FullName string
	Role     Role
	IsActive bool
}

// NewProfile creates an active profile
func NewProfile(userID, tenantID uuid.UUID, email, fullName string, role Role) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("User ID is required")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("Tenant ID is required")
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("Invalid role")
	}
	p := &Profile{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Email:      strings.ToLower(strings.TrimSpace(email)),
		FullName:   strings.TrimSpace(fullName),
		Role:       role,
		IsActive:   true,
	}
	p.ID = userID
	return p, nil
}

// DisplayName returns the full name, falling back to the email
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// GetTenantID returns the owning tenant
func (p *Profile) GetTenantID() uuid.UUID {
	return p.TenantID
}

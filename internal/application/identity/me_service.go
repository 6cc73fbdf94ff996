package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	"github.com/stockroom/backend/internal/domain/identity"
)

// TenantSummary names the caller's organization
type TenantSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// MeResponse describes the authenticated caller
type MeResponse struct {
	UserID      uuid.UUID                  `json:"user_id"`
	Email       string                     `json:"email"`
	FullName    string                     `json:"full_name"`
	Role        identity.Role              `json:"role"`
	Permissions []identity.PermissionLevel `json:"permissions"`
	Tenant      TenantSummary              `json:"tenant"`
}

// MeService answers who-am-i for the resolved caller
type MeService struct{}

// NewMeService creates a new MeService
func NewMeService() *MeService {
	return &MeService{}
}

// Me returns the caller's profile, tenant and granted permission levels
func (s *MeService) Me(ctx context.Context) (*MeResponse, error) {
	auth, err := guard.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	var granted []identity.PermissionLevel
	for _, level := range []identity.PermissionLevel{identity.PermissionRead, identity.PermissionWrite, identity.PermissionAdmin} {
		if auth.Can(level) {
			granted = append(granted, level)
		}
	}
	return &MeResponse{
		UserID:      auth.UserID,
		Email:       auth.Email,
		FullName:    auth.FullName,
		Role:        auth.Role,
		Permissions: granted,
		Tenant:      TenantSummary{ID: auth.TenantID, Name: auth.TenantName, Slug: auth.TenantSlug},
	}, nil
}

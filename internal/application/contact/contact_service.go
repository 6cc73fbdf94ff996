// Package contact serves the unified customer and team member picker.
package contact

import (
	"context"

	"github.com/stockroom/backend/internal/application/guard"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
)

// ListRequest binds the contact query
type ListRequest struct {
	Type   string `form:"type" binding:"omitempty,oneof=customer member"`
	Search string `form:"search" binding:"omitempty,max=100"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Service lists contacts of the caller's tenant
type Service struct {
	reader partner.ContactReader
}

// NewService creates a new Service
func NewService(reader partner.ContactReader) *Service {
	return &Service{reader: reader}
}

// List returns active customers and members ordered by name
func (s *Service) List(ctx context.Context, req ListRequest) ([]partner.Contact, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	t := partner.ContactType(req.Type)
	if t != "" && !t.IsValid() {
		return nil, shared.NewValidationError("Unknown contact type: " + req.Type)
	}
	return s.reader.ListContacts(ctx, auth.TenantID, partner.ContactQuery{Type: t, Search: req.Search, Limit: req.Limit})
}

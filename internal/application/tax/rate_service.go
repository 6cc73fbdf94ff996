package tax

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/tax"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const resourceRate = "Tax rate"

// RateService manages tax rates. Every write needs admin level.
type RateService struct {
	rates tax.Repository
}

// NewRateService creates a new RateService
func NewRateService(rates tax.Repository) *RateService {
	return &RateService{rates: rates}
}

// Create adds a tax rate
func (s *RateService) Create(ctx context.Context, req CreateRateRequest) (*RateResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionAdmin)
	if err != nil {
		return nil, err
	}

	rate, err := tax.NewRate(auth.TenantID, req.Name, req.Code, req.Percent, tax.Type(req.Type))
	if err != nil {
		return nil, err
	}
	if err := rate.Update(rate.Name, rate.Code, rate.Percent, rate.Type, req.IsCompound, req.IsDefault, true); err != nil {
		return nil, err
	}
	rate.SetCreatedBy(auth.UserID)
	if err := s.rates.Save(ctx, rate); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Tax rate created", zap.String("code", rate.Code), zap.String("percent", rate.Percent.String()))
	resp := ToRateResponse(rate)
	return &resp, nil
}

// GetByID returns a tax rate
func (s *RateService) GetByID(ctx context.Context, id uuid.UUID) (*RateResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	rate, err := guard.Own[*tax.Rate](auth, resourceRate)(s.rates.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	resp := ToRateResponse(rate)
	return &resp, nil
}

// List returns the tenant's rates ordered by name
func (s *RateService) List(ctx context.Context, activeOnly bool) ([]RateResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	rates, err := s.rates.FindAllForTenant(ctx, auth.TenantID, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]RateResponse, len(rates))
	for i := range rates {
		out[i] = ToRateResponse(&rates[i])
	}
	return out, nil
}

// Update changes the present fields
func (s *RateService) Update(ctx context.Context, id uuid.UUID, req UpdateRateRequest) (*RateResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionAdmin)
	if err != nil {
		return nil, err
	}
	rate, err := guard.Own[*tax.Rate](auth, resourceRate)(s.rates.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}

	name, code, percent, taxType := rate.Name, rate.Code, rate.Percent, rate.Type
	compound, isDefault, active := rate.IsCompound, rate.IsDefault, rate.IsActive
	if req.Name != nil {
		name = *req.Name
	}
	if req.Code != nil {
		code = *req.Code
	}
	if req.Percent != nil {
		percent = *req.Percent
	}
	if req.Type != nil {
		taxType = tax.Type(*req.Type)
	}
	if req.IsCompound != nil {
		compound = *req.IsCompound
	}
	if req.IsDefault != nil {
		isDefault = *req.IsDefault
	}
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if err := rate.Update(name, code, percent, taxType, compound, isDefault, active); err != nil {
		return nil, err
	}
	if err := s.rates.Save(ctx, rate); err != nil {
		return nil, err
	}

	resp := ToRateResponse(rate)
	return &resp, nil
}

// Delete removes a rate that no order line references. Used rates must be
// deactivated instead so historical line taxes keep their source.
func (s *RateService) Delete(ctx context.Context, id uuid.UUID) error {
	auth, err := guard.Authorize(ctx, identity.PermissionAdmin)
	if err != nil {
		return err
	}
	rate, err := guard.Own[*tax.Rate](auth, resourceRate)(s.rates.FindByID(ctx, id))
	if err != nil {
		return err
	}

	inUse, err := s.rates.IsInUse(ctx, auth.TenantID, rate.ID)
	if err != nil {
		return err
	}
	if inUse {
		return shared.NewDomainError(shared.CodeInvalidState, "Tax rate is applied to order items; deactivate it instead")
	}
	return s.rates.Delete(ctx, auth.TenantID, rate.ID)
}

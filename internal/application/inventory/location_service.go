package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LocationService manages storage locations and the stock they hold
type LocationService struct {
	locations inventory.LocationRepository
	txScope   appshared.TransactionScope
	publisher shared.EventPublisher
}

// NewLocationService creates a new LocationService
func NewLocationService(locations inventory.LocationRepository, txScope appshared.TransactionScope, publisher shared.EventPublisher) *LocationService {
	return &LocationService{locations: locations, txScope: txScope, publisher: publisher}
}

// Create adds a location
func (s *LocationService) Create(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}
	loc, err := inventory.NewLocation(auth.TenantID, req.Name, req.Code, inventory.LocationType(req.Type))
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		parent, err := guard.Own[*inventory.Location](auth, "Parent location")(s.locations.FindByID(ctx, *req.ParentID))
		if err != nil {
			return nil, err
		}
		loc.ParentID = &parent.ID
	}
	if err := s.locations.Save(ctx, loc); err != nil {
		return nil, err
	}
	resp := ToLocationResponse(loc)
	return &resp, nil
}

// GetByID returns a location
func (s *LocationService) GetByID(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	loc, err := guard.Own[*inventory.Location](auth, resourceLocation)(s.locations.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	resp := ToLocationResponse(loc)
	return &resp, nil
}

// List returns the tenant's locations ordered by name
func (s *LocationService) List(ctx context.Context, req LocationListRequest) ([]LocationResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Search = req.Search
	if req.Type != "" {
		filter.Filters["type"] = req.Type
	}
	if req.IsActive != nil {
		filter.Filters["is_active"] = *req.IsActive
	}
	locs, err := s.locations.FindAllForTenant(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]LocationResponse, len(locs))
	for i := range locs {
		out[i] = ToLocationResponse(&locs[i])
	}
	return out, nil
}

// Update changes the fields that are set
func (s *LocationService) Update(ctx context.Context, id uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}
	loc, err := guard.Own[*inventory.Location](auth, resourceLocation)(s.locations.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	name, code, typ, active := loc.Name, loc.Code, loc.Type, loc.IsActive
	if req.Name != nil {
		name = *req.Name
	}
	if req.Code != nil {
		code = *req.Code
	}
	if req.Type != nil {
		typ = inventory.LocationType(*req.Type)
	}
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if err := loc.Update(name, code, typ, active); err != nil {
		return nil, err
	}
	if err := s.locations.Save(ctx, loc); err != nil {
		return nil, err
	}
	resp := ToLocationResponse(loc)
	return &resp, nil
}

// SetStock sets the absolute quantity of an item at a location. The item's
// total moves by the same difference so it stays the sum of its stock.
func (s *LocationService) SetStock(ctx context.Context, id uuid.UUID, req SetStockRequest) (*LocationStockResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}
	if req.Quantity.IsNegative() {
		return nil, shared.NewValidationError("Quantity cannot be negative")
	}

	var (
		resp   LocationStockResponse
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		loc, err := guard.Own[*inventory.Location](auth, resourceLocation)(repos.Locations().FindByID(ctx, id))
		if err != nil {
			return err
		}
		item, err := guard.Own[*inventory.Item](auth, resourceItem)(repos.Items().FindByID(ctx, req.ItemID))
		if err != nil {
			return err
		}
		stock, err := repos.Locations().FindStock(ctx, auth.TenantID, item.ID, loc.ID)
		if err != nil {
			return err
		}
		delta := req.Quantity.Sub(stock.Quantity)
		stock.Quantity = req.Quantity
		if err := repos.Locations().SaveStock(ctx, stock); err != nil {
			return err
		}
		if !delta.IsZero() {
			if err := item.AdjustQuantity(delta, "Stock set at "+loc.Name); err != nil {
				return err
			}
			if err := repos.Items().SaveWithLock(ctx, item); err != nil {
				return err
			}
			events.Collect(item)
		}
		resp = LocationStockResponse{
			LocationID:   loc.ID,
			ItemID:       item.ID,
			Quantity:     stock.Quantity,
			ItemQuantity: item.Quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	logger.L(ctx).Info("Location stock set",
		zap.String("location_id", resp.LocationID.String()),
		zap.String("item_id", resp.ItemID.String()),
		zap.String("quantity", resp.Quantity.String()),
	)
	return &resp, nil
}

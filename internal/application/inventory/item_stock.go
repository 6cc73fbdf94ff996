package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/application/guard"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Locations lists where an item is stocked, fullest location first
func (s *ItemService) Locations(ctx context.Context, id uuid.UUID) ([]inventory.ItemLocation, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	item, err := guard.Own[*inventory.Item](auth, resourceItem)(s.items.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	return s.locations.ItemLocations(ctx, auth.TenantID, item.ID)
}

// Lots lists an item's lots by expiry, lots without expiry last
func (s *ItemService) Lots(ctx context.Context, id uuid.UUID) ([]LotResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	item, err := guard.Own[*inventory.Item](auth, resourceItem)(s.items.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	lots, err := s.lots.FindByItem(ctx, auth.TenantID, item.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]LotResponse, len(lots))
	for i := range lots {
		out[i] = ToLotResponse(&lots[i], now)
	}
	return out, nil
}

// Serials lists an item's serials, optionally in one status
func (s *ItemService) Serials(ctx context.Context, id uuid.UUID, status string) ([]SerialResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	st := inventory.SerialStatus(status)
	if status != "" && !st.IsValid() {
		return nil, shared.NewValidationError("Invalid serial status")
	}
	item, err := guard.Own[*inventory.Item](auth, resourceItem)(s.items.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	serials, err := s.serials.FindByItem(ctx, auth.TenantID, item.ID, st)
	if err != nil {
		return nil, err
	}
	out := make([]SerialResponse, len(serials))
	for i := range serials {
		out[i] = ToSerialResponse(&serials[i])
	}
	return out, nil
}

// FEFO suggests which lots to pick for a quantity, earliest expiry first
func (s *ItemService) FEFO(ctx context.Context, id uuid.UUID, req FEFORequest) (*FEFOSuggestion, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	if !req.Quantity.IsPositive() {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if s.allocator == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "No lot allocator is configured")
	}
	item, err := guard.Own[*inventory.Item](auth, resourceItem)(s.items.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	if item.TrackingMode != inventory.TrackingLot {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Item is not lot tracked")
	}
	lots, err := s.lots.FindByItem(ctx, auth.TenantID, item.ID)
	if err != nil {
		return nil, err
	}
	result := s.allocator.Allocate(lots, req.Quantity, inventory.AllocationOptions{
		At:                        time.Now(),
		ExcludeExpiringWithinDays: s.guardDays,
		LocationID:                req.LocationID,
	})
	return &FEFOSuggestion{
		ItemID:           item.ID,
		Requested:        req.Quantity,
		Strategy:         s.allocator.Name(),
		AllocationResult: result,
	}, nil
}

// AddLot receives a lot of a lot-tracked item. The item quantity and, with a
// location, the location stock grow by the lot quantity.
func (s *ItemService) AddLot(ctx context.Context, id uuid.UUID, req AddLotRequest) (*LotResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		lot    *inventory.Lot
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		item, err := guard.Own[*inventory.Item](auth, resourceItem)(repos.Items().FindByID(ctx, id))
		if err != nil {
			return err
		}
		if item.TrackingMode != inventory.TrackingLot {
			return shared.NewDomainError(shared.CodeInvalidState, "Item is not lot tracked")
		}
		existing, err := repos.Lots().FindByItem(ctx, auth.TenantID, item.ID)
		if err != nil {
			return err
		}
		for _, l := range existing {
			if strings.EqualFold(l.LotNumber, strings.TrimSpace(req.LotNumber)) {
				return shared.NewDomainError(shared.CodeAlreadyExists, "Lot number already exists for this item")
			}
		}

		lot, err = inventory.NewLot(auth.TenantID, item.ID, req.LotNumber, req.Quantity, req.ExpiryDate, req.ManufacturedDate, req.LocationID)
		if err != nil {
			return err
		}
		if req.LocationID != nil {
			if err := moveLocationStock(ctx, repos, auth, item.ID, *req.LocationID, lot.Quantity); err != nil {
				return err
			}
		}
		if err := repos.Lots().Save(ctx, lot); err != nil {
			return err
		}
		if err := item.AdjustQuantity(lot.Quantity, "Lot "+lot.LotNumber+" received"); err != nil {
			return err
		}
		if err := repos.Items().SaveWithLock(ctx, item); err != nil {
			return err
		}
		events.Collect(item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	logger.L(ctx).Info("Lot received",
		zap.String("item_id", id.String()),
		zap.String("lot_number", lot.LotNumber),
		zap.String("quantity", lot.Quantity.String()),
	)
	resp := ToLotResponse(lot, time.Now())
	return &resp, nil
}

// AddSerial receives one unit of a serial-tracked item
func (s *ItemService) AddSerial(ctx context.Context, id uuid.UUID, req AddSerialRequest) (*SerialResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		serial *inventory.Serial
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		item, err := guard.Own[*inventory.Item](auth, resourceItem)(repos.Items().FindByID(ctx, id))
		if err != nil {
			return err
		}
		if item.TrackingMode != inventory.TrackingSerial {
			return shared.NewDomainError(shared.CodeInvalidState, "Item is not serial tracked")
		}
		existing, err := repos.Serials().FindByItem(ctx, auth.TenantID, item.ID, "")
		if err != nil {
			return err
		}
		for _, sn := range existing {
			if strings.EqualFold(sn.SerialNumber, strings.TrimSpace(req.SerialNumber)) {
				return shared.NewDomainError(shared.CodeAlreadyExists, "Serial number already exists for this item")
			}
		}
		if req.LotID != nil {
			lot, err := repos.Lots().FindByID(ctx, *req.LotID)
			if err != nil {
				if shared.IsNotFound(err) {
					return shared.NewNotFoundError("Lot")
				}
				return err
			}
			if lot.TenantID != auth.TenantID || lot.ItemID != item.ID {
				return shared.NewNotFoundError("Lot")
			}
		}

		serial, err = inventory.NewSerial(auth.TenantID, item.ID, req.SerialNumber, req.LotID, req.LocationID)
		if err != nil {
			return err
		}
		one := decimal.NewFromInt(1)
		if req.LocationID != nil {
			if err := moveLocationStock(ctx, repos, auth, item.ID, *req.LocationID, one); err != nil {
				return err
			}
		}
		if err := repos.Serials().Save(ctx, serial); err != nil {
			return err
		}
		if err := item.AdjustQuantity(one, "Serial "+serial.SerialNumber+" received"); err != nil {
			return err
		}
		if err := repos.Items().SaveWithLock(ctx, item); err != nil {
			return err
		}
		events.Collect(item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	resp := ToSerialResponse(serial)
	return &resp, nil
}

package inventory

import (
	"context"
	"sort"
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

const (
	resourceItem     = "Item"
	resourceFolder   = "Folder"
	resourceLocation = "Location"
)

// ItemService handles item use cases: catalogue data, stock adjustments,
// lots, serials, FEFO suggestions and images
type ItemService struct {
	items     inventory.ItemRepository
	folders   inventory.FolderRepository
	locations inventory.LocationRepository
	lots      inventory.LotRepository
	serials   inventory.SerialRepository
	txScope   appshared.TransactionScope
	publisher shared.EventPublisher
	allocator inventory.LotAllocator
	guardDays int
	images    ImageStore
	activity  appshared.ActivityRecorder
}

// ItemServiceConfig holds the optional collaborators of ItemService
type ItemServiceConfig struct {
	// Allocator orders lots for FEFO suggestions
	Allocator inventory.LotAllocator
	// FEFOGuardDays excludes lots expiring within this many days from suggestions
	FEFOGuardDays int
	// Images stores item images. Nil behaves like disabled storage.
	Images ImageStore
	// Activity logs image changes, which raise no domain event
	Activity appshared.ActivityRecorder
}

// NewItemService creates a new ItemService
func NewItemService(
	items inventory.ItemRepository,
	folders inventory.FolderRepository,
	locations inventory.LocationRepository,
	lots inventory.LotRepository,
	serials inventory.SerialRepository,
	txScope appshared.TransactionScope,
	publisher shared.EventPublisher,
	cfg ItemServiceConfig,
) *ItemService {
	return &ItemService{
		items:     items,
		folders:   folders,
		locations: locations,
		lots:      lots,
		serials:   serials,
		txScope:   txScope,
		publisher: publisher,
		allocator: cfg.Allocator,
		guardDays: cfg.FEFOGuardDays,
		images:    cfg.Images,
		activity:  cfg.Activity,
	}
}

// Create adds an item. Lot and serial tracked items start empty; their stock
// arrives through lots and serials.
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		item   *inventory.Item
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		if req.FolderID != nil {
			if _, err := guard.Own[*inventory.Folder](auth, resourceFolder)(repos.Folders().FindByID(ctx, *req.FolderID)); err != nil {
				return err
			}
		}
		displayID, err := repos.DisplayIDs().Next(ctx, auth.TenantID, shared.EntityItem)
		if err != nil {
			return err
		}
		item, err = inventory.NewItem(auth.TenantID, displayID, req.Name, req.SKU, req.Unit)
		if err != nil {
			return err
		}
		item.SetCreatedBy(auth.UserID)
		item.SetCodes(req.SKU, req.Barcode, req.Unit)
		item.MoveToFolder(req.FolderID)
		if err := item.SetPricing(req.Price, req.CostPrice); err != nil {
			return err
		}
		if err := item.SetMinQuantity(req.MinQuantity); err != nil {
			return err
		}
		if req.TrackingMode != "" {
			if err := item.SetTrackingMode(inventory.TrackingMode(req.TrackingMode)); err != nil {
				return err
			}
		}
		item.SetNotes(req.Notes)

		if req.Quantity.IsNegative() {
			return shared.NewValidationError("Quantity cannot be negative")
		}
		if req.Quantity.IsPositive() {
			if item.TrackingMode != inventory.TrackingNone {
				return shared.NewValidationError("Stock of tracked items is received through lots or serials")
			}
			if err := item.AdjustQuantity(req.Quantity, "Initial stock"); err != nil {
				return err
			}
		}

		if err := repos.Items().Save(ctx, item); err != nil {
			return err
		}
		events.Collect(item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	logger.L(ctx).Info("Item created",
		zap.String("item_id", item.ID.String()),
		zap.String("display_id", item.DisplayID),
	)
	resp := ToItemResponse(item)
	return &resp, nil
}

// GetByID returns an item of the caller's tenant
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	item, err := guard.Own[*inventory.Item](auth, resourceItem)(s.items.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// List returns a page of live items
func (s *ItemService) List(ctx context.Context, req ItemListRequest) (*shared.Paginated[ItemResponse], error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}

	filter := req.ListParams.Filter()
	if req.FolderID != "" {
		if req.FolderID == "root" {
			filter.Filters["folder_id"] = "root"
		} else {
			folderID, err := uuid.Parse(req.FolderID)
			if err != nil {
				return nil, shared.NewValidationError("Invalid folder id")
			}
			if req.Recursive {
				folder, err := guard.Own[*inventory.Folder](auth, resourceFolder)(s.folders.FindByID(ctx, folderID))
				if err != nil {
					return nil, err
				}
				filter.Filters["folder_path"] = folder.Path
			} else {
				filter.Filters["folder_id"] = folderID
			}
		}
	}
	if req.StockStatus != "" {
		filter.Filters["stock_status"] = req.StockStatus
	}
	if req.TrackingMode != "" {
		filter.Filters["tracking_mode"] = req.TrackingMode
	}

	items, err := s.items.FindAllForTenant(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.items.CountForTenant(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update changes catalogue fields. Quantity only changes through adjustments.
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		item   *inventory.Item
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		item, err = guard.Own[*inventory.Item](auth, resourceItem)(repos.Items().FindByID(ctx, id))
		if err != nil {
			return err
		}
		if req.Name != nil {
			if err := item.Rename(*req.Name); err != nil {
				return err
			}
		}
		if req.SKU != nil || req.Barcode != nil || req.Unit != nil {
			sku, barcode, unit := item.SKU, item.Barcode, item.Unit
			if req.SKU != nil {
				sku = *req.SKU
			}
			if req.Barcode != nil {
				barcode = *req.Barcode
			}
			if req.Unit != nil {
				unit = *req.Unit
			}
			item.SetCodes(sku, barcode, unit)
		}
		switch {
		case req.MoveToRoot:
			item.MoveToFolder(nil)
		case req.FolderID != nil:
			folder, err := guard.Own[*inventory.Folder](auth, resourceFolder)(repos.Folders().FindByID(ctx, *req.FolderID))
			if err != nil {
				return err
			}
			item.MoveToFolder(&folder.ID)
		}
		if req.Price != nil || req.CostPrice != nil {
			price, cost := item.Price, item.CostPrice
			if req.Price != nil {
				price = *req.Price
			}
			if req.CostPrice != nil {
				cost = *req.CostPrice
			}
			if err := item.SetPricing(price, cost); err != nil {
				return err
			}
		}
		if req.MinQuantity != nil {
			if err := item.SetMinQuantity(*req.MinQuantity); err != nil {
				return err
			}
		}
		if req.TrackingMode != nil {
			if err := item.SetTrackingMode(inventory.TrackingMode(*req.TrackingMode)); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			item.SetNotes(*req.Notes)
		}

		item.MarkUpdated()
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
	resp := ToItemResponse(item)
	return &resp, nil
}

// Delete soft deletes an item so order lines keep their reference
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return err
	}
	item, err := guard.Own[*inventory.Item](auth, resourceItem)(s.items.FindByID(ctx, id))
	if err != nil {
		return err
	}
	if err := item.SoftDelete(); err != nil {
		return err
	}
	if err := s.items.SaveWithLock(ctx, item); err != nil {
		return err
	}
	appshared.PublishEvents(ctx, s.publisher, item)
	logger.L(ctx).Info("Item deleted", zap.String("item_id", item.ID.String()))
	return nil
}

// AdjustQuantity applies a signed stock change with a reason. With a location
// the location's stock moves by the same amount. Without one, a removal comes
// out of unlocated stock first.
func (s *ItemService) AdjustQuantity(ctx context.Context, id uuid.UUID, req AdjustQuantityRequest) (*ItemResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		item   *inventory.Item
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		item, err = guard.Own[*inventory.Item](auth, resourceItem)(repos.Items().FindByID(ctx, id))
		if err != nil {
			return err
		}
		if err := item.AdjustQuantity(req.Delta, req.Reason); err != nil {
			return err
		}
		if req.LocationID != nil {
			if err := moveLocationStock(ctx, repos, auth, item.ID, *req.LocationID, req.Delta); err != nil {
				return err
			}
		} else if req.Delta.IsNegative() {
			if err := fitLocationsToTotal(ctx, repos, auth.TenantID, item); err != nil {
				return err
			}
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
	logger.L(ctx).Info("Item quantity adjusted",
		zap.String("item_id", item.ID.String()),
		zap.String("delta", req.Delta.String()),
		zap.String("reason", req.Reason),
	)
	resp := ToItemResponse(item)
	return &resp, nil
}

// moveLocationStock adds delta to the stock of an item at a tenant location
func moveLocationStock(ctx context.Context, repos appshared.Repositories, auth *guard.AuthContext, itemID, locationID uuid.UUID, delta decimal.Decimal) error {
	if _, err := guard.Own[*inventory.Location](auth, resourceLocation)(repos.Locations().FindByID(ctx, locationID)); err != nil {
		return err
	}
	stock, err := repos.Locations().FindStock(ctx, auth.TenantID, itemID, locationID)
	if err != nil {
		return err
	}
	if delta.IsNegative() {
		if err := stock.Deduct(delta.Neg()); err != nil {
			return shared.WrapDomainError(shared.CodeInsufficientStock, "The location does not hold that much stock", err)
		}
	} else {
		stock.Quantity = stock.Quantity.Add(delta)
	}
	return repos.Locations().SaveStock(ctx, stock)
}

// fitLocationsToTotal trims location rows until they hold no more than the
// item total. Stock at no location is used up first, then the emptiest
// locations are cleared.
func fitLocationsToTotal(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, item *inventory.Item) error {
	stocks, err := repos.Locations().FindStocksForItem(ctx, tenantID, item.ID)
	if err != nil {
		return err
	}
	located := decimal.Zero
	for _, st := range stocks {
		located = located.Add(st.Quantity)
	}
	excess := located.Sub(item.Quantity)
	if !excess.IsPositive() {
		return nil
	}

	sort.SliceStable(stocks, func(i, j int) bool {
		return stocks[i].Quantity.LessThan(stocks[j].Quantity)
	})
	for i := range stocks {
		if !excess.IsPositive() {
			break
		}
		take := decimal.Min(excess, stocks[i].Quantity)
		if !take.IsPositive() {
			continue
		}
		if err := stocks[i].Deduct(take); err != nil {
			return err
		}
		if err := repos.Locations().SaveStock(ctx, &stocks[i]); err != nil {
			return err
		}
		excess = excess.Sub(take)
	}
	return nil
}

// spreadVariance moves location stock after the item total changed by delta
// without a location. A gain lands on the only location when there is exactly
// one and stays unlocated otherwise; a loss is handled by fitLocationsToTotal.
func spreadVariance(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, item *inventory.Item, delta decimal.Decimal) error {
	if delta.IsNegative() {
		return fitLocationsToTotal(ctx, repos, tenantID, item)
	}
	if !delta.IsPositive() {
		return nil
	}
	stocks, err := repos.Locations().FindStocksForItem(ctx, tenantID, item.ID)
	if err != nil {
		return err
	}
	if len(stocks) != 1 {
		return nil
	}
	stocks[0].Quantity = stocks[0].Quantity.Add(delta)
	stocks[0].UpdatedAt = time.Now()
	return repos.Locations().SaveStock(ctx, &stocks[0])
}

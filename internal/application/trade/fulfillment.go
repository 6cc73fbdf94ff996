package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/application/guard"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// fulfillment runs the stock side of the order lifecycle: generating pick
// lists, completing them and cancelling open ones. Every method works inside
// the caller's unit of work.
type fulfillment struct {
	planner *trade.PickPlanner
}

// generate builds the pick list for an order that just entered picking
func (f fulfillment) generate(ctx context.Context, repos appshared.Repositories, auth *guard.AuthContext, order *trade.SalesOrder, events *appshared.EventCollector) (*trade.PickList, error) {
	_, err := repos.PickLists().FindActiveByOrder(ctx, auth.TenantID, order.ID)
	switch {
	case err == nil:
		return nil, shared.NewDomainError(shared.CodeInvalidState, "The order already has an open pick list")
	case !shared.IsNotFound(err):
		return nil, err
	}

	displayID, err := repos.DisplayIDs().Next(ctx, auth.TenantID, shared.EntityPickList)
	if err != nil {
		return nil, err
	}
	pl, err := trade.NewPickList(auth.TenantID, displayID, order.ID)
	if err != nil {
		return nil, err
	}
	pl.SetCreatedBy(auth.UserID)

	sources, err := f.loadSources(ctx, repos, auth.TenantID, order)
	if err != nil {
		return nil, err
	}
	f.planner.Plan(pl, order, sources)
	if len(pl.Lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Every order item is already picked")
	}

	if err := repos.PickLists().Save(ctx, pl); err != nil {
		return nil, err
	}
	events.Add(trade.NewPickListGeneratedEvent(pl, order.DisplayID))

	if short := pl.ShortLines(); len(short) > 0 {
		logger.L(ctx).Warn("Pick list generated with shortages",
			zap.String("pick_list", pl.DisplayID),
			zap.String("order", order.DisplayID),
			zap.Int("short_lines", len(short)),
		)
	}
	return pl, nil
}

// loadSources gathers lots and location stock of every item on the order
func (f fulfillment) loadSources(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, order *trade.SalesOrder) (map[uuid.UUID]*trade.StockSource, error) {
	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, it := range order.Items {
		ids = append(ids, it.ItemID)
	}
	items, err := repos.Items().FindByIDs(ctx, tenantID, dedupe(ids))
	if err != nil {
		return nil, err
	}

	sources := make(map[uuid.UUID]*trade.StockSource, len(items))
	for i := range items {
		item := &items[i]
		src := &trade.StockSource{Item: item}

		locations, err := repos.Locations().ItemLocations(ctx, tenantID, item.ID)
		if err != nil {
			return nil, err
		}
		for _, l := range locations {
			src.Locations = append(src.Locations, trade.LocationQuantity{
				LocationID:   l.LocationID,
				LocationName: l.LocationName,
				Quantity:     l.Quantity,
			})
		}

		if item.TrackingMode == inventory.TrackingLot {
			if src.Lots, err = repos.Lots().FindByItem(ctx, tenantID, item.ID); err != nil {
				return nil, err
			}
		}
		sources[item.ID] = src
	}
	return sources, nil
}

// complete closes the pick list, takes the picked stock out of lots, locations
// and items, records picked quantities on the order and moves it to picked
func (f fulfillment) complete(ctx context.Context, repos appshared.Repositories, auth *guard.AuthContext, pl *trade.PickList, order *trade.SalesOrder, events *appshared.EventCollector) error {
	if order.Status != trade.OrderStatusPicking {
		return shared.NewDomainError(shared.CodeInvalidState, "Order is not being picked")
	}
	if err := pl.Complete(); err != nil {
		return err
	}

	reason := "Pick list " + pl.DisplayID
	items := make(map[uuid.UUID]*inventory.Item)
	touched := make([]*inventory.Item, 0)

	for _, line := range pl.Lines {
		qty := line.QuantityPicked
		if !qty.IsPositive() {
			continue
		}

		item, ok := items[line.ItemID]
		if !ok {
			var err error
			item, err = guard.Own[*inventory.Item](auth, "Item")(repos.Items().FindByID(ctx, line.ItemID))
			if err != nil {
				return err
			}
			items[line.ItemID] = item
			touched = append(touched, item)
		}

		if line.LotID != nil {
			if err := deductLot(ctx, repos, auth.TenantID, *line.LotID, qty); err != nil {
				return err
			}
		}
		if line.LotID == nil && line.LocationID == nil {
			if err := checkUnlocated(ctx, repos, auth.TenantID, item, qty); err != nil {
				return err
			}
		}
		if line.LocationID != nil {
			// lot lines carry their lot's location, which may hold less than the lot
			// when stock was set by hand
			if err := deductLocation(ctx, repos, auth.TenantID, item.ID, *line.LocationID, qty, line.LotID != nil); err != nil {
				return err
			}
		}
		if err := item.AdjustQuantity(qty.Neg(), reason); err != nil {
			return err
		}
	}

	for _, item := range touched {
		if err := repos.Items().SaveWithLock(ctx, item); err != nil {
			return err
		}
	}
	if err := order.ApplyPicked(pl.PickedByOrderLine()); err != nil {
		return err
	}
	if err := order.TransitionTo(trade.OrderStatusPicked, ""); err != nil {
		return err
	}
	if err := repos.PickLists().SaveWithLock(ctx, pl); err != nil {
		return err
	}

	events.Collect(pl)
	for _, item := range touched {
		events.Collect(item)
	}
	return nil
}

// cancelOpen cancels the order's open pick list, if any
func (f fulfillment) cancelOpen(ctx context.Context, repos appshared.Repositories, tenantID, orderID uuid.UUID) error {
	pl, err := repos.PickLists().FindActiveByOrder(ctx, tenantID, orderID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return err
	}
	if err := pl.Cancel(); err != nil {
		return err
	}
	return repos.PickLists().SaveWithLock(ctx, pl)
}

func deductLot(ctx context.Context, repos appshared.Repositories, tenantID, lotID uuid.UUID, qty decimal.Decimal) error {
	lot, err := repos.Lots().FindByID(ctx, lotID)
	if err != nil {
		return err
	}
	if lot.TenantID != tenantID {
		return shared.NewNotFoundError("Lot")
	}
	if err := lot.Deduct(qty); err != nil {
		return shared.WrapDomainError(shared.CodeInsufficientStock, "Lot "+lot.LotNumber+" no longer holds the picked quantity", err)
	}
	return repos.Lots().Save(ctx, lot)
}

// checkUnlocated makes sure stock held at no location still covers qty, so
// taking it off the item total leaves location rows within that total
func checkUnlocated(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, item *inventory.Item, qty decimal.Decimal) error {
	stocks, err := repos.Locations().FindStocksForItem(ctx, tenantID, item.ID)
	if err != nil {
		return err
	}
	located := decimal.Zero
	for _, st := range stocks {
		located = located.Add(st.Quantity)
	}
	if item.Quantity.Sub(located).LessThan(qty) {
		return shared.NewDomainError(shared.CodeInsufficientStock, "Unlocated stock of "+item.Name+" no longer covers the picked quantity")
	}
	return nil
}

func deductLocation(ctx context.Context, repos appshared.Repositories, tenantID, itemID, locationID uuid.UUID, qty decimal.Decimal, clamp bool) error {
	stock, err := repos.Locations().FindStock(ctx, tenantID, itemID, locationID)
	if err != nil {
		return err
	}
	if clamp {
		qty = decimal.Min(qty, stock.Quantity)
		if !qty.IsPositive() {
			return nil
		}
	}
	if err := stock.Deduct(qty); err != nil {
		return err
	}
	return repos.Locations().SaveStock(ctx, stock)
}

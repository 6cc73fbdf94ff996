package trade

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// LocationQuantity is on-hand stock of one item at one location
type LocationQuantity struct {
	LocationID   uuid.UUID
	LocationName string
	Quantity     decimal.Decimal
}

// StockSource is everything the planner may draw from for one item
type StockSource struct {
	Item      *inventory.Item
	Lots      []inventory.Lot
	Locations []LocationQuantity
}

// Unlocated is the part of the item total not held at any location
func (s *StockSource) Unlocated() decimal.Decimal {
	located := decimal.Zero
	for _, l := range s.Locations {
		located = located.Add(l.Quantity)
	}
	return decimal.Max(s.Item.Quantity.Sub(located), decimal.Zero)
}

// PickPlanner fills a pick list from available stock
type PickPlanner struct {
	allocator inventory.LotAllocator
	guardDays int
	now       func() time.Time
}

// PlannerOption configures a PickPlanner
type PlannerOption func(*PickPlanner)

// WithExpiryGuard keeps lots expiring within days off pick lists
func WithExpiryGuard(days int) PlannerOption {
	return func(p *PickPlanner) {
		if days > 0 {
			p.guardDays = days
		}
	}
}

// NewPickPlanner creates a planner that uses allocator for lot-tracked items
func NewPickPlanner(allocator inventory.LotAllocator, opts ...PlannerOption) *PickPlanner {
	p := &PickPlanner{allocator: allocator, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan adds one or more lines to pl for every order line with an
// outstanding quantity. Untracked and serial items draw from locations
// first, then from stock held at no location. Stock consumed by earlier
// lines is not offered again to later lines of the same item.
func (p *PickPlanner) Plan(pl *PickList, order *SalesOrder, sources map[uuid.UUID]*StockSource) {
	lotsLeft := make(map[uuid.UUID][]inventory.Lot)
	locsLeft := make(map[uuid.UUID][]LocationQuantity)
	unlocatedLeft := make(map[uuid.UUID]decimal.Decimal)
	at := p.now()
	opts := inventory.AllocationOptions{At: at, ExcludeExpiringWithinDays: p.guardDays}

	for i := range order.Items {
		oi := &order.Items[i]
		need := oi.OutstandingToPick()
		if !need.IsPositive() {
			continue
		}
		src := sources[oi.ItemID]
		base := PickListLine{
			SalesOrderItemID: oi.ID,
			ItemID:           oi.ItemID,
			ItemName:         oi.ItemName,
			SKU:              oi.SKU,
		}
		if src == nil || src.Item == nil {
			short := base
			short.QuantityToPick = need
			short.IsShort = true
			pl.AddLine(short)
			continue
		}

		if src.Item.TrackingMode == inventory.TrackingLot {
			lots, ok := lotsLeft[oi.ItemID]
			if !ok {
				lots = append([]inventory.Lot(nil), src.Lots...)
			}
			result := p.allocator.Allocate(lots, need, opts)
			for _, pick := range result.Picks {
				line := base
				lotID := pick.LotID
				line.LotID = &lotID
				line.LotNumber = pick.LotNumber
				line.ExpiryDate = pick.ExpiryDate
				line.LocationID = pick.LocationID
				line.LocationName = locationName(src.Locations, pick.LocationID)
				line.QuantityToPick = pick.PickQuantity
				pl.AddLine(line)
				for j := range lots {
					if lots[j].ID == pick.LotID {
						lots[j].Quantity = lots[j].Quantity.Sub(pick.PickQuantity)
					}
				}
			}
			lotsLeft[oi.ItemID] = lots
			if result.Shortfall.IsPositive() {
				short := base
				short.QuantityToPick = result.Shortfall
				short.IsShort = true
				pl.AddLine(short)
			}
			continue
		}

		locs, ok := locsLeft[oi.ItemID]
		if !ok {
			locs = append([]LocationQuantity(nil), src.Locations...)
			sortLocationsForPicking(locs)
		}
		remaining := need
		for j := range locs {
			if !remaining.IsPositive() {
				break
			}
			if !locs[j].Quantity.IsPositive() {
				continue
			}
			take := decimal.Min(remaining, locs[j].Quantity)
			locID := locs[j].LocationID
			line := base
			line.LocationID = &locID
			line.LocationName = locs[j].LocationName
			line.QuantityToPick = take
			pl.AddLine(line)
			locs[j].Quantity = locs[j].Quantity.Sub(take)
			remaining = remaining.Sub(take)
		}
		locsLeft[oi.ItemID] = locs

		unlocated, ok := unlocatedLeft[oi.ItemID]
		if !ok {
			unlocated = src.Unlocated()
		}
		if remaining.IsPositive() && unlocated.IsPositive() {
			take := decimal.Min(remaining, unlocated)
			line := base
			line.QuantityToPick = take
			pl.AddLine(line)
			unlocated = unlocated.Sub(take)
			remaining = remaining.Sub(take)
		}
		unlocatedLeft[oi.ItemID] = unlocated

		if remaining.IsPositive() {
			short := base
			short.QuantityToPick = remaining
			short.IsShort = true
			pl.AddLine(short)
		}
	}
}

// sortLocationsForPicking orders by quantity descending, then name
func sortLocationsForPicking(locs []LocationQuantity) {
	sort.SliceStable(locs, func(i, j int) bool {
		if !locs[i].Quantity.Equal(locs[j].Quantity) {
			return locs[i].Quantity.GreaterThan(locs[j].Quantity)
		}
		return strings.ToLower(locs[i].LocationName) < strings.ToLower(locs[j].LocationName)
	})
}

func locationName(locs []LocationQuantity, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	for _, l := range locs {
		if l.LocationID == *id {
			return l.LocationName
		}
	}
	return ""
}

// Package batch holds the lot allocation strategies used for FEFO suggestions and pick lists.
package batch

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// eligible filters lots that may be drawn from under opts
func eligible(lots []inventory.Lot, opts inventory.AllocationOptions) []inventory.Lot {
	at := opts.At
	if at.IsZero() {
		at = time.Now()
	}
	out := make([]inventory.Lot, 0, len(lots))
	for _, l := range lots {
		if !l.IsPickable(at) {
			continue
		}
		if l.ExpiresWithin(at, opts.ExcludeExpiringWithinDays) {
			continue
		}
		if opts.LocationID != nil && (l.LocationID == nil || *l.LocationID != *opts.LocationID) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// take walks ordered lots taking min(remaining, lot quantity) from each until
// requested is covered. Every eligible lot counts toward TotalAvailable.
func take(ordered []inventory.Lot, requested decimal.Decimal) inventory.AllocationResult {
	res := inventory.AllocationResult{
		Picks:          []inventory.LotPick{},
		TotalAvailable: decimal.Zero,
		TotalPick:      decimal.Zero,
	}
	remaining := requested
	for _, l := range ordered {
		res.TotalAvailable = res.TotalAvailable.Add(l.Quantity)
		if !remaining.IsPositive() {
			continue
		}
		pick := decimal.Min(remaining, l.Quantity)
		res.Picks = append(res.Picks, inventory.LotPick{
			LotID:             l.ID,
			LotNumber:         l.LotNumber,
			LocationID:        l.LocationID,
			ExpiryDate:        l.ExpiryDate,
			AvailableQuantity: l.Quantity,
			PickQuantity:      pick,
		})
		res.TotalPick = res.TotalPick.Add(pick)
		remaining = remaining.Sub(pick)
	}
	if remaining.IsPositive() {
		res.Shortfall = remaining
	} else {
		res.Shortfall = decimal.Zero
	}
	res.Fulfilled = !res.Shortfall.IsPositive()
	return res
}

// earlier orders optional timestamps with nil last
func earlier(a, b *time.Time) (less, decided bool) {
	switch {
	case a == nil && b == nil:
		return false, false
	case a == nil:
		return false, true
	case b == nil:
		return true, true
	case a.Equal(*b):
		return false, false
	default:
		return a.Before(*b), true
	}
}

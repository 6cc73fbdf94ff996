package batch

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// FEFO allocates from the lots expiring first. Lots without an expiry date go
// last; ties fall back to manufacture date, receipt time and lot number.
type FEFO struct{}

// NewFEFO creates the first-expired-first-out allocator
func NewFEFO() *FEFO { return &FEFO{} }

func (*FEFO) Name() string { return "fefo" }

func (*FEFO) Allocate(lots []inventory.Lot, requested decimal.Decimal, opts inventory.AllocationOptions) inventory.AllocationResult {
	ordered := eligible(lots, opts)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := &ordered[i], &ordered[j]
		if less, ok := earlier(a.ExpiryDate, b.ExpiryDate); ok {
			return less
		}
		if less, ok := earlier(a.ManufacturedDate, b.ManufacturedDate); ok {
			return less
		}
		if !a.ReceivedAt.Equal(b.ReceivedAt) {
			return a.ReceivedAt.Before(b.ReceivedAt)
		}
		return a.LotNumber < b.LotNumber
	})
	return take(ordered, requested)
}

var _ inventory.LotAllocator = (*FEFO)(nil)

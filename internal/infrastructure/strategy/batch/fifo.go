package batch

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// FIFO allocates from the oldest received lots, ignoring expiry order.
// Expired lots are still never allocated.
type FIFO struct{}

// NewFIFO creates the first-in-first-out allocator
func NewFIFO() *FIFO { return &FIFO{} }

func (*FIFO) Name() string { return "fifo" }

func (*FIFO) Allocate(lots []inventory.Lot, requested decimal.Decimal, opts inventory.AllocationOptions) inventory.AllocationResult {
	ordered := eligible(lots, opts)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := &ordered[i], &ordered[j]
		if !a.ReceivedAt.Equal(b.ReceivedAt) {
			return a.ReceivedAt.Before(b.ReceivedAt)
		}
		return a.LotNumber < b.LotNumber
	})
	return take(ordered, requested)
}

var _ inventory.LotAllocator = (*FIFO)(nil)

package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationOptions narrows which lots an allocator may draw from
type AllocationOptions struct {
	// At is the reference time for expiry checks. Zero means now.
	At time.Time
	// ExcludeExpiringWithinDays skips lots that expire within this many days
	ExcludeExpiringWithinDays int
	// LocationID restricts allocation to one location
	LocationID *uuid.UUID
}

// LotPick is one lot chosen by an allocator
type LotPick struct {
	LotID             uuid.UUID       `json:"lot_id"`
	LotNumber         string          `json:"lot_number"`
	LocationID        *uuid.UUID      `json:"location_id,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	PickQuantity      decimal.Decimal `json:"pick_quantity"`
}

// AllocationResult is the ordered outcome of an allocation
type AllocationResult struct {
	Picks          []LotPick       `json:"suggestions"`
	TotalAvailable decimal.Decimal `json:"total_available"`
	TotalPick      decimal.Decimal `json:"total_pick"`
	Shortfall      decimal.Decimal `json:"shortfall"`
	Fulfilled      bool            `json:"fulfilled"`
}

// LotAllocator chooses which lots satisfy a requested quantity
type LotAllocator interface {
	Name() string
	Allocate(lots []Lot, requested decimal.Decimal, opts AllocationOptions) AllocationResult
}

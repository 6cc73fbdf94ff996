package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// LotStatus is the lifecycle state of a lot
type LotStatus string

const (
	LotStatusActive     LotStatus = "active"
	LotStatusQuarantine LotStatus = "quarantine"
	LotStatusExpired    LotStatus = "expired"
	LotStatusDepleted   LotStatus = "depleted"
)

// Lot is a tracked quantity of an item sharing expiry and manufacture metadata
type Lot struct {
	shared.TenantEntity
	ItemID           uuid.UUID
	LocationID       *uuid.UUID
	LotNumber        string
	ExpiryDate       *time.Time
	ManufacturedDate *time.Time
	ReceivedAt       time.Time
	Quantity         decimal.Decimal
	Status           LotStatus
}

// NewLot creates an active lot
func NewLot(tenantID, itemID uuid.UUID, lotNumber string, qty decimal.Decimal, expiry, manufactured *time.Time, locationID *uuid.UUID) (*Lot, error) {
	lotNumber = strings.TrimSpace(lotNumber)
	if lotNumber == "" {
		return nil, shared.NewValidationError("Lot number is required")
	}
	if !qty.IsPositive() {
		return nil, shared.NewValidationError("Lot quantity must be positive")
	}
	if expiry != nil && manufactured != nil && expiry.Before(*manufactured) {
		return nil, shared.NewValidationError("Expiry date cannot be before the manufacture date")
	}
	return &Lot{
		TenantEntity:     shared.NewTenantEntity(tenantID),
		ItemID:           itemID,
		LocationID:       locationID,
		LotNumber:        lotNumber,
		ExpiryDate:       expiry,
		ManufacturedDate: manufactured,
		ReceivedAt:       time.Now(),
		Quantity:         qty,
		Status:           LotStatusActive,
	}, nil
}

// IsExpiredAt reports whether the lot expired before the given day.
// A lot expiring on the reference day is still usable that day.
func (l *Lot) IsExpiredAt(at time.Time) bool {
	if l.ExpiryDate == nil {
		return false
	}
	return truncateDay(*l.ExpiryDate).Before(truncateDay(at))
}

// ExpiresWithin reports whether the lot expires within days of at
func (l *Lot) ExpiresWithin(at time.Time, days int) bool {
	if l.ExpiryDate == nil || days <= 0 {
		return false
	}
	return truncateDay(*l.ExpiryDate).Before(truncateDay(at).AddDate(0, 0, days))
}

// IsPickable reports whether stock may be allocated from the lot at the given time
func (l *Lot) IsPickable(at time.Time) bool {
	return l.Status == LotStatusActive && l.Quantity.IsPositive() && !l.IsExpiredAt(at)
}

// Deduct removes qty from the lot, marking it depleted at zero
func (l *Lot) Deduct(qty decimal.Decimal) error {
	if qty.GreaterThan(l.Quantity) {
		return shared.ErrInsufficientStock
	}
	l.Quantity = l.Quantity.Sub(qty)
	if l.Quantity.IsZero() {
		l.Status = LotStatusDepleted
	}
	l.Touch()
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

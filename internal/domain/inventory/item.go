package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// TrackingMode controls whether an item is tracked by lot, by serial or by quantity only
type TrackingMode string

const (
	TrackingNone   TrackingMode = "none"
	TrackingLot    TrackingMode = "lot"
	TrackingSerial TrackingMode = "serial"
)

// IsValid reports whether m is a known tracking mode
func (m TrackingMode) IsValid() bool {
	switch m {
	case TrackingNone, TrackingLot, TrackingSerial:
		return true
	}
	return false
}

// StockStatus is derived from quantity and the minimum level
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// Item is an inventory item (a stock keeping unit)
type Item struct {
	shared.TenantAggregateRoot
	DisplayID    string
	Name         string
	SKU          string
	Barcode      string
	FolderID     *uuid.UUID
	Unit         string
	Quantity     decimal.Decimal
	MinQuantity  decimal.Decimal
	Price        decimal.Decimal
	CostPrice    decimal.Decimal
	TrackingMode TrackingMode
	Notes        string
	ImageKey     string
	DeletedAt    *time.Time
}

// NewItem creates an item with zero stock
func NewItem(tenantID uuid.UUID, displayID, name, sku, unit string) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Item name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("Item name cannot exceed 200 characters")
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = "pcs"
	}

	item := &Item{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DisplayID:           displayID,
		Name:                name,
		SKU:                 strings.TrimSpace(sku),
		Unit:                unit,
		Quantity:            decimal.Zero,
		MinQuantity:         decimal.Zero,
		Price:               decimal.Zero,
		CostPrice:           decimal.Zero,
		TrackingMode:        TrackingNone,
	}
	item.AddDomainEvent(NewItemCreatedEvent(item))
	return item, nil
}

// Rename changes the item name
func (i *Item) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Item name is required")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Item name cannot exceed 200 characters")
	}
	i.Name = name
	i.Touch()
	return nil
}

// SetCodes sets SKU, barcode and unit
func (i *Item) SetCodes(sku, barcode, unit string) {
	i.SKU = strings.TrimSpace(sku)
	i.Barcode = strings.TrimSpace(barcode)
	if u := strings.TrimSpace(unit); u != "" {
		i.Unit = u
	}
	i.Touch()
}

// SetPricing sets sale and cost price
func (i *Item) SetPricing(price, cost decimal.Decimal) error {
	if price.IsNegative() || cost.IsNegative() {
		return shared.NewValidationError("Prices cannot be negative")
	}
	i.Price = price
	i.CostPrice = cost
	i.Touch()
	return nil
}

// SetMinQuantity sets the low stock threshold
func (i *Item) SetMinQuantity(min decimal.Decimal) error {
	if min.IsNegative() {
		return shared.NewValidationError("Minimum quantity cannot be negative")
	}
	i.MinQuantity = min
	i.Touch()
	return nil
}

// SetTrackingMode switches tracking. Switching away from lot or serial
// tracking is refused while the item still has stock.
func (i *Item) SetTrackingMode(mode TrackingMode) error {
	if !mode.IsValid() {
		return shared.NewValidationError("Invalid tracking mode")
	}
	if mode == i.TrackingMode {
		return nil
	}
	if i.TrackingMode != TrackingNone && i.Quantity.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot change tracking mode while the item has stock")
	}
	i.TrackingMode = mode
	i.Touch()
	return nil
}

// MoveToFolder places the item in a folder, nil for the root
func (i *Item) MoveToFolder(folderID *uuid.UUID) {
	i.FolderID = folderID
	i.Touch()
}

// SetNotes sets free-form notes
func (i *Item) SetNotes(notes string) {
	i.Notes = strings.TrimSpace(notes)
	i.Touch()
}

// SetImageKey records the object storage key of the item image
func (i *Item) SetImageKey(key string) {
	i.ImageKey = key
	i.Touch()
}

// MarkUpdated records an update event after a batch of setters
func (i *Item) MarkUpdated() {
	i.AddDomainEvent(NewItemUpdatedEvent(i))
}

// AdjustQuantity applies a signed delta. Stock never goes below zero.
func (i *Item) AdjustQuantity(delta decimal.Decimal, reason string) error {
	if delta.IsZero() {
		return shared.NewValidationError("Adjustment cannot be zero")
	}
	after := i.Quantity.Add(delta)
	if after.IsNegative() {
		return shared.ErrInsufficientStock
	}
	before := i.Quantity
	i.Quantity = after
	i.Touch()
	i.AddDomainEvent(NewItemQuantityAdjustedEvent(i, before, after, reason))
	return nil
}

// SetQuantity sets an absolute quantity, for example after a stock count
func (i *Item) SetQuantity(qty decimal.Decimal, reason string) error {
	if qty.IsNegative() {
		return shared.NewValidationError("Quantity cannot be negative")
	}
	if qty.Equal(i.Quantity) {
		return nil
	}
	return i.AdjustQuantity(qty.Sub(i.Quantity), reason)
}

// StockStatus derives the stock status from quantity and minimum
func (i *Item) StockStatus() StockStatus {
	switch {
	case !i.Quantity.IsPositive():
		return StockStatusOutOfStock
	case i.Quantity.LessThanOrEqual(i.MinQuantity):
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// TotalValue is quantity times price
func (i *Item) TotalValue() decimal.Decimal {
	return i.Quantity.Mul(i.Price)
}

// IsDeleted reports whether the item was soft deleted
func (i *Item) IsDeleted() bool {
	return i.DeletedAt != nil
}

// SoftDelete hides the item while keeping references from orders intact
func (i *Item) SoftDelete() error {
	if i.IsDeleted() {
		return shared.NewNotFoundError("Item")
	}
	now := time.Now()
	i.DeletedAt = &now
	i.UpdatedAt = now
	i.AddDomainEvent(NewItemDeletedEvent(i))
	return nil
}

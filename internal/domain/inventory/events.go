package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeItem       = "item"
	AggregateTypeFolder     = "folder"
	AggregateTypeStockCount = "stock_count"
)

// Event type constants
const (
	EventTypeItemCreated             = "ItemCreated"
	EventTypeItemUpdated             = "ItemUpdated"
	EventTypeItemDeleted             = "ItemDeleted"
	EventTypeItemQuantityAdjusted    = "ItemQuantityAdjusted"
	EventTypeFolderCreated           = "FolderCreated"
	EventTypeFolderDeleted           = "FolderDeleted"
	EventTypeStockCountCreated       = "StockCountCreated"
	EventTypeStockCountStatusChanged = "StockCountStatusChanged"
)

// ItemCreatedEvent is published when an item is created
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	DisplayID string `json:"display_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku,omitempty"`
}

// NewItemCreatedEvent creates a new ItemCreatedEvent
func NewItemCreatedEvent(i *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeItem, i.ID, i.TenantID),
		DisplayID:       i.DisplayID,
		Name:            i.Name,
		SKU:             i.SKU,
	}
}

// ItemUpdatedEvent is published when item details change
type ItemUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewItemUpdatedEvent creates a new ItemUpdatedEvent
func NewItemUpdatedEvent(i *Item) *ItemUpdatedEvent {
	return &ItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemUpdated, AggregateTypeItem, i.ID, i.TenantID),
		Name:            i.Name,
	}
}

// ItemDeletedEvent is published when an item is soft deleted
type ItemDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewItemDeletedEvent creates a new ItemDeletedEvent
func NewItemDeletedEvent(i *Item) *ItemDeletedEvent {
	return &ItemDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemDeleted, AggregateTypeItem, i.ID, i.TenantID),
		Name:            i.Name,
	}
}

// ItemQuantityAdjustedEvent is published on every stock change
type ItemQuantityAdjustedEvent struct {
	shared.BaseDomainEvent
	Name           string          `json:"name"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Reason         string          `json:"reason,omitempty"`
}

// NewItemQuantityAdjustedEvent creates a new ItemQuantityAdjustedEvent
func NewItemQuantityAdjustedEvent(i *Item, before, after decimal.Decimal, reason string) *ItemQuantityAdjustedEvent {
	return &ItemQuantityAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemQuantityAdjusted, AggregateTypeItem, i.ID, i.TenantID),
		Name:            i.Name,
		QuantityBefore:  before,
		QuantityAfter:   after,
		Reason:          reason,
	}
}

// FolderCreatedEvent is published when a folder is created
type FolderCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewFolderCreatedEvent creates a new FolderCreatedEvent
func NewFolderCreatedEvent(f *Folder) *FolderCreatedEvent {
	return &FolderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFolderCreated, AggregateTypeFolder, f.ID, f.TenantID),
		Name:            f.Name,
	}
}

// FolderDeletedEvent is published when a folder is removed
type FolderDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewFolderDeletedEvent creates a new FolderDeletedEvent
func NewFolderDeletedEvent(f *Folder) *FolderDeletedEvent {
	return &FolderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFolderDeleted, AggregateTypeFolder, f.ID, f.TenantID),
		Name:            f.Name,
	}
}

// StockCountCreatedEvent is published when a count is created
type StockCountCreatedEvent struct {
	shared.BaseDomainEvent
	DisplayID string     `json:"display_id"`
	Name      string     `json:"name"`
	Scope     CountScope `json:"scope"`
}

// NewStockCountCreatedEvent creates a new StockCountCreatedEvent
func NewStockCountCreatedEvent(sc *StockCount) *StockCountCreatedEvent {
	return &StockCountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCountCreated, AggregateTypeStockCount, sc.ID, sc.TenantID),
		DisplayID:       sc.DisplayID,
		Name:            sc.Name,
		Scope:           sc.Scope,
	}
}

// StockCountStatusChangedEvent is published on every status change
type StockCountStatusChangedEvent struct {
	shared.BaseDomainEvent
	DisplayID  string           `json:"display_id"`
	FromStatus StockCountStatus `json:"from_status"`
	ToStatus   StockCountStatus `json:"to_status"`
}

// NewStockCountStatusChangedEvent creates a new StockCountStatusChangedEvent
func NewStockCountStatusChangedEvent(sc *StockCount, from StockCountStatus) *StockCountStatusChangedEvent {
	return &StockCountStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCountStatusChanged, AggregateTypeStockCount, sc.ID, sc.TenantID),
		DisplayID:       sc.DisplayID,
		FromStatus:      from,
		ToStatus:        sc.Status,
	}
}

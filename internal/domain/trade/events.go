package trade

import (
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Aggregate type names used in events and activity logs
const (
	AggregateTypeSalesOrder = "sales_order"
	AggregateTypePickList   = "pick_list"
)

// Event type constants
const (
	EventTypeSalesOrderCreated       = "SalesOrderCreated"
	EventTypeSalesOrderUpdated       = "SalesOrderUpdated"
	EventTypeSalesOrderItemsChanged  = "SalesOrderItemsChanged"
	EventTypeSalesOrderStatusChanged = "SalesOrderStatusChanged"
	EventTypeSalesOrderDeleted       = "SalesOrderDeleted"
	EventTypePickListGenerated       = "PickListGenerated"
	EventTypePickListCompleted       = "PickListCompleted"
)

// SalesOrderCreatedEvent is published when a draft order is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	DisplayID string `json:"display_id"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(o *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, AggregateTypeSalesOrder, o.ID, o.TenantID),
		DisplayID:       o.DisplayID,
	}
}

// SalesOrderUpdatedEvent is published when header fields change
type SalesOrderUpdatedEvent struct {
	shared.BaseDomainEvent
	DisplayID string `json:"display_id"`
}

// NewSalesOrderUpdatedEvent creates a new SalesOrderUpdatedEvent
func NewSalesOrderUpdatedEvent(o *SalesOrder) *SalesOrderUpdatedEvent {
	return &SalesOrderUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderUpdated, AggregateTypeSalesOrder, o.ID, o.TenantID),
		DisplayID:       o.DisplayID,
	}
}

// SalesOrderItemsChangedEvent is published when lines are added, edited or removed
type SalesOrderItemsChangedEvent struct {
	shared.BaseDomainEvent
	DisplayID string          `json:"display_id"`
	Change    string          `json:"change"`
	ItemName  string          `json:"item_name"`
	Total     decimal.Decimal `json:"total"`
}

// NewSalesOrderItemsChangedEvent creates a new SalesOrderItemsChangedEvent
func NewSalesOrderItemsChangedEvent(o *SalesOrder, change, itemName string) *SalesOrderItemsChangedEvent {
	return &SalesOrderItemsChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderItemsChanged, AggregateTypeSalesOrder, o.ID, o.TenantID),
		DisplayID:       o.DisplayID,
		Change:          change,
		ItemName:        itemName,
		Total:           o.Total,
	}
}

// SalesOrderStatusChangedEvent is published on every real status change
type SalesOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	DisplayID string      `json:"display_id"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	Reason    string      `json:"reason,omitempty"`
}

// NewSalesOrderStatusChangedEvent creates a new SalesOrderStatusChangedEvent
func NewSalesOrderStatusChangedEvent(o *SalesOrder, from, to OrderStatus) *SalesOrderStatusChangedEvent {
	return &SalesOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderStatusChanged, AggregateTypeSalesOrder, o.ID, o.TenantID),
		DisplayID:       o.DisplayID,
		From:            from,
		To:              to,
		Reason:          o.CancelReason,
	}
}

// SalesOrderDeletedEvent is published after an order is removed
type SalesOrderDeletedEvent struct {
	shared.BaseDomainEvent
	DisplayID string `json:"display_id"`
}

// NewSalesOrderDeletedEvent creates a new SalesOrderDeletedEvent
func NewSalesOrderDeletedEvent(o *SalesOrder) *SalesOrderDeletedEvent {
	return &SalesOrderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderDeleted, AggregateTypeSalesOrder, o.ID, o.TenantID),
		DisplayID:       o.DisplayID,
	}
}

// PickListGeneratedEvent is published when an order enters picking
type PickListGeneratedEvent struct {
	shared.BaseDomainEvent
	DisplayID      string `json:"display_id"`
	OrderDisplayID string `json:"order_display_id"`
	LineCount      int    `json:"line_count"`
	ShortLines     int    `json:"short_lines"`
}

// NewPickListGeneratedEvent creates a new PickListGeneratedEvent
func NewPickListGeneratedEvent(p *PickList, orderDisplayID string) *PickListGeneratedEvent {
	return &PickListGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePickListGenerated, AggregateTypePickList, p.ID, p.TenantID),
		DisplayID:       p.DisplayID,
		OrderDisplayID:  orderDisplayID,
		LineCount:       len(p.Lines),
		ShortLines:      len(p.ShortLines()),
	}
}

// PickListCompletedEvent is published when picking is done
type PickListCompletedEvent struct {
	shared.BaseDomainEvent
	DisplayID string `json:"display_id"`
}

// NewPickListCompletedEvent creates a new PickListCompletedEvent
func NewPickListCompletedEvent(p *PickList) *PickListCompletedEvent {
	return &PickListCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePickListCompleted, AggregateTypePickList, p.ID, p.TenantID),
		DisplayID:       p.DisplayID,
	}
}

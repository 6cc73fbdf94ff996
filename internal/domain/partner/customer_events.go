package partner

import (
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// AggregateTypeCustomer names the customer aggregate in events and activity logs
const AggregateTypeCustomer = "customer"

// Event type constants
const (
	EventTypeCustomerCreated       = "CustomerCreated"
	EventTypeCustomerUpdated       = "CustomerUpdated"
	EventTypeCustomerStatusChanged = "CustomerStatusChanged"
	EventTypeCustomerDeleted       = "CustomerDeleted"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID, c.TenantID),
		Code:            c.Code,
		Name:            c.Name,
	}
}

// CustomerUpdatedEvent is published when customer details change
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(c *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, c.ID, c.TenantID),
		Code:            c.Code,
		Name:            c.Name,
	}
}

// CustomerStatusChangedEvent is published on activation and deactivation
type CustomerStatusChangedEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// NewCustomerStatusChangedEvent creates a new CustomerStatusChangedEvent
func NewCustomerStatusChangedEvent(c *Customer) *CustomerStatusChangedEvent {
	return &CustomerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerStatusChanged, AggregateTypeCustomer, c.ID, c.TenantID),
		Name:            c.Name,
		IsActive:        c.IsActive,
	}
}

// CustomerDeletedEvent is published after a customer row is removed
type CustomerDeletedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewCustomerDeletedEvent creates a new CustomerDeletedEvent
func NewCustomerDeletedEvent(tenantID, customerID uuid.UUID, code, name string) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerDeleted, AggregateTypeCustomer, customerID, tenantID),
		Code:            code,
		Name:            name,
	}
}

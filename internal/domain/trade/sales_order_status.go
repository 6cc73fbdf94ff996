package trade

// OrderStatus represents the lifecycle state of a sales order
type OrderStatus string

const (
	OrderStatusDraft          OrderStatus = "draft"
	OrderStatusSubmitted      OrderStatus = "submitted"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPicking        OrderStatus = "picking"
	OrderStatusPicked         OrderStatus = "picked"
	OrderStatusPartialShipped OrderStatus = "partial_shipped"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// orderTransitions is the complete edge list of the order lifecycle.
// Any pair not listed here, other than a self transition, is invalid.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:          {OrderStatusSubmitted, OrderStatusCancelled},
	OrderStatusSubmitted:      {OrderStatusDraft, OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPicking, OrderStatusCancelled},
	OrderStatusPicking:        {OrderStatusPicked, OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusPicked:         {OrderStatusPartialShipped, OrderStatusShipped, OrderStatusPicking},
	OrderStatusPartialShipped: {OrderStatusShipped},
	OrderStatusShipped:        {OrderStatusDelivered},
	OrderStatusDelivered:      {OrderStatusCompleted},
	OrderStatusCompleted:      {},
	OrderStatusCancelled:      {},
}

// AllOrderStatuses lists every status in lifecycle order
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusDraft, OrderStatusSubmitted, OrderStatusConfirmed, OrderStatusPicking, OrderStatusPicked,
		OrderStatusPartialShipped, OrderStatusShipped, OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled,
	}
}

// IsValid checks if the status is known
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether target is reachable in one step. Self transitions are valid.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if !s.IsValid() || !target.IsValid() {
		return false
	}
	if s == target {
		return true
	}
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s, excluding s itself
func (s OrderStatus) NextStatuses() []OrderStatus {
	next := orderTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether no further transitions exist
func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(orderTransitions[s]) == 0
}

// AllowsItemChanges reports whether order lines may be added, edited or removed
func (s OrderStatus) AllowsItemChanges() bool {
	return s == OrderStatusDraft || s == OrderStatusSubmitted
}

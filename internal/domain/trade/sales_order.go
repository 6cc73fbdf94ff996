package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/tax"
)

var hundred = decimal.NewFromInt(100)

// SalesOrderItem is a line on a sales order
type SalesOrderItem struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	ItemID          uuid.UUID
	ItemName        string
	SKU             string
	Unit            string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	QuantityPicked  decimal.Decimal
	QuantityShipped decimal.Decimal
	TaxAmount       decimal.Decimal
	LineTotal       decimal.Decimal
	Taxes           []tax.LineTax
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GrossAmount is quantity times unit price
func (i *SalesOrderItem) GrossAmount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice).Round(2)
}

// DiscountAmount is the line discount in currency
func (i *SalesOrderItem) DiscountAmount() decimal.Decimal {
	return i.GrossAmount().Mul(i.DiscountPercent).Div(hundred).Round(2)
}

// TaxableAmount is the gross amount less the discount
func (i *SalesOrderItem) TaxableAmount() decimal.Decimal {
	return i.GrossAmount().Sub(i.DiscountAmount())
}

// OutstandingToPick is the quantity not yet picked
func (i *SalesOrderItem) OutstandingToPick() decimal.Decimal {
	out := i.Quantity.Sub(i.QuantityPicked)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// TaxRateIDs returns the rates currently applied to the line
func (i *SalesOrderItem) TaxRateIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(i.Taxes))
	for _, t := range i.Taxes {
		ids = append(ids, t.TaxRateID)
	}
	return ids
}

// recalculate refreshes the line total. TaxAmount is only set by SetItemTaxes.
func (i *SalesOrderItem) recalculate() {
	i.LineTotal = i.TaxableAmount().Add(i.TaxAmount)
}

// LineInput carries the editable fields of an order line
type LineInput struct {
	ItemID          uuid.UUID
	ItemName        string
	SKU             string
	Unit            string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Notes           string
}

func (in LineInput) validate() error {
	if in.ItemID == uuid.Nil {
		return shared.NewValidationError("Item is required")
	}
	if !in.Quantity.IsPositive() {
		return shared.NewValidationError("Quantity must be greater than zero")
	}
	if in.UnitPrice.IsNegative() {
		return shared.NewValidationError("Unit price cannot be negative")
	}
	if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(hundred) {
		return shared.NewValidationError("Discount must be between 0 and 100 percent")
	}
	return nil
}

// SalesOrder is the aggregate root for a customer order
type SalesOrder struct {
	shared.TenantAggregateRoot
	DisplayID     string
	CustomerID    *uuid.UUID
	CustomerName  string
	Status        OrderStatus
	OrderDate     time.Time
	RequestedDate *time.Time
	PromisedDate  *time.Time
	ShipTo        partner.Address
	Currency      string
	Notes         string
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	ShippingCost  decimal.Decimal
	Total         decimal.Decimal
	SubmittedAt   *time.Time
	ConfirmedAt   *time.Time
	ShippedAt     *time.Time
	DeliveredAt   *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string
	Items         []SalesOrderItem
}

// NewSalesOrder creates a draft order
func NewSalesOrder(tenantID uuid.UUID, displayID string) (*SalesOrder, error) {
	if displayID == "" {
		return nil, shared.NewValidationError("Display ID is required")
	}
	o := &SalesOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DisplayID:           displayID,
		Status:              OrderStatusDraft,
		OrderDate:           time.Now(),
		Currency:            "USD",
		Subtotal:            decimal.Zero,
		DiscountTotal:       decimal.Zero,
		TaxTotal:            decimal.Zero,
		ShippingCost:        decimal.Zero,
		Total:               decimal.Zero,
		Items:               make([]SalesOrderItem, 0),
	}
	o.AddDomainEvent(NewSalesOrderCreatedEvent(o))
	return o, nil
}

func (o *SalesOrder) ensureEditable() error {
	if !o.Status.AllowsItemChanges() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Order items can only be changed in draft or submitted status (current: %s)", o.Status))
	}
	return nil
}

// SetCustomer assigns the customer. The ship-to address is taken from the
// customer's shipping address unless one was already entered.
func (o *SalesOrder) SetCustomer(c *partner.Customer) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if c == nil {
		return shared.NewValidationError("Customer is required")
	}
	if c.TenantID != o.TenantID {
		return shared.NewNotFoundError("Customer")
	}
	if !c.IsActive {
		return shared.NewValidationError("Customer is inactive")
	}
	o.CustomerID = &c.ID
	o.CustomerName = c.Name
	if o.ShipTo.IsEmpty() {
		o.ShipTo = c.ShippingAddress
	}
	o.Touch()
	return nil
}

// SetShipTo overrides the ship-to address
func (o *SalesOrder) SetShipTo(addr partner.Address) error {
	if o.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	o.ShipTo = addr.Trimmed()
	o.Touch()
	return nil
}

// SetSchedule sets the order, requested and promised dates
func (o *SalesOrder) SetSchedule(orderDate time.Time, requested, promised *time.Time) error {
	if o.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	if !orderDate.IsZero() {
		o.OrderDate = orderDate
	}
	if requested != nil && requested.Before(truncate(o.OrderDate)) {
		return shared.NewValidationError("Requested date cannot be before the order date")
	}
	o.RequestedDate = requested
	o.PromisedDate = promised
	o.Touch()
	return nil
}

// SetNotes sets free-form notes
func (o *SalesOrder) SetNotes(notes string) {
	o.Notes = strings.TrimSpace(notes)
	o.Touch()
}

// SetShippingCost sets the shipping charge and refreshes totals
func (o *SalesOrder) SetShippingCost(cost decimal.Decimal) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if cost.IsNegative() {
		return shared.NewValidationError("Shipping cost cannot be negative")
	}
	o.ShippingCost = cost.Round(2)
	o.recalculateTotals()
	return nil
}

// AddItem appends a line. Taxes are attached separately through SetItemTaxes.
func (o *SalesOrder) AddItem(in LineInput) (*SalesOrderItem, error) {
	if err := o.ensureEditable(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	o.Items = append(o.Items, SalesOrderItem{
		ID:              uuid.New(),
		OrderID:         o.ID,
		ItemID:          in.ItemID,
		ItemName:        in.ItemName,
		SKU:             in.SKU,
		Unit:            in.Unit,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		DiscountPercent: in.DiscountPercent,
		TaxAmount:       decimal.Zero,
		QuantityPicked:  decimal.Zero,
		QuantityShipped: decimal.Zero,
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	line := &o.Items[len(o.Items)-1]
	line.recalculate()
	o.recalculateTotals()
	o.AddDomainEvent(NewSalesOrderItemsChangedEvent(o, "item_added", line.ItemName))
	return line, nil
}

// UpdateItem changes quantity, price, discount and notes of a line
func (o *SalesOrder) UpdateItem(lineID uuid.UUID, qty, price, discount decimal.Decimal, notes string) (*SalesOrderItem, error) {
	if err := o.ensureEditable(); err != nil {
		return nil, err
	}
	line := o.GetItem(lineID)
	if line == nil {
		return nil, shared.NewNotFoundError("Order item")
	}
	in := LineInput{ItemID: line.ItemID, Quantity: qty, UnitPrice: price, DiscountPercent: discount}
	if err := in.validate(); err != nil {
		return nil, err
	}
	line.Quantity = qty
	line.UnitPrice = price
	line.DiscountPercent = discount
	line.Notes = strings.TrimSpace(notes)
	line.UpdatedAt = time.Now()
	line.recalculate()
	o.recalculateTotals()
	o.AddDomainEvent(NewSalesOrderItemsChangedEvent(o, "item_updated", line.ItemName))
	return line, nil
}

// RemoveItem deletes a line. A submitted order keeps at least one line.
func (o *SalesOrder) RemoveItem(lineID uuid.UUID) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	for i := range o.Items {
		if o.Items[i].ID != lineID {
			continue
		}
		if o.Status == OrderStatusSubmitted && len(o.Items) == 1 {
			return shared.NewValidationError("A submitted order must keep at least one item")
		}
		name := o.Items[i].ItemName
		o.Items = append(o.Items[:i], o.Items[i+1:]...)
		o.recalculateTotals()
		o.AddDomainEvent(NewSalesOrderItemsChangedEvent(o, "item_removed", name))
		return nil
	}
	return shared.NewNotFoundError("Order item")
}

// SetItemTaxes replaces the taxes of a line with their calculated total and
// refreshes totals
func (o *SalesOrder) SetItemTaxes(lineID uuid.UUID, taxes []tax.LineTax, total decimal.Decimal) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	line := o.GetItem(lineID)
	if line == nil {
		return shared.NewNotFoundError("Order item")
	}
	line.Taxes = taxes
	line.TaxAmount = total
	line.UpdatedAt = time.Now()
	line.recalculate()
	o.recalculateTotals()
	return nil
}

// GetItem returns the line with the given ID, or nil
func (o *SalesOrder) GetItem(lineID uuid.UUID) *SalesOrderItem {
	for i := range o.Items {
		if o.Items[i].ID == lineID {
			return &o.Items[i]
		}
	}
	return nil
}

// TransitionTo moves the order to target. Self transitions succeed without side effects.
func (o *SalesOrder) TransitionTo(target OrderStatus, reason string) error {
	if !target.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("Unknown order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}
	if o.Status == target {
		return nil
	}
	if target == OrderStatusSubmitted {
		if o.CustomerID == nil {
			return shared.NewValidationError("Customer is required to submit an order")
		}
		if len(o.Items) == 0 {
			return shared.NewValidationError("Order must have at least one item")
		}
	}

	now := time.Now()
	switch target {
	case OrderStatusSubmitted:
		o.SubmittedAt = &now
	case OrderStatusConfirmed:
		o.ConfirmedAt = &now
	case OrderStatusShipped:
		o.ShippedAt = &now
		for i := range o.Items {
			o.Items[i].QuantityShipped = o.Items[i].QuantityPicked
		}
	case OrderStatusPartialShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	case OrderStatusCompleted:
		o.CompletedAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
		o.CancelReason = strings.TrimSpace(reason)
	}

	from := o.Status
	o.Status = target
	o.UpdatedAt = now
	o.AddDomainEvent(NewSalesOrderStatusChangedEvent(o, from, target))
	return nil
}

// ApplyPicked records picked quantities per order line after a pick list completes
func (o *SalesOrder) ApplyPicked(picked map[uuid.UUID]decimal.Decimal) error {
	if o.Status != OrderStatusPicking {
		return shared.NewDomainError(shared.CodeInvalidState, "Order is not being picked")
	}
	for i := range o.Items {
		if qty, ok := picked[o.Items[i].ID]; ok {
			o.Items[i].QuantityPicked = o.Items[i].QuantityPicked.Add(qty)
			o.Items[i].UpdatedAt = time.Now()
		}
	}
	return nil
}

// MarkUpdated records a header update event.
// Services call it once after applying a batch of setters.
func (o *SalesOrder) MarkUpdated() {
	o.AddDomainEvent(NewSalesOrderUpdatedEvent(o))
}

// CanDelete reports whether the order may be removed
func (o *SalesOrder) CanDelete() bool {
	return o.Status == OrderStatusDraft || o.Status == OrderStatusCancelled
}

// TotalQuantity sums line quantities
func (o *SalesOrder) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, i := range o.Items {
		total = total.Add(i.Quantity)
	}
	return total
}

func (o *SalesOrder) recalculateTotals() {
	o.Subtotal = decimal.Zero
	o.DiscountTotal = decimal.Zero
	o.TaxTotal = decimal.Zero
	for _, i := range o.Items {
		o.Subtotal = o.Subtotal.Add(i.GrossAmount())
		o.DiscountTotal = o.DiscountTotal.Add(i.DiscountAmount())
		o.TaxTotal = o.TaxTotal.Add(i.TaxAmount)
	}
	o.Total = o.Subtotal.Sub(o.DiscountTotal).Add(o.TaxTotal).Add(o.ShippingCost)
	o.Touch()
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

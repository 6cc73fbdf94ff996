package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// PickListStatus represents the state of a pick list
type PickListStatus string

const (
	PickListStatusPending    PickListStatus = "pending"
	PickListStatusInProgress PickListStatus = "in_progress"
	PickListStatusCompleted  PickListStatus = "completed"
	PickListStatusCancelled  PickListStatus = "cancelled"
)

// IsActive reports whether the pick list still blocks a new one for the same order
func (s PickListStatus) IsActive() bool {
	return s == PickListStatusPending || s == PickListStatusInProgress
}

// PickListLine tells the picker what to take from where
type PickListLine struct {
	ID               uuid.UUID
	PickListID       uuid.UUID
	SalesOrderItemID uuid.UUID
	ItemID           uuid.UUID
	ItemName         string
	SKU              string
	LotID            *uuid.UUID
	LotNumber        string
	ExpiryDate       *time.Time
	LocationID       *uuid.UUID
	LocationName     string
	QuantityToPick   decimal.Decimal
	QuantityPicked   decimal.Decimal
	IsShort          bool
	SortOrder        int
}

// PickList is generated when an order enters picking
type PickList struct {
	shared.TenantAggregateRoot
	DisplayID    string
	SalesOrderID uuid.UUID
	Status       PickListStatus
	AssignedTo   *uuid.UUID
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	Lines        []PickListLine
}

// NewPickList creates an empty pending pick list for an order
func NewPickList(tenantID uuid.UUID, displayID string, orderID uuid.UUID) (*PickList, error) {
	if displayID == "" {
		return nil, shared.NewValidationError("Display ID is required")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("Sales order is required")
	}
	return &PickList{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DisplayID:           displayID,
		SalesOrderID:        orderID,
		Status:              PickListStatusPending,
		Lines:               make([]PickListLine, 0),
	}, nil
}

// AddLine appends a line and assigns its ID and order
func (p *PickList) AddLine(line PickListLine) {
	line.ID = uuid.New()
	line.PickListID = p.ID
	line.SortOrder = len(p.Lines) + 1
	if line.QuantityPicked.IsZero() {
		line.QuantityPicked = decimal.Zero
	}
	p.Lines = append(p.Lines, line)
}

// GetLine returns the line with the given ID, or nil
func (p *PickList) GetLine(lineID uuid.UUID) *PickListLine {
	for i := range p.Lines {
		if p.Lines[i].ID == lineID {
			return &p.Lines[i]
		}
	}
	return nil
}

// RecordPick stores the quantity actually picked on a line. Short lines have
// no lot or location behind them and only accept zero.
func (p *PickList) RecordPick(lineID uuid.UUID, qty decimal.Decimal) error {
	if !p.Status.IsActive() {
		return shared.NewDomainError(shared.CodeInvalidState, "Pick list is no longer open")
	}
	line := p.GetLine(lineID)
	if line == nil {
		return shared.NewNotFoundError("Pick list line")
	}
	if qty.IsNegative() {
		return shared.NewValidationError("Picked quantity cannot be negative")
	}
	if line.IsShort && qty.IsPositive() {
		return shared.NewValidationError("No stock is allocated to a short line")
	}
	if qty.GreaterThan(line.QuantityToPick) {
		return shared.NewValidationError("Picked quantity cannot exceed the quantity to pick")
	}
	line.QuantityPicked = qty
	if p.Status == PickListStatusPending {
		now := time.Now()
		p.Status = PickListStatusInProgress
		p.StartedAt = &now
	}
	p.Touch()
	return nil
}

// Assign sets the user responsible for picking
func (p *PickList) Assign(userID *uuid.UUID) error {
	if !p.Status.IsActive() {
		return shared.NewDomainError(shared.CodeInvalidState, "Pick list is no longer open")
	}
	p.AssignedTo = userID
	p.Touch()
	return nil
}

// Complete closes the pick list. When nothing was recorded yet every
// non-short line is treated as picked in full.
func (p *PickList) Complete() error {
	if !p.Status.IsActive() {
		return shared.NewDomainError(shared.CodeInvalidState, "Pick list is no longer open")
	}
	if p.Status == PickListStatusPending {
		for i := range p.Lines {
			if !p.Lines[i].IsShort {
				p.Lines[i].QuantityPicked = p.Lines[i].QuantityToPick
			}
		}
	}
	now := time.Now()
	p.Status = PickListStatusCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(NewPickListCompletedEvent(p))
	return nil
}

// Cancel abandons an open pick list
func (p *PickList) Cancel() error {
	if !p.Status.IsActive() {
		return shared.NewDomainError(shared.CodeInvalidState, "Pick list is no longer open")
	}
	now := time.Now()
	p.Status = PickListStatusCancelled
	p.CancelledAt = &now
	p.UpdatedAt = now
	return nil
}

// PickedByOrderLine sums picked quantities per sales order line
func (p *PickList) PickedByOrderLine() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, l := range p.Lines {
		out[l.SalesOrderItemID] = out[l.SalesOrderItemID].Add(l.QuantityPicked)
	}
	return out
}

// ShortLines returns lines that could not be covered by stock
func (p *PickList) ShortLines() []PickListLine {
	var out []PickListLine
	for _, l := range p.Lines {
		if l.IsShort {
			out = append(out, l)
		}
	}
	return out
}

// TotalToPick sums quantities across lines
func (p *PickList) TotalToPick() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.QuantityToPick)
	}
	return total
}

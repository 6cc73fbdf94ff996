package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/tax"
	"github.com/stockroom/backend/internal/domain/trade"
)

// ==================== Sales Order DTOs ====================

// OrderLineRequest adds one line. The unit price defaults to the item's price.
type OrderLineRequest struct {
	ItemID          uuid.UUID        `json:"item_id" binding:"required"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	TaxRateIDs      []uuid.UUID      `json:"tax_rate_ids"`
	Notes           string           `json:"notes" binding:"max=1000"`
}

// CreateSalesOrderRequest creates a draft order
type CreateSalesOrderRequest struct {
	CustomerID    *uuid.UUID         `json:"customer_id"`
	OrderDate     *time.Time         `json:"order_date"`
	RequestedDate *time.Time         `json:"requested_date"`
	PromisedDate  *time.Time         `json:"promised_date"`
	ShipTo        *partner.Address   `json:"ship_to"`
	ShippingCost  *decimal.Decimal   `json:"shipping_cost"`
	Notes         string             `json:"notes" binding:"max=2000"`
	Items         []OrderLineRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateSalesOrderRequest changes the header fields that are present
type UpdateSalesOrderRequest struct {
	CustomerID    *uuid.UUID       `json:"customer_id"`
	OrderDate     *time.Time       `json:"order_date"`
	RequestedDate *time.Time       `json:"requested_date"`
	PromisedDate  *time.Time       `json:"promised_date"`
	ShipTo        *partner.Address `json:"ship_to"`
	ShippingCost  *decimal.Decimal `json:"shipping_cost"`
	Notes         *string          `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateOrderLineRequest changes the line fields that are present.
// TaxRateIDs replaces the applied rates when set.
type UpdateOrderLineRequest struct {
	Quantity        *decimal.Decimal `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	Notes           *string          `json:"notes" binding:"omitempty,max=1000"`
	TaxRateIDs      []uuid.UUID      `json:"tax_rate_ids"`
}

// ChangeStatusRequest moves an order through its lifecycle
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"max=500"`
}

// SalesOrderListRequest holds list query parameters
type SalesOrderListRequest struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy     string     `form:"sort_by" binding:"omitempty,max=50"`
	SortDir    string     `form:"sort_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search     string     `form:"search" binding:"omitempty,max=100"`
	Status     string     `form:"status" binding:"omitempty,max=30"`
	CustomerID *uuid.UUID `form:"customer_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
}

// SalesOrderItemResponse is an order line in API responses
type SalesOrderItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ItemID          uuid.UUID       `json:"item_id"`
	ItemName        string          `json:"item_name"`
	SKU             string          `json:"sku"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	LineTotal       decimal.Decimal `json:"line_total"`
	QuantityPicked  decimal.Decimal `json:"quantity_picked"`
	QuantityShipped decimal.Decimal `json:"quantity_shipped"`
	Taxes           []tax.LineTax   `json:"taxes"`
	Notes           string          `json:"notes"`
}

// SalesOrderResponse is an order with its lines
type SalesOrderResponse struct {
	ID            uuid.UUID                `json:"id"`
	DisplayID     string                   `json:"display_id"`
	CustomerID    *uuid.UUID               `json:"customer_id,omitempty"`
	CustomerName  string                   `json:"customer_name"`
	Status        string                   `json:"status"`
	NextStatuses  []string                 `json:"next_statuses"`
	OrderDate     time.Time                `json:"order_date"`
	RequestedDate *time.Time               `json:"requested_date,omitempty"`
	PromisedDate  *time.Time               `json:"promised_date,omitempty"`
	ShipTo        partner.Address          `json:"ship_to"`
	Currency      string                   `json:"currency"`
	Notes         string                   `json:"notes"`
	Subtotal      decimal.Decimal          `json:"subtotal"`
	DiscountTotal decimal.Decimal          `json:"discount_total"`
	TaxTotal      decimal.Decimal          `json:"tax_total"`
	ShippingCost  decimal.Decimal          `json:"shipping_cost"`
	Total         decimal.Decimal          `json:"total"`
	SubmittedAt   *time.Time               `json:"submitted_at,omitempty"`
	ConfirmedAt   *time.Time               `json:"confirmed_at,omitempty"`
	ShippedAt     *time.Time               `json:"shipped_at,omitempty"`
	DeliveredAt   *time.Time               `json:"delivered_at,omitempty"`
	CompletedAt   *time.Time               `json:"completed_at,omitempty"`
	CancelledAt   *time.Time               `json:"cancelled_at,omitempty"`
	CancelReason  string                   `json:"cancel_reason,omitempty"`
	Items         []SalesOrderItemResponse `json:"items"`
	Version       int                      `json:"version"`
	CreatedBy     *uuid.UUID               `json:"created_by,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// SalesOrderListItem is an order row in list responses
type SalesOrderListItem struct {
	ID           uuid.UUID       `json:"id"`
	DisplayID    string          `json:"display_id"`
	CustomerID   *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	Status       string          `json:"status"`
	OrderDate    time.Time       `json:"order_date"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CustomerSummary is the customer block of order details
type CustomerSummary struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	TaxExempt bool      `json:"tax_exempt"`
	IsActive  bool      `json:"is_active"`
}

// PickListSummary is the pick list block of order details
type PickListSummary struct {
	ID          uuid.UUID       `json:"id"`
	DisplayID   string          `json:"display_id"`
	Status      string          `json:"status"`
	LineCount   int             `json:"line_count"`
	ShortLines  int             `json:"short_lines"`
	TotalToPick decimal.Decimal `json:"total_to_pick"`
}

// SalesOrderDetails is an order with its customer and latest pick list
type SalesOrderDetails struct {
	SalesOrderResponse
	Customer *CustomerSummary `json:"customer,omitempty"`
	PickList *PickListSummary `json:"pick_list,omitempty"`
}

// OrderStatusSummary counts orders per status
type OrderStatusSummary struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// ToSalesOrderResponse converts a domain order
func ToSalesOrderResponse(o *trade.SalesOrder) SalesOrderResponse {
	items := make([]SalesOrderItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = toItemResponse(&o.Items[i])
	}
	next := o.Status.NextStatuses()
	nextNames := make([]string, len(next))
	for i, s := range next {
		nextNames[i] = string(s)
	}
	return SalesOrderResponse{
		ID:            o.ID,
		DisplayID:     o.DisplayID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		Status:        string(o.Status),
		NextStatuses:  nextNames,
		OrderDate:     o.OrderDate,
		RequestedDate: o.RequestedDate,
		PromisedDate:  o.PromisedDate,
		ShipTo:        o.ShipTo,
		Currency:      o.Currency,
		Notes:         o.Notes,
		Subtotal:      o.Subtotal,
		DiscountTotal: o.DiscountTotal,
		TaxTotal:      o.TaxTotal,
		ShippingCost:  o.ShippingCost,
		Total:         o.Total,
		SubmittedAt:   o.SubmittedAt,
		ConfirmedAt:   o.ConfirmedAt,
		ShippedAt:     o.ShippedAt,
		DeliveredAt:   o.DeliveredAt,
		CompletedAt:   o.CompletedAt,
		CancelledAt:   o.CancelledAt,
		CancelReason:  o.CancelReason,
		Items:         items,
		Version:       o.Version,
		CreatedBy:     o.CreatedBy,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toItemResponse(i *trade.SalesOrderItem) SalesOrderItemResponse {
	taxes := i.Taxes
	if taxes == nil {
		taxes = []tax.LineTax{}
	}
	return SalesOrderItemResponse{
		ID:              i.ID,
		ItemID:          i.ItemID,
		ItemName:        i.ItemName,
		SKU:             i.SKU,
		Unit:            i.Unit,
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		DiscountPercent: i.DiscountPercent,
		DiscountAmount:  i.DiscountAmount(),
		TaxAmount:       i.TaxAmount,
		LineTotal:       i.LineTotal,
		QuantityPicked:  i.QuantityPicked,
		QuantityShipped: i.QuantityShipped,
		Taxes:           taxes,
		Notes:           i.Notes,
	}
}

// ToSalesOrderListItem converts a domain order into a list row
func ToSalesOrderListItem(o *trade.SalesOrder) SalesOrderListItem {
	return SalesOrderListItem{
		ID:           o.ID,
		DisplayID:    o.DisplayID,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Status:       string(o.Status),
		OrderDate:    o.OrderDate,
		Total:        o.Total,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func toCustomerSummary(c *partner.Customer) *CustomerSummary {
	return &CustomerSummary{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		TaxExempt: c.TaxExempt,
		IsActive:  c.IsActive,
	}
}

func toPickListSummary(p *trade.PickList) *PickListSummary {
	return &PickListSummary{
		ID:          p.ID,
		DisplayID:   p.DisplayID,
		Status:      string(p.Status),
		LineCount:   len(p.Lines),
		ShortLines:  len(p.ShortLines()),
		TotalToPick: p.TotalToPick(),
	}
}

// ==================== Pick List DTOs ====================

// RecordPickRequest stores the picked quantity of one line
type RecordPickRequest struct {
	QuantityPicked decimal.Decimal `json:"quantity_picked" binding:"required"`
}

// PickListLineResponse is a pick list line in API responses
type PickListLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	SalesOrderItemID uuid.UUID       `json:"sales_order_item_id"`
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	SKU              string          `json:"sku"`
	LotID            *uuid.UUID      `json:"lot_id,omitempty"`
	LotNumber        string          `json:"lot_number,omitempty"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	LocationID       *uuid.UUID      `json:"location_id,omitempty"`
	LocationName     string          `json:"location_name,omitempty"`
	QuantityToPick   decimal.Decimal `json:"quantity_to_pick"`
	QuantityPicked   decimal.Decimal `json:"quantity_picked"`
	IsShort          bool            `json:"is_short"`
}

// PickListResponse is a pick list with its lines
type PickListResponse struct {
	ID           uuid.UUID              `json:"id"`
	DisplayID    string                 `json:"display_id"`
	SalesOrderID uuid.UUID              `json:"sales_order_id"`
	Status       string                 `json:"status"`
	AssignedTo   *uuid.UUID             `json:"assigned_to,omitempty"`
	StartedAt    *time.Time             `json:"started_at,omitempty"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
	CancelledAt  *time.Time             `json:"cancelled_at,omitempty"`
	TotalToPick  decimal.Decimal        `json:"total_to_pick"`
	Lines        []PickListLineResponse `json:"lines"`
	CreatedAt    time.Time              `json:"created_at"`
}

// ToPickListResponse converts a domain pick list
func ToPickListResponse(p *trade.PickList) PickListResponse {
	lines := make([]PickListLineResponse, len(p.Lines))
	for i, l := range p.Lines {
		lines[i] = PickListLineResponse{
			ID:               l.ID,
			SalesOrderItemID: l.SalesOrderItemID,
			ItemID:           l.ItemID,
			ItemName:         l.ItemName,
			SKU:              l.SKU,
			LotID:            l.LotID,
			LotNumber:        l.LotNumber,
			ExpiryDate:       l.ExpiryDate,
			LocationID:       l.LocationID,
			LocationName:     l.LocationName,
			QuantityToPick:   l.QuantityToPick,
			QuantityPicked:   l.QuantityPicked,
			IsShort:          l.IsShort,
		}
	}
	return PickListResponse{
		ID:           p.ID,
		DisplayID:    p.DisplayID,
		SalesOrderID: p.SalesOrderID,
		Status:       string(p.Status),
		AssignedTo:   p.AssignedTo,
		StartedAt:    p.StartedAt,
		CompletedAt:  p.CompletedAt,
		CancelledAt:  p.CancelledAt,
		TotalToPick:  p.TotalToPick(),
		Lines:        lines,
		CreatedAt:    p.CreatedAt,
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/tax"
	"github.com/stockroom/backend/internal/domain/trade"
)

// SalesOrderModel is the persistence model for trade.SalesOrder
type SalesOrderModel struct {
	TenantAggregateModel
	DisplayID     string     `gorm:"type:varchar(30);not null"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName  string     `gorm:"type:varchar(200);not null;default:''"`
	Status        string     `gorm:"type:varchar(20);not null;default:'draft'"`
	OrderDate     time.Time  `gorm:"not null"`
	RequestedDate *time.Time
	PromisedDate  *time.Time
	ShipTo        AddressColumns  `gorm:"embedded;embeddedPrefix:ship_to_"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Notes         string          `gorm:"type:text;not null;default:''"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	DiscountTotal decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	TaxTotal      decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	ShippingCost  decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	SubmittedAt   *time.Time
	ConfirmedAt   *time.Time
	ShippedAt     *time.Time
	DeliveredAt   *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string                `gorm:"type:text;not null;default:''"`
	Items         []SalesOrderItemModel `gorm:"foreignKey:SalesOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// SalesOrderItemModel is one order line
type SalesOrderItemModel struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey"`
	SalesOrderID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID          `gorm:"type:uuid;not null"`
	ItemName        string             `gorm:"type:varchar(200);not null"`
	SKU             string             `gorm:"column:sku;type:varchar(100);not null;default:''"`
	Unit            string             `gorm:"type:varchar(20);not null;default:''"`
	Quantity        decimal.Decimal    `gorm:"type:numeric(18,4);not null"`
	UnitPrice       decimal.Decimal    `gorm:"type:numeric(18,4);not null;default:0"`
	DiscountPercent decimal.Decimal    `gorm:"type:numeric(5,2);not null;default:0"`
	QuantityPicked  decimal.Decimal    `gorm:"type:numeric(18,4);not null;default:0"`
	QuantityShipped decimal.Decimal    `gorm:"type:numeric(18,4);not null;default:0"`
	TaxAmount       decimal.Decimal    `gorm:"type:numeric(18,2);not null;default:0"`
	LineTotal       decimal.Decimal    `gorm:"type:numeric(18,2);not null;default:0"`
	Notes           string             `gorm:"type:text;not null;default:''"`
	SortOrder       int                `gorm:"not null;default:0"`
	CreatedAt       time.Time          `gorm:"not null"`
	UpdatedAt       time.Time          `gorm:"not null"`
	Taxes           []LineItemTaxModel `gorm:"foreignKey:SalesOrderItemID;references:ID"`
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// ToDomain converts the model, including loaded lines and taxes, to a domain SalesOrder
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	o := &trade.SalesOrder{
		DisplayID:     m.DisplayID,
		CustomerID:    m.CustomerID,
		CustomerName:  m.CustomerName,
		Status:        trade.OrderStatus(m.Status),
		OrderDate:     m.OrderDate,
		RequestedDate: m.RequestedDate,
		PromisedDate:  m.PromisedDate,
		ShipTo:        m.ShipTo.toDomain(),
		Currency:      m.Currency,
		Notes:         m.Notes,
		Subtotal:      m.Subtotal,
		DiscountTotal: m.DiscountTotal,
		TaxTotal:      m.TaxTotal,
		ShippingCost:  m.ShippingCost,
		Total:         m.Total,
		SubmittedAt:   m.SubmittedAt,
		ConfirmedAt:   m.ConfirmedAt,
		ShippedAt:     m.ShippedAt,
		DeliveredAt:   m.DeliveredAt,
		CompletedAt:   m.CompletedAt,
		CancelledAt:   m.CancelledAt,
		CancelReason:  m.CancelReason,
		Items:         make([]trade.SalesOrderItem, len(m.Items)),
	}
	m.PopulateTenantAggregateRoot(&o.TenantAggregateRoot)
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	return o
}

// ToDomain converts the line model to a domain SalesOrderItem
func (m *SalesOrderItemModel) ToDomain() trade.SalesOrderItem {
	item := trade.SalesOrderItem{
		ID:              m.ID,
		OrderID:         m.SalesOrderID,
		ItemID:          m.ItemID,
		ItemName:        m.ItemName,
		SKU:             m.SKU,
		Unit:            m.Unit,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		DiscountPercent: m.DiscountPercent,
		QuantityPicked:  m.QuantityPicked,
		QuantityShipped: m.QuantityShipped,
		TaxAmount:       m.TaxAmount,
		LineTotal:       m.LineTotal,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		Taxes:           make([]tax.LineTax, len(m.Taxes)),
	}
	for i := range m.Taxes {
		item.Taxes[i] = m.Taxes[i].ToDomain()
	}
	return item
}

// SalesOrderModelFromDomain converts a domain SalesOrder to the model with lines and taxes
func SalesOrderModelFromDomain(o *trade.SalesOrder) *SalesOrderModel {
	m := &SalesOrderModel{
		DisplayID:     o.DisplayID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		Status:        string(o.Status),
		OrderDate:     o.OrderDate,
		RequestedDate: o.RequestedDate,
		PromisedDate:  o.PromisedDate,
		ShipTo:        addressColumns(o.ShipTo),
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
		Items:         make([]SalesOrderItemModel, len(o.Items)),
	}
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	for i, it := range o.Items {
		line := SalesOrderItemModel{
			ID:              it.ID,
			SalesOrderID:    o.ID,
			ItemID:          it.ItemID,
			ItemName:        it.ItemName,
			SKU:             it.SKU,
			Unit:            it.Unit,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			QuantityPicked:  it.QuantityPicked,
			QuantityShipped: it.QuantityShipped,
			TaxAmount:       it.TaxAmount,
			LineTotal:       it.LineTotal,
			Notes:           it.Notes,
			SortOrder:       i,
			CreatedAt:       it.CreatedAt,
			UpdatedAt:       it.UpdatedAt,
			Taxes:           make([]LineItemTaxModel, len(it.Taxes)),
		}
		for j, t := range it.Taxes {
			line.Taxes[j] = LineItemTaxModelFromDomain(it.ID, t)
		}
		m.Items[i] = line
	}
	return m
}

// PickListModel is the persistence model for trade.PickList
type PickListModel struct {
	TenantAggregateModel
	DisplayID    string     `gorm:"type:varchar(30);not null"`
	SalesOrderID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'"`
	AssignedTo   *uuid.UUID `gorm:"type:uuid"`
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	Lines        []PickListLineModel `gorm:"foreignKey:PickListID;references:ID"`
}

// TableName returns the table name for GORM
func (PickListModel) TableName() string {
	return "pick_lists"
}

// PickListLineModel is one pick instruction
type PickListLineModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PickListID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SalesOrderItemID uuid.UUID       `gorm:"type:uuid;not null"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName         string          `gorm:"type:varchar(200);not null"`
	SKU              string          `gorm:"column:sku;type:varchar(100);not null;default:''"`
	LotID            *uuid.UUID      `gorm:"type:uuid"`
	LotNumber        string          `gorm:"type:varchar(100);not null;default:''"`
	ExpiryDate       *time.Time      `gorm:"type:date"`
	LocationID       *uuid.UUID      `gorm:"type:uuid"`
	LocationName     string          `gorm:"type:varchar(200);not null;default:''"`
	QuantityToPick   decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	QuantityPicked   decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	IsShort          bool            `gorm:"not null;default:false"`
	SortOrder        int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PickListLineModel) TableName() string {
	return "pick_list_lines"
}

// ToDomain converts the model, including loaded lines, to a domain PickList
func (m *PickListModel) ToDomain() *trade.PickList {
	p := &trade.PickList{
		DisplayID:    m.DisplayID,
		SalesOrderID: m.SalesOrderID,
		Status:       trade.PickListStatus(m.Status),
		AssignedTo:   m.AssignedTo,
		StartedAt:    m.StartedAt,
		CompletedAt:  m.CompletedAt,
		CancelledAt:  m.CancelledAt,
		Lines:        make([]trade.PickListLine, len(m.Lines)),
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	for i, l := range m.Lines {
		p.Lines[i] = trade.PickListLine{
			ID:               l.ID,
			PickListID:       l.PickListID,
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
			SortOrder:        l.SortOrder,
		}
	}
	return p
}

// PickListModelFromDomain converts a domain PickList to the model with lines
func PickListModelFromDomain(p *trade.PickList) *PickListModel {
	m := &PickListModel{
		DisplayID:    p.DisplayID,
		SalesOrderID: p.SalesOrderID,
		Status:       string(p.Status),
		AssignedTo:   p.AssignedTo,
		StartedAt:    p.StartedAt,
		CompletedAt:  p.CompletedAt,
		CancelledAt:  p.CancelledAt,
		Lines:        make([]PickListLineModel, len(p.Lines)),
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	for i, l := range p.Lines {
		m.Lines[i] = PickListLineModel{
			ID:               l.ID,
			PickListID:       p.ID,
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
			SortOrder:        l.SortOrder,
		}
	}
	return m
}

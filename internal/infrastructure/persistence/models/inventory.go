package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// FolderModel is the persistence model for inventory.Folder
type FolderModel struct {
	TenantAggregateModel
	Name      string     `gorm:"type:varchar(200);not null"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	Path      string     `gorm:"type:text;not null"`
	Color     string     `gorm:"type:varchar(20);not null;default:''"`
	SortOrder int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (FolderModel) TableName() string {
	return "folders"
}

// ToDomain converts the model to a domain Folder
func (m *FolderModel) ToDomain() *inventory.Folder {
	f := &inventory.Folder{
		Name:      m.Name,
		ParentID:  m.ParentID,
		Path:      m.Path,
		Color:     m.Color,
		SortOrder: m.SortOrder,
	}
	m.PopulateTenantAggregateRoot(&f.TenantAggregateRoot)
	return f
}

// FolderModelFromDomain converts a domain Folder to the model
func FolderModelFromDomain(f *inventory.Folder) *FolderModel {
	m := &FolderModel{
		Name:      f.Name,
		ParentID:  f.ParentID,
		Path:      f.Path,
		Color:     f.Color,
		SortOrder: f.SortOrder,
	}
	m.FromDomainTenantAggregateRoot(f.TenantAggregateRoot)
	return m
}

// ItemModel is the persistence model for inventory.Item
type ItemModel struct {
	TenantAggregateModel
	DisplayID    string          `gorm:"type:varchar(30);not null"`
	Name         string          `gorm:"type:varchar(200);not null"`
	SKU          string          `gorm:"column:sku;type:varchar(100);not null;default:''"`
	Barcode      string          `gorm:"type:varchar(100);not null;default:''"`
	FolderID     *uuid.UUID      `gorm:"type:uuid;index"`
	Unit         string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	Quantity     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	MinQuantity  decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Price        decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	CostPrice    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	TrackingMode string          `gorm:"type:varchar(10);not null;default:'none'"`
	Notes        string          `gorm:"type:text;not null;default:''"`
	ImageKey     string          `gorm:"type:varchar(500);not null;default:''"`
	DeletedAt    *time.Time
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the model to a domain Item
func (m *ItemModel) ToDomain() *inventory.Item {
	i := &inventory.Item{
		DisplayID:    m.DisplayID,
		Name:         m.Name,
		SKU:          m.SKU,
		Barcode:      m.Barcode,
		FolderID:     m.FolderID,
		Unit:         m.Unit,
		Quantity:     m.Quantity,
		MinQuantity:  m.MinQuantity,
		Price:        m.Price,
		CostPrice:    m.CostPrice,
		TrackingMode: inventory.TrackingMode(m.TrackingMode),
		Notes:        m.Notes,
		ImageKey:     m.ImageKey,
		DeletedAt:    m.DeletedAt,
	}
	m.PopulateTenantAggregateRoot(&i.TenantAggregateRoot)
	return i
}

// ItemModelFromDomain converts a domain Item to the model
func ItemModelFromDomain(i *inventory.Item) *ItemModel {
	m := &ItemModel{
		DisplayID:    i.DisplayID,
		Name:         i.Name,
		SKU:          i.SKU,
		Barcode:      i.Barcode,
		FolderID:     i.FolderID,
		Unit:         i.Unit,
		Quantity:     i.Quantity,
		MinQuantity:  i.MinQuantity,
		Price:        i.Price,
		CostPrice:    i.CostPrice,
		TrackingMode: string(i.TrackingMode),
		Notes:        i.Notes,
		ImageKey:     i.ImageKey,
		DeletedAt:    i.DeletedAt,
	}
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	return m
}

// LocationModel is the persistence model for inventory.Location
type LocationModel struct {
	TenantEntityModel
	Name     string     `gorm:"type:varchar(200);not null"`
	Code     string     `gorm:"type:varchar(50);not null;default:''"`
	Type     string     `gorm:"type:varchar(20);not null;default:'warehouse'"`
	ParentID *uuid.UUID `gorm:"type:uuid"`
	IsActive bool       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "locations"
}

// ToDomain converts the model to a domain Location
func (m *LocationModel) ToDomain() *inventory.Location {
	return &inventory.Location{
		TenantEntity: m.ToDomainTenantEntity(),
		Name:         m.Name,
		Code:         m.Code,
		Type:         inventory.LocationType(m.Type),
		ParentID:     m.ParentID,
		IsActive:     m.IsActive,
	}
}

// LocationModelFromDomain converts a domain Location to the model
func LocationModelFromDomain(l *inventory.Location) *LocationModel {
	m := &LocationModel{
		Name:     l.Name,
		Code:     l.Code,
		Type:     string(l.Type),
		ParentID: l.ParentID,
		IsActive: l.IsActive,
	}
	m.FromDomainTenantEntity(l.TenantEntity)
	return m
}

// LocationStockModel holds the quantity of one item at one location
type LocationStockModel struct {
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LocationID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Quantity   decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LocationStockModel) TableName() string {
	return "location_stock"
}

// ToDomain converts the model to a domain LocationStock
func (m *LocationStockModel) ToDomain() *inventory.LocationStock {
	return &inventory.LocationStock{
		TenantID:   m.TenantID,
		ItemID:     m.ItemID,
		LocationID: m.LocationID,
		Quantity:   m.Quantity,
		UpdatedAt:  m.UpdatedAt,
	}
}

// LotModel is the persistence model for inventory.Lot
type LotModel struct {
	TenantEntityModel
	ItemID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocationID       *uuid.UUID      `gorm:"type:uuid"`
	LotNumber        string          `gorm:"type:varchar(100);not null"`
	ExpiryDate       *time.Time      `gorm:"type:date"`
	ManufacturedDate *time.Time      `gorm:"type:date"`
	ReceivedAt       time.Time       `gorm:"not null"`
	Quantity         decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Status           string          `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (LotModel) TableName() string {
	return "lots"
}

// ToDomain converts the model to a domain Lot
func (m *LotModel) ToDomain() *inventory.Lot {
	return &inventory.Lot{
		TenantEntity:     m.ToDomainTenantEntity(),
		ItemID:           m.ItemID,
		LocationID:       m.LocationID,
		LotNumber:        m.LotNumber,
		ExpiryDate:       m.ExpiryDate,
		ManufacturedDate: m.ManufacturedDate,
		ReceivedAt:       m.ReceivedAt,
		Quantity:         m.Quantity,
		Status:           inventory.LotStatus(m.Status),
	}
}

// LotModelFromDomain converts a domain Lot to the model
func LotModelFromDomain(l *inventory.Lot) *LotModel {
	m := &LotModel{
		ItemID:           l.ItemID,
		LocationID:       l.LocationID,
		LotNumber:        l.LotNumber,
		ExpiryDate:       l.ExpiryDate,
		ManufacturedDate: l.ManufacturedDate,
		ReceivedAt:       l.ReceivedAt,
		Quantity:         l.Quantity,
		Status:           string(l.Status),
	}
	m.FromDomainTenantEntity(l.TenantEntity)
	return m
}

// SerialModel is the persistence model for inventory.Serial
type SerialModel struct {
	TenantEntityModel
	ItemID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	LotID        *uuid.UUID `gorm:"type:uuid"`
	LocationID   *uuid.UUID `gorm:"type:uuid"`
	SerialNumber string     `gorm:"type:varchar(100);not null"`
	Status       string     `gorm:"type:varchar(20);not null;default:'available'"`
}

// TableName returns the table name for GORM
func (SerialModel) TableName() string {
	return "serials"
}

// ToDomain converts the model to a domain Serial
func (m *SerialModel) ToDomain() *inventory.Serial {
	return &inventory.Serial{
		TenantEntity: m.ToDomainTenantEntity(),
		ItemID:       m.ItemID,
		LotID:        m.LotID,
		LocationID:   m.LocationID,
		SerialNumber: m.SerialNumber,
		Status:       inventory.SerialStatus(m.Status),
	}
}

// SerialModelFromDomain converts a domain Serial to the model
func SerialModelFromDomain(s *inventory.Serial) *SerialModel {
	m := &SerialModel{
		ItemID:       s.ItemID,
		LotID:        s.LotID,
		LocationID:   s.LocationID,
		SerialNumber: s.SerialNumber,
		Status:       string(s.Status),
	}
	m.FromDomainTenantEntity(s.TenantEntity)
	return m
}

// StockCountModel is the persistence model for inventory.StockCount
type StockCountModel struct {
	TenantAggregateModel
	DisplayID          string     `gorm:"type:varchar(30);not null"`
	Name               string     `gorm:"type:varchar(200);not null"`
	Status             string     `gorm:"type:varchar(20);not null;default:'draft'"`
	Scope              string     `gorm:"type:varchar(20);not null;default:'all'"`
	ScopeFolderID      *uuid.UUID `gorm:"type:uuid"`
	ScopeLocationID    *uuid.UUID `gorm:"type:uuid"`
	AssignedTo         *uuid.UUID `gorm:"type:uuid"`
	Notes              string     `gorm:"type:text;not null;default:''"`
	StartedAt          *time.Time
	SubmittedAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	AdjustmentsApplied bool                  `gorm:"not null;default:false"`
	Lines              []StockCountLineModel `gorm:"foreignKey:StockCountID;references:ID"`
}

// TableName returns the table name for GORM
func (StockCountModel) TableName() string {
	return "stock_counts"
}

// StockCountLineModel is one counted item
type StockCountLineModel struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey"`
	StockCountID uuid.UUID        `gorm:"type:uuid;not null;index"`
	ItemID       uuid.UUID        `gorm:"type:uuid;not null"`
	ItemName     string           `gorm:"type:varchar(200);not null"`
	SKU          string           `gorm:"column:sku;type:varchar(100);not null;default:''"`
	ExpectedQty  decimal.Decimal  `gorm:"type:numeric(18,4);not null;default:0"`
	CountedQty   *decimal.Decimal `gorm:"type:numeric(18,4)"`
	Variance     decimal.Decimal  `gorm:"type:numeric(18,4);not null;default:0"`
	CountedBy    *uuid.UUID       `gorm:"type:uuid"`
	CountedAt    *time.Time
	Notes        string `gorm:"type:text;not null;default:''"`
	SortOrder    int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockCountLineModel) TableName() string {
	return "stock_count_lines"
}

// ToDomain converts the model, including loaded lines, to a domain StockCount
func (m *StockCountModel) ToDomain() *inventory.StockCount {
	sc := &inventory.StockCount{
		DisplayID:          m.DisplayID,
		Name:               m.Name,
		Status:             inventory.StockCountStatus(m.Status),
		Scope:              inventory.CountScope(m.Scope),
		ScopeFolderID:      m.ScopeFolderID,
		ScopeLocationID:    m.ScopeLocationID,
		AssignedTo:         m.AssignedTo,
		Notes:              m.Notes,
		StartedAt:          m.StartedAt,
		SubmittedAt:        m.SubmittedAt,
		CompletedAt:        m.CompletedAt,
		CancelledAt:        m.CancelledAt,
		AdjustmentsApplied: m.AdjustmentsApplied,
		Lines:              make([]inventory.StockCountLine, len(m.Lines)),
	}
	m.PopulateTenantAggregateRoot(&sc.TenantAggregateRoot)
	for i, l := range m.Lines {
		sc.Lines[i] = inventory.StockCountLine{
			ID:           l.ID,
			StockCountID: l.StockCountID,
			ItemID:       l.ItemID,
			ItemName:     l.ItemName,
			SKU:          l.SKU,
			ExpectedQty:  l.ExpectedQty,
			CountedQty:   l.CountedQty,
			Variance:     l.Variance,
			CountedBy:    l.CountedBy,
			CountedAt:    l.CountedAt,
			Notes:        l.Notes,
		}
	}
	return sc
}

// StockCountModelFromDomain converts a domain StockCount to the model with lines
func StockCountModelFromDomain(sc *inventory.StockCount) *StockCountModel {
	m := &StockCountModel{
		DisplayID:          sc.DisplayID,
		Name:               sc.Name,
		Status:             string(sc.Status),
		Scope:              string(sc.Scope),
		ScopeFolderID:      sc.ScopeFolderID,
		ScopeLocationID:    sc.ScopeLocationID,
		AssignedTo:         sc.AssignedTo,
		Notes:              sc.Notes,
		StartedAt:          sc.StartedAt,
		SubmittedAt:        sc.SubmittedAt,
		CompletedAt:        sc.CompletedAt,
		CancelledAt:        sc.CancelledAt,
		AdjustmentsApplied: sc.AdjustmentsApplied,
		Lines:              make([]StockCountLineModel, len(sc.Lines)),
	}
	m.FromDomainTenantAggregateRoot(sc.TenantAggregateRoot)
	for i, l := range sc.Lines {
		m.Lines[i] = StockCountLineModel{
			ID:           l.ID,
			StockCountID: sc.ID,
			ItemID:       l.ItemID,
			ItemName:     l.ItemName,
			SKU:          l.SKU,
			ExpectedQty:  l.ExpectedQty,
			CountedQty:   l.CountedQty,
			Variance:     l.Variance,
			CountedBy:    l.CountedBy,
			CountedAt:    l.CountedAt,
			Notes:        l.Notes,
			SortOrder:    i,
		}
	}
	return m
}

package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// ============================================================================
// Items
// ============================================================================

// CreateItemRequest is the request body for creating an item
type CreateItemRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	SKU          string          `json:"sku" binding:"omitempty,max=100"`
	Barcode      string          `json:"barcode" binding:"omitempty,max=100"`
	Unit         string          `json:"unit" binding:"omitempty,max=20"`
	FolderID     *uuid.UUID      `json:"folder_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	TrackingMode string          `json:"tracking_mode" binding:"omitempty,oneof=none lot serial"`
	Notes        string          `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateItemRequest changes the fields that are set
type UpdateItemRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	SKU          *string          `json:"sku" binding:"omitempty,max=100"`
	Barcode      *string          `json:"barcode" binding:"omitempty,max=100"`
	Unit         *string          `json:"unit" binding:"omitempty,max=20"`
	FolderID     *uuid.UUID       `json:"folder_id"`
	MoveToRoot   bool             `json:"move_to_root"`
	MinQuantity  *decimal.Decimal `json:"min_quantity"`
	Price        *decimal.Decimal `json:"price"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	TrackingMode *string          `json:"tracking_mode" binding:"omitempty,oneof=none lot serial"`
	Notes        *string          `json:"notes" binding:"omitempty,max=2000"`
}

// ItemListRequest binds the item list query. FolderID is a folder id or "root".
type ItemListRequest struct {
	appshared.ListParams
	FolderID     string `form:"folder_id" binding:"omitempty,max=36"`
	Recursive    bool   `form:"recursive"`
	StockStatus  string `form:"stock_status" binding:"omitempty,oneof=in_stock low_stock out_of_stock"`
	TrackingMode string `form:"tracking_mode" binding:"omitempty,oneof=none lot serial"`
}

// AdjustQuantityRequest applies a signed stock change
type AdjustQuantityRequest struct {
	Delta      decimal.Decimal `json:"delta" binding:"required"`
	Reason     string          `json:"reason" binding:"required,min=1,max=255"`
	LocationID *uuid.UUID      `json:"location_id"`
}

// ItemResponse is an item in API responses
type ItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	DisplayID    string          `json:"display_id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode"`
	FolderID     *uuid.UUID      `json:"folder_id,omitempty"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	TotalValue   decimal.Decimal `json:"total_value"`
	StockStatus  string          `json:"stock_status"`
	TrackingMode string          `json:"tracking_mode"`
	Notes        string          `json:"notes"`
	HasImage     bool            `json:"has_image"`
	Version      int             `json:"version"`
	CreatedBy    *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToItemResponse converts a domain item
func ToItemResponse(i *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:           i.ID,
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
		TotalValue:   i.TotalValue(),
		StockStatus:  string(i.StockStatus()),
		TrackingMode: string(i.TrackingMode),
		Notes:        i.Notes,
		HasImage:     i.ImageKey != "",
		Version:      i.Version,
		CreatedBy:    i.CreatedBy,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

// AddLotRequest receives a new lot of a lot-tracked item
type AddLotRequest struct {
	LotNumber        string          `json:"lot_number" binding:"required,min=1,max=100"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
	ExpiryDate       *time.Time      `json:"expiry_date"`
	ManufacturedDate *time.Time      `json:"manufactured_date"`
	LocationID       *uuid.UUID      `json:"location_id"`
}

// LotResponse is a lot in API responses
type LotResponse struct {
	ID               uuid.UUID       `json:"id"`
	ItemID           uuid.UUID       `json:"item_id"`
	LotNumber        string          `json:"lot_number"`
	LocationID       *uuid.UUID      `json:"location_id,omitempty"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	ManufacturedDate *time.Time      `json:"manufactured_date,omitempty"`
	ReceivedAt       time.Time       `json:"received_at"`
	Quantity         decimal.Decimal `json:"quantity"`
	Status           string          `json:"status"`
	IsExpired        bool            `json:"is_expired"`
}

// ToLotResponse converts a domain lot
func ToLotResponse(l *inventory.Lot, at time.Time) LotResponse {
	return LotResponse{
		ID:               l.ID,
		ItemID:           l.ItemID,
		LotNumber:        l.LotNumber,
		LocationID:       l.LocationID,
		ExpiryDate:       l.ExpiryDate,
		ManufacturedDate: l.ManufacturedDate,
		ReceivedAt:       l.ReceivedAt,
		Quantity:         l.Quantity,
		Status:           string(l.Status),
		IsExpired:        l.IsExpiredAt(at),
	}
}

// AddSerialRequest receives one unit of a serial-tracked item
type AddSerialRequest struct {
	SerialNumber string     `json:"serial_number" binding:"required,min=1,max=100"`
	LotID        *uuid.UUID `json:"lot_id"`
	LocationID   *uuid.UUID `json:"location_id"`
}

// SerialResponse is a serial in API responses
type SerialResponse struct {
	ID           uuid.UUID  `json:"id"`
	ItemID       uuid.UUID  `json:"item_id"`
	SerialNumber string     `json:"serial_number"`
	LotID        *uuid.UUID `json:"lot_id,omitempty"`
	LocationID   *uuid.UUID `json:"location_id,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToSerialResponse converts a domain serial
func ToSerialResponse(s *inventory.Serial) SerialResponse {
	return SerialResponse{
		ID:           s.ID,
		ItemID:       s.ItemID,
		SerialNumber: s.SerialNumber,
		LotID:        s.LotID,
		LocationID:   s.LocationID,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
	}
}

// FEFORequest binds the FEFO suggestion query
type FEFORequest struct {
	Quantity   decimal.Decimal `form:"quantity" binding:"required"`
	LocationID *uuid.UUID      `form:"location_id"`
}

// FEFOSuggestion is the ordered lot plan for a requested quantity
type FEFOSuggestion struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Requested decimal.Decimal `json:"requested"`
	Strategy  string          `json:"strategy"`
	inventory.AllocationResult
}

// ImageUploadRequest asks for a presigned upload URL
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// ImageUploadResponse carries the presigned PUT URL
type ImageUploadResponse struct {
	UploadURL string    `json:"upload_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
	MaxSize   int64     `json:"max_size"`
}

// ImageURLResponse carries the presigned GET URL
type ImageURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ============================================================================
// Folders
// ============================================================================

// CreateFolderRequest is the request body for creating a folder
type CreateFolderRequest struct {
	Name      string     `json:"name" binding:"required,min=1,max=100"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Color     string     `json:"color" binding:"omitempty,max=20"`
	SortOrder int        `json:"sort_order"`
}

// UpdateFolderRequest changes the fields that are set
type UpdateFolderRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color     *string `json:"color" binding:"omitempty,max=20"`
	SortOrder *int    `json:"sort_order"`
}

// MoveFolderRequest re-parents a folder; a nil parent moves it to the root
type MoveFolderRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// FolderListRequest binds the folder list query. ParentID is a folder id or "root".
type FolderListRequest struct {
	ParentID string `form:"parent_id" binding:"omitempty,max=36"`
	Search   string `form:"search" binding:"omitempty,max=100"`
}

// FolderResponse is a folder in API responses
type FolderResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Path      string     `json:"path"`
	Depth     int        `json:"depth"`
	Color     string     `json:"color"`
	SortOrder int        `json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToFolderResponse converts a domain folder
func ToFolderResponse(f *inventory.Folder) FolderResponse {
	return FolderResponse{
		ID:        f.ID,
		Name:      f.Name,
		ParentID:  f.ParentID,
		Path:      f.Path,
		Depth:     f.Depth(),
		Color:     f.Color,
		SortOrder: f.SortOrder,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ============================================================================
// Locations
// ============================================================================

// CreateLocationRequest is the request body for creating a location
type CreateLocationRequest struct {
	Name     string     `json:"name" binding:"required,min=1,max=100"`
	Code     string     `json:"code" binding:"omitempty,max=50"`
	Type     string     `json:"type" binding:"omitempty,oneof=warehouse zone shelf bin"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// UpdateLocationRequest changes the fields that are set
type UpdateLocationRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Code     *string `json:"code" binding:"omitempty,max=50"`
	Type     *string `json:"type" binding:"omitempty,oneof=warehouse zone shelf bin"`
	IsActive *bool   `json:"is_active"`
}

// LocationListRequest binds the location list query
type LocationListRequest struct {
	Type     string `form:"type" binding:"omitempty,oneof=warehouse zone shelf bin"`
	IsActive *bool  `form:"is_active"`
	Search   string `form:"search" binding:"omitempty,max=100"`
}

// SetStockRequest sets the absolute quantity of an item at a location
type SetStockRequest struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// LocationResponse is a location in API responses
type LocationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	Type      string     `json:"type"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToLocationResponse converts a domain location
func ToLocationResponse(l *inventory.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Code:      l.Code,
		Type:      string(l.Type),
		ParentID:  l.ParentID,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// LocationStockResponse is the result of setting location stock
type LocationStockResponse struct {
	LocationID   uuid.UUID       `json:"location_id"`
	ItemID       uuid.UUID       `json:"item_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	ItemQuantity decimal.Decimal `json:"item_quantity"`
}

// ============================================================================
// Stock counts
// ============================================================================

// CreateStockCountRequest is the request body for creating a stock count
type CreateStockCountRequest struct {
	Name       string     `json:"name" binding:"omitempty,max=200"`
	Scope      string     `json:"scope" binding:"omitempty,oneof=all folder location"`
	ScopeID    *uuid.UUID `json:"scope_id"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
	Notes      string     `json:"notes" binding:"omitempty,max=2000"`
}

// StockCountListRequest binds the stock count list query
type StockCountListRequest struct {
	appshared.ListParams
	Status string `form:"status" binding:"omitempty,oneof=draft in_progress review completed cancelled"`
}

// StockCountStatusRequest moves a count through the wizard
type StockCountStatusRequest struct {
	Status           string `json:"status" binding:"required"`
	ApplyAdjustments bool   `json:"apply_adjustments"`
}

// RecordCountRequest stores the counted quantity of a line
type RecordCountRequest struct {
	CountedQuantity decimal.Decimal `json:"counted_quantity" binding:"required"`
	Notes           string          `json:"notes" binding:"omitempty,max=500"`
}

// StockCountLineResponse is a count line in API responses
type StockCountLineResponse struct {
	ID          uuid.UUID        `json:"id"`
	ItemID      uuid.UUID        `json:"item_id"`
	ItemName    string           `json:"item_name"`
	SKU         string           `json:"sku"`
	ExpectedQty decimal.Decimal  `json:"expected_quantity"`
	CountedQty  *decimal.Decimal `json:"counted_quantity,omitempty"`
	Variance    decimal.Decimal  `json:"variance"`
	CountedBy   *uuid.UUID       `json:"counted_by,omitempty"`
	CountedAt   *time.Time       `json:"counted_at,omitempty"`
	Notes       string           `json:"notes"`
}

// StockCountResponse is a count with its lines. Lines are omitted in lists.
type StockCountResponse struct {
	ID                 uuid.UUID                `json:"id"`
	DisplayID          string                   `json:"display_id"`
	Name               string                   `json:"name"`
	Status             string                   `json:"status"`
	Scope              string                   `json:"scope"`
	ScopeFolderID      *uuid.UUID               `json:"scope_folder_id,omitempty"`
	ScopeLocationID    *uuid.UUID               `json:"scope_location_id,omitempty"`
	AssignedTo         *uuid.UUID               `json:"assigned_to,omitempty"`
	Notes              string                   `json:"notes"`
	StartedAt          *time.Time               `json:"started_at,omitempty"`
	SubmittedAt        *time.Time               `json:"submitted_at,omitempty"`
	CompletedAt        *time.Time               `json:"completed_at,omitempty"`
	CancelledAt        *time.Time               `json:"cancelled_at,omitempty"`
	AdjustmentsApplied bool                     `json:"adjustments_applied"`
	Lines              []StockCountLineResponse `json:"lines,omitempty"`
	Version            int                      `json:"version"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// ToStockCountResponse converts a domain stock count
func ToStockCountResponse(sc *inventory.StockCount, withLines bool) StockCountResponse {
	resp := StockCountResponse{
		ID:                 sc.ID,
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
		Version:            sc.Version,
		CreatedAt:          sc.CreatedAt,
		UpdatedAt:          sc.UpdatedAt,
	}
	if withLines {
		resp.Lines = make([]StockCountLineResponse, len(sc.Lines))
		for i, l := range sc.Lines {
			resp.Lines[i] = StockCountLineResponse{
				ID:          l.ID,
				ItemID:      l.ItemID,
				ItemName:    l.ItemName,
				SKU:         l.SKU,
				ExpectedQty: l.ExpectedQty,
				CountedQty:  l.CountedQty,
				Variance:    l.Variance,
				CountedBy:   l.CountedBy,
				CountedAt:   l.CountedAt,
				Notes:       l.Notes,
			}
		}
	}
	return resp
}

package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// LocationType classifies a storage location
type LocationType string

const (
	LocationWarehouse LocationType = "warehouse"
	LocationZone      LocationType = "zone"
	LocationShelf     LocationType = "shelf"
	LocationBin       LocationType = "bin"
)

// IsValid reports whether t is a known location type
func (t LocationType) IsValid() bool {
	switch t {
	case LocationWarehouse, LocationZone, LocationShelf, LocationBin:
		return true
	}
	return false
}

// Location is a physical place where stock is kept
type Location struct {
	shared.TenantEntity
	Name     string
	Code     string
	Type     LocationType
	ParentID *uuid.UUID
	IsActive bool
}

// NewLocation creates an active location
func NewLocation(tenantID uuid.UUID, name, code string, locType LocationType) (*Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Location name is required")
	}
	if locType == "" {
		locType = LocationWarehouse
	}
	if !locType.IsValid() {
		return nil, shared.NewValidationError("Invalid location type")
	}
	return &Location{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Code:         strings.ToUpper(strings.TrimSpace(code)),
		Type:         locType,
		IsActive:     true,
	}, nil
}

// Update changes the descriptive fields
func (l *Location) Update(name, code string, locType LocationType, isActive bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Location name is required")
	}
	if !locType.IsValid() {
		return shared.NewValidationError("Invalid location type")
	}
	l.Name = name
	l.Code = strings.ToUpper(strings.TrimSpace(code))
	l.Type = locType
	l.IsActive = isActive
	l.Touch()
	return nil
}

// LocationStock is the quantity of an item held at a location
type LocationStock struct {
	TenantID   uuid.UUID
	ItemID     uuid.UUID
	LocationID uuid.UUID
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}

// Deduct removes qty from the location
func (s *LocationStock) Deduct(qty decimal.Decimal) error {
	if qty.GreaterThan(s.Quantity) {
		return shared.ErrInsufficientStock
	}
	s.Quantity = s.Quantity.Sub(qty)
	s.UpdatedAt = time.Now()
	return nil
}

// ItemLocation is one row of an item's per-location breakdown
type ItemLocation struct {
	LocationID   uuid.UUID       `json:"location_id"`
	LocationName string          `json:"location_name"`
	LocationCode string          `json:"location_code"`
	LocationType LocationType    `json:"location_type"`
	Quantity     decimal.Decimal `json:"quantity"`
}

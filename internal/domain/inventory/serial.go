package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// SerialStatus is the state of an individually tracked unit
type SerialStatus string

const (
	SerialAvailable SerialStatus = "available"
	SerialAllocated SerialStatus = "allocated"
	SerialSold      SerialStatus = "sold"
	SerialDamaged   SerialStatus = "damaged"
	SerialReturned  SerialStatus = "returned"
)

// IsValid reports whether s is a known serial status
func (s SerialStatus) IsValid() bool {
	switch s {
	case SerialAvailable, SerialAllocated, SerialSold, SerialDamaged, SerialReturned:
		return true
	}
	return false
}

// Serial is a single unit of a serial-tracked item
type Serial struct {
	shared.TenantEntity
	ItemID       uuid.UUID
	LotID        *uuid.UUID
	LocationID   *uuid.UUID
	SerialNumber string
	Status       SerialStatus
}

// NewSerial creates an available serial
func NewSerial(tenantID, itemID uuid.UUID, serialNumber string, lotID, locationID *uuid.UUID) (*Serial, error) {
	serialNumber = strings.TrimSpace(serialNumber)
	if serialNumber == "" {
		return nil, shared.NewValidationError("Serial number is required")
	}
	return &Serial{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ItemID:       itemID,
		LotID:        lotID,
		LocationID:   locationID,
		SerialNumber: serialNumber,
		Status:       SerialAvailable,
	}, nil
}

// SetStatus changes the serial status
func (s *Serial) SetStatus(status SerialStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("Invalid serial status")
	}
	s.Status = status
	s.Touch()
	return nil
}

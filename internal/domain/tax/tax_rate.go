package tax

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Type classifies a tax rate
type Type string

const (
	TypeSales Type = "sales"
	TypeVAT   Type = "vat"
	TypeGST   Type = "gst"
	TypeOther Type = "other"
)

// IsValid reports whether t is a known tax type
func (t Type) IsValid() bool {
	switch t {
	case TypeSales, TypeVAT, TypeGST, TypeOther:
		return true
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// Rate is a tenant defined tax rate expressed in percent
type Rate struct {
	shared.TenantAggregateRoot
	Name       string
	Code       string
	Percent    decimal.Decimal
	Type       Type
	IsCompound bool
	IsDefault  bool
	IsActive   bool
}

// NewRate creates an active tax rate
func NewRate(tenantID uuid.UUID, name, code string, percent decimal.Decimal, taxType Type) (*Rate, error) {
	r := &Rate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
	}
	if err := r.Update(name, code, percent, taxType, false, false, true); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces all editable fields
func (r *Rate) Update(name, code string, percent decimal.Decimal, taxType Type, compound, isDefault, active bool) error {
	name = strings.TrimSpace(name)
	code = strings.ToUpper(strings.TrimSpace(code))
	if name == "" {
		return shared.NewValidationError("Tax name is required")
	}
	if code == "" {
		return shared.NewValidationError("Tax code is required")
	}
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return shared.NewValidationError("Tax rate must be between 0 and 100")
	}
	if taxType == "" {
		taxType = TypeSales
	}
	if !taxType.IsValid() {
		return shared.NewValidationError("Invalid tax type")
	}
	r.Name = name
	r.Code = code
	r.Percent = percent
	r.Type = taxType
	r.IsCompound = compound
	r.IsDefault = isDefault
	r.IsActive = active
	r.Touch()
	return nil
}

package tax

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/tax"
)

// CreateRateRequest creates a tax rate
type CreateRateRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=100"`
	Code       string          `json:"code" binding:"required,min=1,max=30"`
	Percent    decimal.Decimal `json:"percent" binding:"required"`
	Type       string          `json:"type" binding:"omitempty,oneof=sales vat gst other"`
	IsCompound bool            `json:"is_compound"`
	IsDefault  bool            `json:"is_default"`
}

// UpdateRateRequest changes the fields that are present
type UpdateRateRequest struct {
	Name       *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Code       *string          `json:"code" binding:"omitempty,min=1,max=30"`
	Percent    *decimal.Decimal `json:"percent"`
	Type       *string          `json:"type" binding:"omitempty,oneof=sales vat gst other"`
	IsCompound *bool            `json:"is_compound"`
	IsDefault  *bool            `json:"is_default"`
	IsActive   *bool            `json:"is_active"`
}

// RateResponse is a tax rate in API responses
type RateResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Code       string          `json:"code"`
	Percent    decimal.Decimal `json:"percent"`
	Type       string          `json:"type"`
	IsCompound bool            `json:"is_compound"`
	IsDefault  bool            `json:"is_default"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToRateResponse converts a domain rate
func ToRateResponse(r *tax.Rate) RateResponse {
	return RateResponse{
		ID:         r.ID,
		Name:       r.Name,
		Code:       r.Code,
		Percent:    r.Percent,
		Type:       string(r.Type),
		IsCompound: r.IsCompound,
		IsDefault:  r.IsDefault,
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

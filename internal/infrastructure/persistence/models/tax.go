package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/tax"
)

// TaxRateModel is the persistence model for tax.Rate
type TaxRateModel struct {
	TenantAggregateModel
	Name       string          `gorm:"type:varchar(100);not null"`
	Code       string          `gorm:"type:varchar(30);not null"`
	Rate       decimal.Decimal `gorm:"type:numeric(7,4);not null"`
	TaxType    string          `gorm:"type:varchar(20);not null;default:'sales'"`
	IsCompound bool            `gorm:"not null;default:false"`
	IsDefault  bool            `gorm:"not null;default:false"`
	IsActive   bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaxRateModel) TableName() string {
	return "tax_rates"
}

// ToDomain converts the model to a domain Rate
func (m *TaxRateModel) ToDomain() *tax.Rate {
	r := &tax.Rate{
		Name:       m.Name,
		Code:       m.Code,
		Percent:    m.Rate,
		Type:       tax.Type(m.TaxType),
		IsCompound: m.IsCompound,
		IsDefault:  m.IsDefault,
		IsActive:   m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// TaxRateModelFromDomain converts a domain Rate to the model
func TaxRateModelFromDomain(r *tax.Rate) *TaxRateModel {
	m := &TaxRateModel{
		Name:       r.Name,
		Code:       r.Code,
		Rate:       r.Percent,
		TaxType:    string(r.Type),
		IsCompound: r.IsCompound,
		IsDefault:  r.IsDefault,
		IsActive:   r.IsActive,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}

// LineItemTaxModel is a tax applied to one sales order line
type LineItemTaxModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SalesOrderItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	TaxRateID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	TaxName          string          `gorm:"type:varchar(100);not null"`
	TaxCode          string          `gorm:"type:varchar(30);not null"`
	Rate             decimal.Decimal `gorm:"type:numeric(7,4);not null"`
	IsCompound       bool            `gorm:"not null;default:false"`
	TaxableAmount    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	TaxAmount        decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItemTaxModel) TableName() string {
	return "line_item_taxes"
}

// ToDomain converts the model to a domain LineTax
func (m *LineItemTaxModel) ToDomain() tax.LineTax {
	return tax.LineTax{
		ID:            m.ID,
		TaxRateID:     m.TaxRateID,
		TaxName:       m.TaxName,
		TaxCode:       m.TaxCode,
		Percent:       m.Rate,
		IsCompound:    m.IsCompound,
		TaxableAmount: m.TaxableAmount,
		TaxAmount:     m.TaxAmount,
		CreatedAt:     m.CreatedAt,
	}
}

// LineItemTaxModelFromDomain converts a domain LineTax for the given order line
func LineItemTaxModelFromDomain(lineID uuid.UUID, t tax.LineTax) LineItemTaxModel {
	id := t.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return LineItemTaxModel{
		ID:               id,
		SalesOrderItemID: lineID,
		TaxRateID:        t.TaxRateID,
		TaxName:          t.TaxName,
		TaxCode:          t.TaxCode,
		Rate:             t.Percent,
		IsCompound:       t.IsCompound,
		TaxableAmount:    t.TaxableAmount,
		TaxAmount:        t.TaxAmount,
		CreatedAt:        created,
	}
}

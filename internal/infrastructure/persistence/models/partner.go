package models

import (
	"github.com/stockroom/backend/internal/domain/partner"
)

// AddressColumns is an embedded address; the prefix comes from the embedding tag
type AddressColumns struct {
	Line1      string `gorm:"type:varchar(255);not null;default:''"`
	Line2      string `gorm:"type:varchar(255);not null;default:''"`
	City       string `gorm:"type:varchar(100);not null;default:''"`
	State      string `gorm:"type:varchar(100);not null;default:''"`
	PostalCode string `gorm:"type:varchar(20);not null;default:''"`
	Country    string `gorm:"type:varchar(100);not null;default:''"`
}

func addressColumns(a partner.Address) AddressColumns {
	return AddressColumns{
		Line1: a.Line1, Line2: a.Line2, City: a.City,
		State: a.State, PostalCode: a.PostalCode, Country: a.Country,
	}
}

func (a AddressColumns) toDomain() partner.Address {
	return partner.Address{
		Line1: a.Line1, Line2: a.Line2, City: a.City,
		State: a.State, PostalCode: a.PostalCode, Country: a.Country,
	}
}

// CustomerModel is the persistence model for partner.Customer
type CustomerModel struct {
	TenantAggregateModel
	Code                  string         `gorm:"type:varchar(50);not null"`
	Name                  string         `gorm:"type:varchar(200);not null"`
	ContactName           string         `gorm:"type:varchar(200);not null;default:''"`
	Email                 string         `gorm:"type:varchar(255);not null;default:''"`
	Phone                 string         `gorm:"type:varchar(50);not null;default:''"`
	Billing               AddressColumns `gorm:"embedded;embeddedPrefix:billing_"`
	Shipping              AddressColumns `gorm:"embedded;embeddedPrefix:shipping_"`
	ShippingSameAsBilling bool           `gorm:"not null;default:false"`
	PaymentTermDays       int            `gorm:"not null;default:0"`
	TaxExempt             bool           `gorm:"not null;default:false"`
	Notes                 string         `gorm:"type:text;not null;default:''"`
	IsActive              bool           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	c := &partner.Customer{
		Code:                  m.Code,
		Name:                  m.Name,
		ContactName:           m.ContactName,
		Email:                 m.Email,
		Phone:                 m.Phone,
		BillingAddress:        m.Billing.toDomain(),
		ShippingAddress:       m.Shipping.toDomain(),
		ShippingSameAsBilling: m.ShippingSameAsBilling,
		PaymentTermDays:       m.PaymentTermDays,
		TaxExempt:             m.TaxExempt,
		Notes:                 m.Notes,
		IsActive:              m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// CustomerModelFromDomain converts a domain Customer to the model
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Code:                  c.Code,
		Name:                  c.Name,
		ContactName:           c.ContactName,
		Email:                 c.Email,
		Phone:                 c.Phone,
		Billing:               addressColumns(c.BillingAddress),
		Shipping:              addressColumns(c.ShippingAddress),
		ShippingSameAsBilling: c.ShippingSameAsBilling,
		PaymentTermDays:       c.PaymentTermDays,
		TaxExempt:             c.TaxExempt,
		Notes:                 c.Notes,
		IsActive:              c.IsActive,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/partner"
)

// AddressDTO is a postal address in requests and responses
type AddressDTO struct {
	Line1      string `json:"line1" binding:"max=255"`
	Line2      string `json:"line2" binding:"max=255"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
}

func (a AddressDTO) toDomain() partner.Address {
	return partner.Address(a)
}

func toAddressDTO(a partner.Address) AddressDTO {
	return AddressDTO(a)
}

// CreateCustomerRequest creates a customer. An empty code is replaced by the next display ID.
type CreateCustomerRequest struct {
	Code                  string     `json:"code" binding:"omitempty,max=50"`
	Name                  string     `json:"name" binding:"required,min=1,max=200"`
	ContactName           string     `json:"contact_name" binding:"omitempty,max=100"`
	Email                 string     `json:"email" binding:"omitempty,email,max=200"`
	Phone                 string     `json:"phone" binding:"omitempty,max=50"`
	BillingAddress        AddressDTO `json:"billing_address"`
	ShippingAddress       AddressDTO `json:"shipping_address"`
	ShippingSameAsBilling bool       `json:"shipping_same_as_billing"`
	PaymentTermDays       int        `json:"payment_term_days" binding:"min=0,max=365"`
	TaxExempt             bool       `json:"tax_exempt"`
	Notes                 string     `json:"notes" binding:"max=2000"`
}

// UpdateCustomerRequest changes the fields that are present
type UpdateCustomerRequest struct {
	Code                  *string     `json:"code" binding:"omitempty,min=1,max=50"`
	Name                  *string     `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName           *string     `json:"contact_name" binding:"omitempty,max=100"`
	Email                 *string     `json:"email" binding:"omitempty,max=200"`
	Phone                 *string     `json:"phone" binding:"omitempty,max=50"`
	BillingAddress        *AddressDTO `json:"billing_address"`
	ShippingAddress       *AddressDTO `json:"shipping_address"`
	ShippingSameAsBilling *bool       `json:"shipping_same_as_billing"`
	PaymentTermDays       *int        `json:"payment_term_days" binding:"omitempty,min=0,max=365"`
	TaxExempt             *bool       `json:"tax_exempt"`
	Notes                 *string     `json:"notes" binding:"omitempty,max=2000"`
}

// CustomerListRequest holds list query parameters
type CustomerListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy   string `form:"sort_by" binding:"omitempty,max=50"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	IsActive *bool  `form:"is_active"`
}

// CustomerResponse is a customer in API responses
type CustomerResponse struct {
	ID                    uuid.UUID  `json:"id"`
	TenantID              uuid.UUID  `json:"tenant_id"`
	Code                  string     `json:"code"`
	Name                  string     `json:"name"`
	ContactName           string     `json:"contact_name"`
	Email                 string     `json:"email"`
	Phone                 string     `json:"phone"`
	BillingAddress        AddressDTO `json:"billing_address"`
	ShippingAddress       AddressDTO `json:"shipping_address"`
	ShippingSameAsBilling bool       `json:"shipping_same_as_billing"`
	PaymentTermDays       int        `json:"payment_term_days"`
	TaxExempt             bool       `json:"tax_exempt"`
	Notes                 string     `json:"notes"`
	IsActive              bool       `json:"is_active"`
	CreatedBy             *uuid.UUID `json:"created_by,omitempty"`
	Version               int        `json:"version"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// DeleteCustomerResult tells the caller whether the row was removed or only deactivated
type DeleteCustomerResult struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}

// ToCustomerResponse converts a domain customer
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                    c.ID,
		TenantID:              c.TenantID,
		Code:                  c.Code,
		Name:                  c.Name,
		ContactName:           c.ContactName,
		Email:                 c.Email,
		Phone:                 c.Phone,
		BillingAddress:        toAddressDTO(c.BillingAddress),
		ShippingAddress:       toAddressDTO(c.ShippingAddress),
		ShippingSameAsBilling: c.ShippingSameAsBilling,
		PaymentTermDays:       c.PaymentTermDays,
		TaxExempt:             c.TaxExempt,
		Notes:                 c.Notes,
		IsActive:              c.IsActive,
		CreatedBy:             c.CreatedBy,
		Version:               c.Version,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of domain customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out
}

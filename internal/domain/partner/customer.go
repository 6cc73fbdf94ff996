package partner

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Customer is a party that sales orders are placed for
type Customer struct {
	shared.TenantAggregateRoot
	Code                  string
	Name                  string
	ContactName           string
	Email                 string
	Phone                 string
	BillingAddress        Address
	ShippingAddress       Address
	ShippingSameAsBilling bool
	PaymentTermDays       int
	TaxExempt             bool
	Notes                 string
	IsActive              bool
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+\.]+$`)
	codePattern  = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)
)

// NewCustomer creates an active customer
func NewCustomer(tenantID uuid.UUID, code, name string) (*Customer, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if err := validateCustomerCode(code); err != nil {
		return nil, err
	}
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}

	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		IsActive:            true,
	}
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// Rename changes the display name
func (c *Customer) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateCustomerName(name); err != nil {
		return err
	}
	c.Name = name
	c.Touch()
	return nil
}

// UpdateCode changes the customer code
func (c *Customer) UpdateCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateCustomerCode(code); err != nil {
		return err
	}
	c.Code = code
	c.Touch()
	return nil
}

// SetContact sets contact person, email and phone. Empty values clear the field.
func (c *Customer) SetContact(contactName, email, phone string) error {
	contactName = strings.TrimSpace(contactName)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	if len(contactName) > 100 {
		return shared.NewValidationError("Contact name cannot exceed 100 characters")
	}
	if email != "" && (len(email) > 200 || !emailPattern.MatchString(email)) {
		return shared.NewValidationError("Invalid email format")
	}
	if phone != "" && (len(phone) > 50 || !phonePattern.MatchString(phone)) {
		return shared.NewValidationError("Invalid phone number format")
	}

	c.ContactName = contactName
	c.Email = email
	c.Phone = phone
	c.Touch()
	return nil
}

// SetAddresses replaces both addresses. When sameAsBilling is set the billing
// address is copied into the shipping address and the supplied shipping value is ignored.
func (c *Customer) SetAddresses(billing, shipping Address, sameAsBilling bool) error {
	billing = billing.Trimmed()
	shipping = shipping.Trimmed()
	if err := billing.validate(); err != nil {
		return err
	}
	if !sameAsBilling {
		if err := shipping.validate(); err != nil {
			return err
		}
	}

	c.BillingAddress = billing
	c.ShippingSameAsBilling = sameAsBilling
	c.ShippingAddress = shipping
	c.syncShippingAddress()
	c.Touch()
	return nil
}

// syncShippingAddress keeps the shipping address equal to billing while the flag is set
func (c *Customer) syncShippingAddress() {
	if c.ShippingSameAsBilling {
		c.ShippingAddress = c.BillingAddress
	}
}

// SetTerms sets payment terms and tax exemption
func (c *Customer) SetTerms(paymentTermDays int, taxExempt bool) error {
	if paymentTermDays < 0 || paymentTermDays > 365 {
		return shared.NewValidationError("Payment terms must be between 0 and 365 days")
	}
	c.PaymentTermDays = paymentTermDays
	c.TaxExempt = taxExempt
	c.Touch()
	return nil
}

// SetNotes sets free-form notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = strings.TrimSpace(notes)
	c.Touch()
}

// MarkUpdated records an update event.
// Services call it once after applying a batch of setters.
func (c *Customer) MarkUpdated() {
	c.AddDomainEvent(NewCustomerUpdatedEvent(c))
}

// Activate makes the customer selectable on new orders again
func (c *Customer) Activate() error {
	if c.IsActive {
		return shared.NewDomainError(shared.CodeInvalidState, "Customer is already active")
	}
	c.IsActive = true
	c.Touch()
	c.AddDomainEvent(NewCustomerStatusChangedEvent(c))
	return nil
}

// Deactivate hides the customer from new orders while keeping its history
func (c *Customer) Deactivate() error {
	if !c.IsActive {
		return shared.NewDomainError(shared.CodeInvalidState, "Customer is already inactive")
	}
	c.IsActive = false
	c.Touch()
	c.AddDomainEvent(NewCustomerStatusChangedEvent(c))
	return nil
}

func validateCustomerCode(code string) error {
	if code == "" {
		return shared.NewValidationError("Customer code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewValidationError("Customer code cannot exceed 50 characters")
	}
	if !codePattern.MatchString(code) {
		return shared.NewValidationError("Customer code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewValidationError("Customer name is required")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Customer name cannot exceed 200 characters")
	}
	return nil
}

func errInvalidAddress(msg string) error {
	return shared.NewValidationError(msg)
}

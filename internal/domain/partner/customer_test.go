package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCustomer(t *testing.T) *Customer {
	t.Helper()
	c, err := NewCustomer(uuid.New(), "cus-00001", "Acme Corp")
	require.NoError(t, err)
	return c
}

func TestNewCustomer(t *testing.T) {
	t.Run("normalizes code and raises created event", func(t *testing.T) {
		c := createTestCustomer(t)
		assert.Equal(t, "CUS-00001", c.Code)
		assert.True(t, c.IsActive)
		require.Len(t, c.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeCustomerCreated, c.GetDomainEvents()[0].EventType())
	})

	t.Run("requires name", func(t *testing.T) {
		_, err := NewCustomer(uuid.New(), "C1", "  ")
		require.Error(t, err)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeValidation, de.Code)
	})

	t.Run("rejects code with spaces", func(t *testing.T) {
		_, err := NewCustomer(uuid.New(), "C 1", "Name")
		assert.Error(t, err)
	})
}

func TestCustomer_SetAddresses(t *testing.T) {
	billing := Address{Line1: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US"}
	shipping := Address{Line1: "9 Dock Rd", City: "Shelbyville", Country: "US"}

	t.Run("copies billing into shipping when same as billing", func(t *testing.T) {
		c := createTestCustomer(t)
		require.NoError(t, c.SetAddresses(billing, shipping, true))
		assert.Equal(t, billing, c.ShippingAddress)
		assert.True(t, c.ShippingSameAsBilling)
	})

	t.Run("keeps explicit shipping address otherwise", func(t *testing.T) {
		c := createTestCustomer(t)
		require.NoError(t, c.SetAddresses(billing, shipping, false))
		assert.Equal(t, shipping, c.ShippingAddress)
		assert.Equal(t, billing, c.BillingAddress)
	})

	t.Run("trims fields before copying", func(t *testing.T) {
		c := createTestCustomer(t)
		require.NoError(t, c.SetAddresses(Address{Line1: "  1 Main St "}, Address{}, true))
		assert.Equal(t, "1 Main St", c.ShippingAddress.Line1)
	})

	t.Run("rejects oversized postal code", func(t *testing.T) {
		c := createTestCustomer(t)
		err := c.SetAddresses(Address{PostalCode: "123456789012345678901"}, Address{}, true)
		assert.Error(t, err)
	})
}

func TestCustomer_SetContact(t *testing.T) {
	c := createTestCustomer(t)

	require.NoError(t, c.SetContact("Jo", " JO@Acme.io ", "+1 (555) 010-2000"))
	assert.Equal(t, "jo@acme.io", c.Email)

	assert.Error(t, c.SetContact("Jo", "not-an-email", ""))
	assert.Error(t, c.SetContact("Jo", "", "call me"))
}

func TestCustomer_ActivateDeactivate(t *testing.T) {
	c := createTestCustomer(t)
	c.ClearDomainEvents()

	require.NoError(t, c.Deactivate())
	assert.False(t, c.IsActive)
	assert.Error(t, c.Deactivate())

	require.NoError(t, c.Activate())
	assert.True(t, c.IsActive)
	assert.Error(t, c.Activate())

	assert.Len(t, c.GetDomainEvents(), 2)
}

func TestCustomer_SetTerms(t *testing.T) {
	c := createTestCustomer(t)
	require.NoError(t, c.SetTerms(30, true))
	assert.Equal(t, 30, c.PaymentTermDays)
	assert.True(t, c.TaxExempt)
	assert.Error(t, c.SetTerms(-1, false))
}

func TestAddress_String(t *testing.T) {
	a := Address{Line1: "1 Main St", City: "Springfield", Country: "US"}
	assert.Equal(t, "1 Main St, Springfield, US", a.String())
	assert.True(t, Address{}.IsEmpty())
}

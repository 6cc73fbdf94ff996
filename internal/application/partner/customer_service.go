package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const resourceCustomer = "Customer"

// CustomerService handles customer use cases
type CustomerService struct {
	customers partner.CustomerRepository
	txScope   appshared.TransactionScope
	publisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customers partner.CustomerRepository, txScope appshared.TransactionScope, publisher shared.EventPublisher) *CustomerService {
	return &CustomerService{
		customers: customers,
		txScope:   txScope,
		publisher: publisher,
	}
}

// Create creates a customer for the caller's tenant
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		customer *partner.Customer
		events   appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		code := req.Code
		if code == "" {
			code, err = repos.DisplayIDs().Next(ctx, auth.TenantID, shared.EntityCustomer)
			if err != nil {
				return err
			}
		}

		customer, err = partner.NewCustomer(auth.TenantID, code, req.Name)
		if err != nil {
			return err
		}
		customer.SetCreatedBy(auth.UserID)
		if err := applyCreate(customer, req); err != nil {
			return err
		}
		if err := repos.Customers().Save(ctx, customer); err != nil {
			return err
		}
		events.Collect(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	logger.L(ctx).Info("Customer created", zap.String("customer_id", customer.ID.String()), zap.String("code", customer.Code))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

func applyCreate(c *partner.Customer, req CreateCustomerRequest) error {
	if err := c.SetContact(req.ContactName, req.Email, req.Phone); err != nil {
		return err
	}
	if err := c.SetAddresses(req.BillingAddress.toDomain(), req.ShippingAddress.toDomain(), req.ShippingSameAsBilling); err != nil {
		return err
	}
	if err := c.SetTerms(req.PaymentTermDays, req.TaxExempt); err != nil {
		return err
	}
	c.SetNotes(req.Notes)
	return nil
}

// GetByID returns a customer of the caller's tenant
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	customer, err := guard.Own[*partner.Customer](auth, resourceCustomer)(s.customers.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List returns a page of customers
func (s *CustomerService) List(ctx context.Context, req CustomerListRequest) (*shared.Paginated[CustomerResponse], error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}

	filter := appshared.ListParams{
		Page: req.Page, PageSize: req.PageSize, SortBy: req.SortBy, SortDir: req.SortDir, Search: req.Search,
	}.Filter()
	if req.IsActive != nil {
		filter.Filters["is_active"] = *req.IsActive
	}

	customers, err := s.customers.FindAllForTenant(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customers.CountForTenant(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToCustomerResponses(customers), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update applies the present fields. The billing address is copied into the
// shipping address whenever the resulting flag is set.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		customer *partner.Customer
		events   appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		customer, err = guard.Own[*partner.Customer](auth, resourceCustomer)(repos.Customers().FindByID(ctx, id))
		if err != nil {
			return err
		}
		if err := applyUpdate(customer, req); err != nil {
			return err
		}
		customer.MarkUpdated()
		if err := repos.Customers().SaveWithLock(ctx, customer); err != nil {
			return err
		}
		events.Collect(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

func applyUpdate(c *partner.Customer, req UpdateCustomerRequest) error {
	if req.Code != nil {
		if err := c.UpdateCode(*req.Code); err != nil {
			return err
		}
	}
	if req.Name != nil {
		if err := c.Rename(*req.Name); err != nil {
			return err
		}
	}

	if req.ContactName != nil || req.Email != nil || req.Phone != nil {
		contactName, email, phone := c.ContactName, c.Email, c.Phone
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := c.SetContact(contactName, email, phone); err != nil {
			return err
		}
	}

	if req.BillingAddress != nil || req.ShippingAddress != nil || req.ShippingSameAsBilling != nil {
		billing, shipping, same := c.BillingAddress, c.ShippingAddress, c.ShippingSameAsBilling
		if req.BillingAddress != nil {
			billing = req.BillingAddress.toDomain()
		}
		if req.ShippingAddress != nil {
			shipping = req.ShippingAddress.toDomain()
		}
		if req.ShippingSameAsBilling != nil {
			same = *req.ShippingSameAsBilling
		}
		if err := c.SetAddresses(billing, shipping, same); err != nil {
			return err
		}
	}

	if req.PaymentTermDays != nil || req.TaxExempt != nil {
		days, exempt := c.PaymentTermDays, c.TaxExempt
		if req.PaymentTermDays != nil {
			days = *req.PaymentTermDays
		}
		if req.TaxExempt != nil {
			exempt = *req.TaxExempt
		}
		if err := c.SetTerms(days, exempt); err != nil {
			return err
		}
	}

	if req.Notes != nil {
		c.SetNotes(*req.Notes)
	}
	return nil
}

// Delete removes a customer, or deactivates it when sales orders still reference it
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) (*DeleteCustomerResult, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionAdmin)
	if err != nil {
		return nil, err
	}

	var (
		result DeleteCustomerResult
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		customer, err := guard.Own[*partner.Customer](auth, resourceCustomer)(repos.Customers().FindByID(ctx, id))
		if err != nil {
			return err
		}

		orders, err := repos.Customers().CountSalesOrders(ctx, auth.TenantID, customer.ID)
		if err != nil {
			return err
		}
		if orders > 0 {
			result.Deactivated = true
			if !customer.IsActive {
				return nil
			}
			if err := customer.Deactivate(); err != nil {
				return err
			}
			if err := repos.Customers().SaveWithLock(ctx, customer); err != nil {
				return err
			}
			events.Collect(customer)
			return nil
		}

		if err := repos.Customers().DeleteForTenant(ctx, auth.TenantID, customer.ID); err != nil {
			return err
		}
		result.Deleted = true
		events.Add(partner.NewCustomerDeletedEvent(auth.TenantID, customer.ID, customer.Code, customer.Name))
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	logger.L(ctx).Info("Customer removed",
		zap.String("customer_id", id.String()),
		zap.Bool("deleted", result.Deleted),
		zap.Bool("deactivated", result.Deactivated),
	)
	return &result, nil
}

// Activate makes an inactive customer selectable again
func (s *CustomerService) Activate(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, id, (*partner.Customer).Activate)
}

// Deactivate hides a customer from new orders
func (s *CustomerService) Deactivate(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, id, (*partner.Customer).Deactivate)
}

func (s *CustomerService) changeStatus(ctx context.Context, id uuid.UUID, apply func(*partner.Customer) error) (*CustomerResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		customer *partner.Customer
		events   appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		customer, err = guard.Own[*partner.Customer](auth, resourceCustomer)(repos.Customers().FindByID(ctx, id))
		if err != nil {
			return err
		}
		if err := apply(customer); err != nil {
			return err
		}
		if err := repos.Customers().SaveWithLock(ctx, customer); err != nil {
			return err
		}
		events.Collect(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

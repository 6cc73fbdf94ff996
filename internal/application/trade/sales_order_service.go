package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const resourceSalesOrder = "Sales order"

// SalesOrderService handles sales order use cases. Multi-step writes run in
// one transaction; events are published after it commits.
type SalesOrderService struct {
	orders    trade.SalesOrderRepository
	pickLists trade.PickListRepository
	customers partner.CustomerRepository
	stats     trade.OrderStatsReader
	txScope   appshared.TransactionScope
	publisher shared.EventPublisher
	fulfill   fulfillment
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	orders trade.SalesOrderRepository,
	pickLists trade.PickListRepository,
	customers partner.CustomerRepository,
	stats trade.OrderStatsReader,
	txScope appshared.TransactionScope,
	publisher shared.EventPublisher,
	planner *trade.PickPlanner,
) *SalesOrderService {
	return &SalesOrderService{
		orders:    orders,
		pickLists: pickLists,
		customers: customers,
		stats:     stats,
		txScope:   txScope,
		publisher: publisher,
		fulfill:   fulfillment{planner: planner},
	}
}

// Create creates a draft order with optional initial items
func (s *SalesOrderService) Create(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		order  *trade.SalesOrder
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		displayID, err := repos.DisplayIDs().Next(ctx, auth.TenantID, shared.EntitySalesOrder)
		if err != nil {
			return err
		}
		order, err = trade.NewSalesOrder(auth.TenantID, displayID)
		if err != nil {
			return err
		}
		order.SetCreatedBy(auth.UserID)

		if req.ShipTo != nil {
			if err := order.SetShipTo(*req.ShipTo); err != nil {
				return err
			}
		}
		exempt := false
		if req.CustomerID != nil {
			customer, err := guard.Own[*partner.Customer](auth, "Customer")(repos.Customers().FindByID(ctx, *req.CustomerID))
			if err != nil {
				return err
			}
			if err := order.SetCustomer(customer); err != nil {
				return err
			}
			exempt = customer.TaxExempt
		}

		var orderDate time.Time
		if req.OrderDate != nil {
			orderDate = *req.OrderDate
		}
		if err := order.SetSchedule(orderDate, req.RequestedDate, req.PromisedDate); err != nil {
			return err
		}
		order.SetNotes(req.Notes)
		if req.ShippingCost != nil {
			if err := order.SetShippingCost(*req.ShippingCost); err != nil {
				return err
			}
		}

		taxes := lineTaxes{repos: repos, tenantID: auth.TenantID}
		for i, line := range req.Items {
			if err := s.addLine(ctx, repos, auth, taxes, order, line, exempt); err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
		}

		if err := repos.SalesOrders().Save(ctx, order); err != nil {
			return err
		}
		events.Collect(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	logger.L(ctx).Info("Sales order created",
		zap.String("order_id", order.ID.String()),
		zap.String("display_id", order.DisplayID),
		zap.Int("items", len(order.Items)),
	)
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// addLine appends a line priced from the item unless a price is given, then
// attaches its taxes
func (s *SalesOrderService) addLine(ctx context.Context, repos appshared.Repositories, auth *guard.AuthContext, taxes lineTaxes, order *trade.SalesOrder, req OrderLineRequest, exempt bool) error {
	item, err := guard.Own[*inventory.Item](auth, "Item")(repos.Items().FindByID(ctx, req.ItemID))
	if err != nil {
		return err
	}
	price := item.Price
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}
	line, err := order.AddItem(trade.LineInput{
		ItemID:          item.ID,
		ItemName:        item.Name,
		SKU:             item.SKU,
		Unit:            item.Unit,
		Quantity:        req.Quantity,
		UnitPrice:       price,
		DiscountPercent: req.DiscountPercent,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}
	return taxes.apply(ctx, order, line.ID, req.TaxRateIDs, exempt)
}

// GetDetails returns an order with its lines, customer and latest pick list
func (s *SalesOrderService) GetDetails(ctx context.Context, id uuid.UUID) (*SalesOrderDetails, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	order, err := guard.Own[*trade.SalesOrder](auth, resourceSalesOrder)(s.orders.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}

	details := &SalesOrderDetails{SalesOrderResponse: ToSalesOrderResponse(order)}
	if order.CustomerID != nil {
		customer, err := s.customers.FindByID(ctx, *order.CustomerID)
		switch {
		case err == nil && customer.TenantID == auth.TenantID:
			details.Customer = toCustomerSummary(customer)
		case err != nil && !shared.IsNotFound(err):
			return nil, err
		}
	}
	pl, err := s.pickLists.FindLatestByOrder(ctx, auth.TenantID, order.ID)
	switch {
	case err == nil:
		details.PickList = toPickListSummary(pl)
	case !shared.IsNotFound(err):
		return nil, err
	}
	return details, nil
}

// List returns a page of orders without lines
func (s *SalesOrderService) List(ctx context.Context, req SalesOrderListRequest) (*shared.Paginated[SalesOrderListItem], error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}

	filter := appshared.ListParams{
		Page: req.Page, PageSize: req.PageSize, SortBy: req.SortBy, SortDir: req.SortDir, Search: req.Search,
	}.Filter()
	if req.Status != "" {
		status := trade.OrderStatus(req.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("Unknown order status: " + req.Status)
		}
		filter.Filters["status"] = string(status)
	}
	if req.CustomerID != nil {
		filter.Filters["customer_id"] = *req.CustomerID
	}
	if req.From != nil {
		filter.Filters["from"] = *req.From
	}
	if req.To != nil {
		// inclusive end of day
		filter.Filters["to"] = req.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	orders, err := s.orders.FindAllForTenant(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.CountForTenant(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SalesOrderListItem, len(orders))
	for i := range orders {
		items[i] = ToSalesOrderListItem(&orders[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// StatusSummary counts the tenant's orders per status
func (s *SalesOrderService) StatusSummary(ctx context.Context) (*OrderStatusSummary, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	counts, err := s.stats.CountByStatus(ctx, auth.TenantID)
	if err != nil {
		return nil, err
	}
	summary := &OrderStatusSummary{Counts: make(map[string]int64, len(counts))}
	for _, status := range trade.AllOrderStatuses() {
		n := counts[status]
		summary.Counts[string(status)] = n
		summary.Total += n
	}
	return summary, nil
}

// Update changes header fields. Changing the customer recalculates every
// line's taxes since the exemption may differ.
func (s *SalesOrderService) Update(ctx context.Context, id uuid.UUID, req UpdateSalesOrderRequest) (*SalesOrderResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		order  *trade.SalesOrder
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		order, err = guard.Own[*trade.SalesOrder](auth, resourceSalesOrder)(repos.SalesOrders().FindByID(ctx, id))
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return shared.NewDomainError(shared.CodeInvalidState,
				fmt.Sprintf("A %s order can no longer be edited", order.Status))
		}

		if req.ShipTo != nil {
			if err := order.SetShipTo(*req.ShipTo); err != nil {
				return err
			}
		}
		if req.CustomerID != nil && (order.CustomerID == nil || *order.CustomerID != *req.CustomerID) {
			customer, err := guard.Own[*partner.Customer](auth, "Customer")(repos.Customers().FindByID(ctx, *req.CustomerID))
			if err != nil {
				return err
			}
			if err := order.SetCustomer(customer); err != nil {
				return err
			}
			taxes := lineTaxes{repos: repos, tenantID: auth.TenantID}
			if err := taxes.applyAll(ctx, order, customer.TaxExempt); err != nil {
				return err
			}
		}
		if req.OrderDate != nil || req.RequestedDate != nil || req.PromisedDate != nil {
			orderDate, requested, promised := order.OrderDate, order.RequestedDate, order.PromisedDate
			if req.OrderDate != nil {
				orderDate = *req.OrderDate
			}
			if req.RequestedDate != nil {
				requested = req.RequestedDate
			}
			if req.PromisedDate != nil {
				promised = req.PromisedDate
			}
			if err := order.SetSchedule(orderDate, requested, promised); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			order.SetNotes(*req.Notes)
		}
		if req.ShippingCost != nil {
			if err := order.SetShippingCost(*req.ShippingCost); err != nil {
				return err
			}
		}

		order.MarkUpdated()
		if err := repos.SalesOrders().SaveWithLock(ctx, order); err != nil {
			return err
		}
		events.Collect(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// Delete removes a draft or cancelled order
func (s *SalesOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return err
	}

	var events appshared.EventCollector
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		order, err := guard.Own[*trade.SalesOrder](auth, resourceSalesOrder)(repos.SalesOrders().FindByID(ctx, id))
		if err != nil {
			return err
		}
		if !order.CanDelete() {
			return shared.NewDomainError(shared.CodeInvalidState, "Only draft or cancelled orders can be deleted")
		}
		if err := repos.SalesOrders().Delete(ctx, auth.TenantID, order.ID); err != nil {
			return err
		}
		events.Add(trade.NewSalesOrderDeletedEvent(order))
		return nil
	})
	if err != nil {
		return err
	}
	events.Publish(ctx, s.publisher)
	return nil
}

// ChangeStatus moves an order to another status. Entering picking generates
// the pick list, picking to picked completes it, and leaving picking any
// other way cancels it, all in the same transaction.
func (s *SalesOrderService) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeStatusRequest) (*SalesOrderResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}
	target := trade.OrderStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewValidationError("Unknown order status: " + req.Status)
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "SalesOrderService", "ChangeStatus",
		attribute.String("order.id", id.String()),
		attribute.String("order.target_status", string(target)),
	)
	var (
		order  *trade.SalesOrder
		from   trade.OrderStatus
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		order, err = guard.Own[*trade.SalesOrder](auth, resourceSalesOrder)(repos.SalesOrders().FindByID(ctx, id))
		if err != nil {
			return err
		}
		from = order.Status
		if from == target {
			return nil
		}
		if err := s.transition(ctx, repos, auth, order, target, req.Reason, &events); err != nil {
			return err
		}
		if err := repos.SalesOrders().SaveWithLock(ctx, order); err != nil {
			return err
		}
		events.Collect(order)
		return nil
	})
	telemetry.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	if from != target {
		logger.L(ctx).Info("Sales order status changed",
			zap.String("display_id", order.DisplayID),
			zap.String("from", string(from)),
			zap.String("to", string(target)),
		)
	}
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

func (s *SalesOrderService) transition(ctx context.Context, repos appshared.Repositories, auth *guard.AuthContext, order *trade.SalesOrder, target trade.OrderStatus, reason string, events *appshared.EventCollector) error {
	from := order.Status
	if from == trade.OrderStatusPicking && target == trade.OrderStatusPicked {
		pl, err := repos.PickLists().FindActiveByOrder(ctx, auth.TenantID, order.ID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewDomainError(shared.CodeInvalidState, "The order has no open pick list")
			}
			return err
		}
		return s.fulfill.complete(ctx, repos, auth, pl, order, events)
	}

	if err := order.TransitionTo(target, reason); err != nil {
		return err
	}
	switch {
	case target == trade.OrderStatusPicking:
		_, err := s.fulfill.generate(ctx, repos, auth, order, events)
		return err
	case from == trade.OrderStatusPicking:
		return s.fulfill.cancelOpen(ctx, repos, auth.TenantID, order.ID)
	}
	return nil
}

// AddItem appends a line to an editable order
func (s *SalesOrderService) AddItem(ctx context.Context, id uuid.UUID, req OrderLineRequest) (*SalesOrderResponse, error) {
	return s.editLines(ctx, id, func(repos appshared.Repositories, auth *guard.AuthContext, taxes lineTaxes, order *trade.SalesOrder, exempt bool) error {
		return s.addLine(ctx, repos, auth, taxes, order, req, exempt)
	})
}

// UpdateItem changes a line and recalculates its taxes
func (s *SalesOrderService) UpdateItem(ctx context.Context, id, lineID uuid.UUID, req UpdateOrderLineRequest) (*SalesOrderResponse, error) {
	return s.editLines(ctx, id, func(_ appshared.Repositories, _ *guard.AuthContext, taxes lineTaxes, order *trade.SalesOrder, exempt bool) error {
		line := order.GetItem(lineID)
		if line == nil {
			return shared.NewNotFoundError("Order item")
		}
		qty, price, discount, notes := line.Quantity, line.UnitPrice, line.DiscountPercent, line.Notes
		if req.Quantity != nil {
			qty = *req.Quantity
		}
		if req.UnitPrice != nil {
			price = *req.UnitPrice
		}
		if req.DiscountPercent != nil {
			discount = *req.DiscountPercent
		}
		if req.Notes != nil {
			notes = *req.Notes
		}
		if _, err := order.UpdateItem(lineID, qty, price, discount, notes); err != nil {
			return err
		}
		return taxes.apply(ctx, order, lineID, req.TaxRateIDs, exempt)
	})
}

// RemoveItem deletes a line
func (s *SalesOrderService) RemoveItem(ctx context.Context, id, lineID uuid.UUID) (*SalesOrderResponse, error) {
	return s.editLines(ctx, id, func(_ appshared.Repositories, _ *guard.AuthContext, _ lineTaxes, order *trade.SalesOrder, _ bool) error {
		return order.RemoveItem(lineID)
	})
}

// RecalculateItemTaxes reapplies the line's rates, or the tenant defaults
// when it has none, to its current amounts
func (s *SalesOrderService) RecalculateItemTaxes(ctx context.Context, id, lineID uuid.UUID) (*SalesOrderResponse, error) {
	return s.editLines(ctx, id, func(_ appshared.Repositories, _ *guard.AuthContext, taxes lineTaxes, order *trade.SalesOrder, exempt bool) error {
		return taxes.apply(ctx, order, lineID, nil, exempt)
	})
}

type lineEdit func(repos appshared.Repositories, auth *guard.AuthContext, taxes lineTaxes, order *trade.SalesOrder, exempt bool) error

// editLines loads the order, applies edit and saves it with the optimistic lock
func (s *SalesOrderService) editLines(ctx context.Context, id uuid.UUID, edit lineEdit) (*SalesOrderResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		order  *trade.SalesOrder
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		order, err = guard.Own[*trade.SalesOrder](auth, resourceSalesOrder)(repos.SalesOrders().FindByID(ctx, id))
		if err != nil {
			return err
		}
		if !order.Status.AllowsItemChanges() {
			return shared.NewDomainError(shared.CodeInvalidState,
				fmt.Sprintf("Order items can only be changed in draft or submitted status (current: %s)", order.Status))
		}
		taxes := lineTaxes{repos: repos, tenantID: auth.TenantID}
		exempt, err := taxes.isExempt(ctx, order)
		if err != nil {
			return err
		}
		if err := edit(repos, auth, taxes, order, exempt); err != nil {
			return err
		}
		if err := repos.SalesOrders().SaveWithLock(ctx, order); err != nil {
			return err
		}
		events.Collect(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// GetPickList returns the most recent pick list of an order
func (s *SalesOrderService) GetPickList(ctx context.Context, id uuid.UUID) (*PickListResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	order, err := guard.Own[*trade.SalesOrder](auth, resourceSalesOrder)(s.orders.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	pl, err := s.pickLists.FindLatestByOrder(ctx, auth.TenantID, order.ID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("Pick list")
		}
		return nil, err
	}
	resp := ToPickListResponse(pl)
	return &resp, nil
}

package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/tax"
	"github.com/stockroom/backend/internal/domain/trade"
	"github.com/stockroom/backend/internal/infrastructure/persistence"
	"github.com/stockroom/backend/internal/infrastructure/strategy/batch"
	"github.com/stockroom/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orders    *SalesOrderService
	picks     *PickListService
	db        *persistence.Database
	publisher *testutil.RecordingPublisher
	ctx       context.Context
}

func newOrderFixture(t *testing.T, opts ...trade.PlannerOption) *orderFixture {
	t.Helper()
	db := testutil.NewDatabase(t)
	publisher := testutil.NewRecordingPublisher()
	txScope := persistence.NewGormTransactionScope(db.DB)
	planner := trade.NewPickPlanner(batch.NewFEFO(), opts...)
	pickLists := persistence.NewGormPickListRepository(db.DB)
	return &orderFixture{
		orders: NewSalesOrderService(
			persistence.NewGormSalesOrderRepository(db.DB),
			pickLists,
			persistence.NewGormCustomerRepository(db.DB),
			persistence.NewReadModels(db.X),
			txScope,
			publisher,
			planner,
		),
		picks:     NewPickListService(pickLists, txScope, publisher, planner),
		db:        db,
		publisher: publisher,
		ctx:       testutil.AuthAs(identity.RoleMember),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *orderFixture) customer(t *testing.T, code string, exempt bool) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(testutil.TestTenantID(), code, "Customer "+code)
	require.NoError(t, err)
	c.ShippingAddress = partner.Address{Line1: "5 Dock St", City: "Harbor"}
	require.NoError(t, c.SetTerms(30, exempt))
	require.NoError(t, persistence.NewGormCustomerRepository(f.db.DB).Save(context.Background(), c))
	return c
}

// item stores an item with price 10 and the given stock spread over locations
func (f *orderFixture) item(t *testing.T, name string, stock map[string]string) *inventory.Item {
	t.Helper()
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	item, err := inventory.NewItem(tenantID, "ITM-"+name, name, "SKU-"+name, "pcs")
	require.NoError(t, err)
	require.NoError(t, item.SetPricing(dec("10"), dec("4")))

	locations := persistence.NewGormLocationRepository(f.db.DB)
	total := decimal.Zero
	var rows []inventory.LocationStock
	for locName, qty := range stock {
		loc, err := inventory.NewLocation(tenantID, locName, locName, inventory.LocationShelf)
		require.NoError(t, err)
		require.NoError(t, locations.Save(ctx, loc))
		rows = append(rows, inventory.LocationStock{
			TenantID: tenantID, ItemID: item.ID, LocationID: loc.ID, Quantity: dec(qty), UpdatedAt: time.Now(),
		})
		total = total.Add(dec(qty))
	}
	if total.IsPositive() {
		require.NoError(t, item.AdjustQuantity(total, "seed"))
	}
	require.NoError(t, persistence.NewGormItemRepository(f.db.DB).Save(ctx, item))
	for i := range rows {
		require.NoError(t, locations.SaveStock(ctx, &rows[i]))
	}
	return item
}

func (f *orderFixture) defaultRate(t *testing.T, percent string) *tax.Rate {
	t.Helper()
	r, err := tax.NewRate(testutil.TestTenantID(), "State sales", "ST", dec(percent), tax.TypeSales)
	require.NoError(t, err)
	require.NoError(t, r.Update(r.Name, r.Code, r.Percent, r.Type, false, true, true))
	require.NoError(t, persistence.NewGormTaxRateRepository(f.db.DB).Save(context.Background(), r))
	return r
}

func (f *orderFixture) draft(t *testing.T, customerID uuid.UUID, lines ...OrderLineRequest) *SalesOrderResponse {
	t.Helper()
	resp, err := f.orders.Create(f.ctx, CreateSalesOrderRequest{CustomerID: &customerID, Items: lines})
	require.NoError(t, err)
	return resp
}

func (f *orderFixture) advance(t *testing.T, id uuid.UUID, statuses ...trade.OrderStatus) *SalesOrderResponse {
	t.Helper()
	var resp *SalesOrderResponse
	for _, s := range statuses {
		var err error
		resp, err = f.orders.ChangeStatus(f.ctx, id, ChangeStatusRequest{Status: string(s)})
		require.NoError(t, err, "moving to %s", s)
	}
	return resp
}

func TestSalesOrderService_Create(t *testing.T) {
	f := newOrderFixture(t)
	customer := f.customer(t, "acme", false)
	widget := f.item(t, "widget", nil)
	f.defaultRate(t, "10")

	resp := f.draft(t, customer.ID,
		OrderLineRequest{ItemID: widget.ID, Quantity: dec("3")},
		OrderLineRequest{ItemID: widget.ID, Quantity: dec("1"), UnitPrice: decPtr("20"), DiscountPercent: dec("50")},
	)

	assert.Equal(t, "SO-00001", resp.DisplayID)
	assert.Equal(t, string(trade.OrderStatusDraft), resp.Status)
	assert.Equal(t, "Customer ACME", resp.CustomerName)
	assert.Equal(t, "5 Dock St", resp.ShipTo.Line1, "ship-to is copied from the customer")
	require.Len(t, resp.Items, 2)
	assert.True(t, dec("10").Equal(resp.Items[0].UnitPrice), "price defaults to the item price")
	require.Len(t, resp.Items[0].Taxes, 1, "tenant default rate applies")

	// gross 30 + 20, half of the second line discounted, 10% tax on the rest
	assert.True(t, dec("50").Equal(resp.Subtotal), "subtotal %s", resp.Subtotal)
	assert.True(t, dec("10").Equal(resp.DiscountTotal), "discount %s", resp.DiscountTotal)
	assert.True(t, dec("4").Equal(resp.TaxTotal), "tax %s", resp.TaxTotal)
	assert.True(t, dec("44").Equal(resp.Total), "total %s", resp.Total)
	assert.Contains(t, f.publisher.Types(), trade.EventTypeSalesOrderCreated)

	t.Run("second order gets the next display id", func(t *testing.T) {
		next := f.draft(t, customer.ID)
		assert.Equal(t, "SO-00002", next.DisplayID)
	})

	t.Run("exempt customer pays no tax", func(t *testing.T) {
		exempt := f.customer(t, "church", true)
		resp := f.draft(t, exempt.ID, OrderLineRequest{ItemID: widget.ID, Quantity: dec("2")})
		assert.Empty(t, resp.Items[0].Taxes)
		assert.True(t, resp.TaxTotal.IsZero())
	})

	t.Run("item of another tenant is not found", func(t *testing.T) {
		foreign, err := inventory.NewItem(uuid.New(), "ITM-X", "Foreign", "", "")
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormItemRepository(f.db.DB).Save(context.Background(), foreign))

		_, err = f.orders.Create(f.ctx, CreateSalesOrderRequest{
			CustomerID: &customer.ID,
			Items:      []OrderLineRequest{{ItemID: foreign.ID, Quantity: dec("1")}},
		})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeNotFound, de.Code)
	})

	t.Run("viewer cannot create", func(t *testing.T) {
		_, err := f.orders.Create(testutil.AuthAs(identity.RoleViewer), CreateSalesOrderRequest{})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestSalesOrderService_ChangeStatus_Transitions(t *testing.T) {
	f := newOrderFixture(t)
	customer := f.customer(t, "acme", false)
	widget := f.item(t, "widget", map[string]string{"A1": "10"})

	t.Run("submit needs a customer and items", func(t *testing.T) {
		empty, err := f.orders.Create(f.ctx, CreateSalesOrderRequest{})
		require.NoError(t, err)
		_, err = f.orders.ChangeStatus(f.ctx, empty.ID, ChangeStatusRequest{Status: "submitted"})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeValidation, de.Code)
		assert.Equal(t, "Customer is required to submit an order", de.Message)

		noLines := f.draft(t, customer.ID)
		_, err = f.orders.ChangeStatus(f.ctx, noLines.ID, ChangeStatusRequest{Status: "submitted"})
		de, ok = shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "Order must have at least one item", de.Message)
	})

	t.Run("invalid edge is rejected", func(t *testing.T) {
		order := f.draft(t, customer.ID, OrderLineRequest{ItemID: widget.ID, Quantity: dec("1")})
		_, err := f.orders.ChangeStatus(f.ctx, order.ID, ChangeStatusRequest{Status: "shipped"})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeInvalidTransition, de.Code)
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		order := f.draft(t, customer.ID)
		_, err := f.orders.ChangeStatus(f.ctx, order.ID, ChangeStatusRequest{Status: "teleported"})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeValidation, de.Code)
	})

	t.Run("self transition is a no-op", func(t *testing.T) {
		order := f.draft(t, customer.ID)
		f.publisher.Reset()
		resp, err := f.orders.ChangeStatus(f.ctx, order.ID, ChangeStatusRequest{Status: "draft"})
		require.NoError(t, err)
		assert.Equal(t, order.Version, resp.Version)
		assert.Empty(t, f.publisher.Events())
	})

	t.Run("cancel records the reason", func(t *testing.T) {
		order := f.draft(t, customer.ID, OrderLineRequest{ItemID: widget.ID, Quantity: dec("1")})
		f.advance(t, order.ID, trade.OrderStatusSubmitted)
		resp, err := f.orders.ChangeStatus(f.ctx, order.ID, ChangeStatusRequest{Status: "cancelled", Reason: " duplicate "})
		require.NoError(t, err)
		assert.Equal(t, "duplicate", resp.CancelReason)
		assert.NotNil(t, resp.CancelledAt)
		assert.Empty(t, resp.NextStatuses)
	})

	t.Run("other tenant sees not found", func(t *testing.T) {
		order := f.draft(t, customer.ID)
		_, err := f.orders.ChangeStatus(testutil.OtherTenant(), order.ID, ChangeStatusRequest{Status: "cancelled"})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "Sales order not found", de.Message)
	})
}

func TestSalesOrderService_PickingLifecycle(t *testing.T) {
	f := newOrderFixture(t)
	customer := f.customer(t, "acme", false)
	widget := f.item(t, "widget", map[string]string{"A1": "4", "B2": "6"})

	order := f.draft(t, customer.ID, OrderLineRequest{ItemID: widget.ID, Quantity: dec("8")})
	resp := f.advance(t, order.ID, trade.OrderStatusSubmitted, trade.OrderStatusConfirmed, trade.OrderStatusPicking)
	assert.Equal(t, string(trade.OrderStatusPicking), resp.Status)
	assert.Contains(t, f.publisher.Types(), trade.EventTypePickListGenerated)

	pl, err := f.orders.GetPickList(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "PL-00001", pl.DisplayID)
	assert.Equal(t, string(trade.PickListStatusPending), pl.Status)
	require.Len(t, pl.Lines, 2)
	assert.Equal(t, "B2", pl.Lines[0].LocationName, "fullest location first")
	assert.True(t, dec("6").Equal(pl.Lines[0].QuantityToPick))
	assert.True(t, dec("2").Equal(pl.Lines[1].QuantityToPick))

	t.Run("items are locked while picking", func(t *testing.T) {
		_, err := f.orders.AddItem(f.ctx, order.ID, OrderLineRequest{ItemID: widget.ID, Quantity: dec("1")})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeInvalidState, de.Code)
	})

	t.Run("details include the pick list summary", func(t *testing.T) {
		details, err := f.orders.GetDetails(f.ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, details.Customer)
		assert.Equal(t, customer.Code, details.Customer.Code)
		require.NotNil(t, details.PickList)
		assert.Equal(t, pl.ID, details.PickList.ID)
	})

	done := f.advance(t, order.ID, trade.OrderStatusPicked)
	assert.Equal(t, string(trade.OrderStatusPicked), done.Status)
	assert.True(t, dec("8").Equal(done.Items[0].QuantityPicked))

	item, err := persistence.NewGormItemRepository(f.db.DB).FindByID(context.Background(), widget.ID)
	require.NoError(t, err)
	assert.True(t, dec("2").Equal(item.Quantity), "item quantity %s", item.Quantity)

	locs, err := persistence.NewGormLocationRepository(f.db.DB).ItemLocations(context.Background(), testutil.TestTenantID(), widget.ID)
	require.NoError(t, err)
	left := map[string]decimal.Decimal{}
	for _, l := range locs {
		left[l.LocationName] = l.Quantity
	}
	assert.True(t, dec("2").Equal(left["A1"]), "A1 holds %s", left["A1"])
	assert.True(t, left["B2"].IsZero(), "B2 holds %s", left["B2"])

	completed, err := f.orders.GetPickList(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.PickListStatusCompleted), completed.Status)
}

func TestSalesOrderService_PickingFromLotsAndShortage(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	customer := f.customer(t, "acme", false)

	milk := f.item(t, "milk", nil)
	require.NoError(t, milk.SetTrackingMode(inventory.TrackingLot))
	require.NoError(t, milk.AdjustQuantity(dec("7"), "receive"))
	items := persistence.NewGormItemRepository(f.db.DB)
	require.NoError(t, items.SaveWithLock(ctx, milk))

	lots := persistence.NewGormLotRepository(f.db.DB)
	soon := time.Now().AddDate(0, 0, 5)
	later := time.Now().AddDate(0, 1, 0)
	lotLate, err := inventory.NewLot(tenantID, milk.ID, "L-LATE", dec("4"), &later, nil, nil)
	require.NoError(t, err)
	lotSoon, err := inventory.NewLot(tenantID, milk.ID, "L-SOON", dec("3"), &soon, nil, nil)
	require.NoError(t, err)
	require.NoError(t, lots.Save(ctx, lotLate))
	require.NoError(t, lots.Save(ctx, lotSoon))

	order := f.draft(t, customer.ID, OrderLineRequest{ItemID: milk.ID, Quantity: dec("9")})
	f.advance(t, order.ID, trade.OrderStatusSubmitted, trade.OrderStatusConfirmed, trade.OrderStatusPicking)

	pl, err := f.orders.GetPickList(f.ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, pl.Lines, 3)
	assert.Equal(t, "L-SOON", pl.Lines[0].LotNumber, "earliest expiry first")
	assert.Equal(t, "L-LATE", pl.Lines[1].LotNumber)
	assert.True(t, pl.Lines[2].IsShort)
	assert.True(t, dec("2").Equal(pl.Lines[2].QuantityToPick))

	// picker takes one less from the late lot
	_, err = f.picks.RecordPick(f.ctx, pl.ID, pl.Lines[0].ID, RecordPickRequest{QuantityPicked: dec("3")})
	require.NoError(t, err)
	recorded, err := f.picks.RecordPick(f.ctx, pl.ID, pl.Lines[1].ID, RecordPickRequest{QuantityPicked: dec("3")})
	require.NoError(t, err)
	assert.Equal(t, string(trade.PickListStatusInProgress), recorded.Status)
	require.NotNil(t, recorded.AssignedTo)
	assert.Equal(t, testutil.TestUserID(), *recorded.AssignedTo)

	_, err = f.picks.Complete(f.ctx, pl.ID)
	require.NoError(t, err)

	soonAfter, err := lots.FindByID(ctx, lotSoon.ID)
	require.NoError(t, err)
	assert.True(t, soonAfter.Quantity.IsZero())
	lateAfter, err := lots.FindByID(ctx, lotLate.ID)
	require.NoError(t, err)
	assert.True(t, dec("1").Equal(lateAfter.Quantity))

	item, err := items.FindByID(ctx, milk.ID)
	require.NoError(t, err)
	assert.True(t, dec("1").Equal(item.Quantity))

	details, err := f.orders.GetDetails(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.OrderStatusPicked), details.Status)
	assert.True(t, dec("6").Equal(details.Items[0].QuantityPicked))

	t.Run("back to picking plans the outstanding quantity", func(t *testing.T) {
		f.advance(t, order.ID, trade.OrderStatusPicking)
		again, err := f.orders.GetPickList(f.ctx, order.ID)
		require.NoError(t, err)
		assert.NotEqual(t, pl.ID, again.ID)
		assert.True(t, dec("3").Equal(again.TotalToPick), "to pick %s", again.TotalToPick)
	})
}

func TestSalesOrderService_CancelWhilePicking(t *testing.T) {
	f := newOrderFixture(t)
	customer := f.customer(t, "acme", false)
	widget := f.item(t, "widget", map[string]string{"A1": "5"})

	order := f.draft(t, customer.ID, OrderLineRequest{ItemID: widget.ID, Quantity: dec("2")})
	f.advance(t, order.ID, trade.OrderStatusSubmitted, trade.OrderStatusConfirmed, trade.OrderStatusPicking, trade.OrderStatusCancelled)

	pl, err := f.orders.GetPickList(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.PickListStatusCancelled), pl.Status)

	_, err = f.picks.Complete(f.ctx, pl.ID)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, shared.CodeInvalidState, de.Code)

	item, err := persistence.NewGormItemRepository(f.db.DB).FindByID(context.Background(), widget.ID)
	require.NoError(t, err)
	assert.True(t, dec("5").Equal(item.Quantity), "stock is untouched")
}

func TestSalesOrderService_Lines(t *testing.T) {
	f := newOrderFixture(t)
	customer := f.customer(t, "acme", false)
	widget := f.item(t, "widget", nil)
	rate := f.defaultRate(t, "10")

	order := f.draft(t, customer.ID, OrderLineRequest{ItemID: widget.ID, Quantity: dec("2")})
	lineID := order.Items[0].ID

	t.Run("update recalculates amounts and taxes", func(t *testing.T) {
		resp, err := f.orders.UpdateItem(f.ctx, order.ID, lineID, UpdateOrderLineRequest{Quantity: decPtr("5")})
		require.NoError(t, err)
		assert.True(t, dec("50").Equal(resp.Subtotal))
		assert.True(t, dec("5").Equal(resp.TaxTotal))
	})

	t.Run("explicit rates must exist", func(t *testing.T) {
		_, err := f.orders.UpdateItem(f.ctx, order.ID, lineID, UpdateOrderLineRequest{TaxRateIDs: []uuid.UUID{uuid.New()}})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeValidation, de.Code)
	})

	t.Run("recalculate picks up a changed rate", func(t *testing.T) {
		rates := persistence.NewGormTaxRateRepository(f.db.DB)
		require.NoError(t, rate.Update(rate.Name, rate.Code, dec("20"), rate.Type, false, true, true))
		require.NoError(t, rates.Save(context.Background(), rate))

		resp, err := f.orders.RecalculateItemTaxes(f.ctx, order.ID, lineID)
		require.NoError(t, err)
		assert.True(t, dec("10").Equal(resp.TaxTotal), "tax %s", resp.TaxTotal)
	})

	t.Run("switching to an exempt customer drops taxes", func(t *testing.T) {
		exempt := f.customer(t, "school", true)
		resp, err := f.orders.Update(f.ctx, order.ID, UpdateSalesOrderRequest{CustomerID: &exempt.ID})
		require.NoError(t, err)
		assert.True(t, resp.TaxTotal.IsZero())
		assert.Equal(t, exempt.Name, resp.CustomerName)
	})

	t.Run("remove", func(t *testing.T) {
		resp, err := f.orders.RemoveItem(f.ctx, order.ID, lineID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		assert.True(t, resp.Total.IsZero())

		_, err = f.orders.RemoveItem(f.ctx, order.ID, lineID)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestSalesOrderService_RecalculateFallsBackToDefaults(t *testing.T) {
	f := newOrderFixture(t)
	customer := f.customer(t, "acme", false)
	widget := f.item(t, "widget", nil)
	f.defaultRate(t, "10")

	rates := persistence.NewGormTaxRateRepository(f.db.DB)
	city, err := tax.NewRate(testutil.TestTenantID(), "City", "CITY", dec("5"), tax.TypeSales)
	require.NoError(t, err)
	require.NoError(t, rates.Save(context.Background(), city))

	order := f.draft(t, customer.ID, OrderLineRequest{ItemID: widget.ID, Quantity: dec("2"), TaxRateIDs: []uuid.UUID{city.ID}})
	lineID := order.Items[0].ID
	require.True(t, dec("1").Equal(order.TaxTotal), "tax %s", order.TaxTotal)

	require.NoError(t, city.Update(city.Name, city.Code, city.Percent, city.Type, false, false, false))
	require.NoError(t, rates.Save(context.Background(), city))

	resp, err := f.orders.RecalculateItemTaxes(f.ctx, order.ID, lineID)
	require.NoError(t, err)
	require.Len(t, resp.Items[0].Taxes, 1)
	assert.Equal(t, "ST", resp.Items[0].Taxes[0].TaxCode)
	assert.True(t, dec("2").Equal(resp.Items[0].TaxAmount), "line tax %s", resp.Items[0].TaxAmount)
	assert.True(t, dec("2").Equal(resp.TaxTotal), "tax %s", resp.TaxTotal)
}

func TestSalesOrderService_Delete(t *testing.T) {
	f := newOrderFixture(t)
	customer := f.customer(t, "acme", false)
	widget := f.item(t, "widget", nil)

	t.Run("draft is deleted", func(t *testing.T) {
		order := f.draft(t, customer.ID)
		require.NoError(t, f.orders.Delete(f.ctx, order.ID))
		_, err := f.orders.GetDetails(f.ctx, order.ID)
		assert.True(t, shared.IsNotFound(err))
		assert.Contains(t, f.publisher.Types(), trade.EventTypeSalesOrderDeleted)
	})

	t.Run("submitted order is kept", func(t *testing.T) {
		order := f.draft(t, customer.ID, OrderLineRequest{ItemID: widget.ID, Quantity: dec("1")})
		f.advance(t, order.ID, trade.OrderStatusSubmitted)
		err := f.orders.Delete(f.ctx, order.ID)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeInvalidState, de.Code)
	})

	t.Run("cancelled order is deleted", func(t *testing.T) {
		order := f.draft(t, customer.ID)
		f.advance(t, order.ID, trade.OrderStatusCancelled)
		assert.NoError(t, f.orders.Delete(f.ctx, order.ID))
	})
}

func TestSalesOrderService_ListAndSummary(t *testing.T) {
	f := newOrderFixture(t)
	acme := f.customer(t, "acme", false)
	globex := f.customer(t, "globex", false)
	widget := f.item(t, "widget", nil)

	f.draft(t, acme.ID)
	f.draft(t, globex.ID)
	submitted := f.draft(t, acme.ID, OrderLineRequest{ItemID: widget.ID, Quantity: dec("1")})
	f.advance(t, submitted.ID, trade.OrderStatusSubmitted)

	page, err := f.orders.List(f.ctx, SalesOrderListRequest{CustomerID: &acme.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = f.orders.List(f.ctx, SalesOrderListRequest{Status: "submitted"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, submitted.ID, page.Items[0].ID)

	_, err = f.orders.List(f.ctx, SalesOrderListRequest{Status: "bogus"})
	assert.Error(t, err)

	other, err := f.orders.List(testutil.OtherTenant(), SalesOrderListRequest{})
	require.NoError(t, err)
	assert.Zero(t, other.Total)

	summary, err := f.orders.StatusSummary(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Total)
	assert.Equal(t, int64(2), summary.Counts["draft"])
	assert.Equal(t, int64(1), summary.Counts["submitted"])
	assert.Contains(t, summary.Counts, "completed")
}

func (f *orderFixture) receiveUnlocated(t *testing.T, item *inventory.Item, qty string) {
	t.Helper()
	require.NoError(t, item.AdjustQuantity(dec(qty), "receive"))
	require.NoError(t, persistence.NewGormItemRepository(f.db.DB).SaveWithLock(context.Background(), item))
}

func (f *orderFixture) lotItem(t *testing.T, name string, lots map[string]int) *inventory.Item {
	t.Helper()
	ctx := context.Background()
	item := f.item(t, name, nil)
	require.NoError(t, item.SetTrackingMode(inventory.TrackingLot))
	repo := persistence.NewGormLotRepository(f.db.DB)
	total := decimal.Zero
	for number, days := range lots {
		expiry := time.Now().AddDate(0, 0, days)
		lot, err := inventory.NewLot(testutil.TestTenantID(), item.ID, number, dec("5"), &expiry, nil, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, lot))
		total = total.Add(lot.Quantity)
	}
	f.receiveUnlocated(t, item, total.String())
	return item
}

func TestSalesOrderService_PickingUnlocatedStock(t *testing.T) {
	ctx := context.Background()

	t.Run("item without location rows is picked in full", func(t *testing.T) {
		f := newOrderFixture(t)
		customer := f.customer(t, "acme", false)
		rope := f.item(t, "rope", nil)
		f.receiveUnlocated(t, rope, "10")

		order := f.draft(t, customer.ID, OrderLineRequest{ItemID: rope.ID, Quantity: dec("5")})
		f.advance(t, order.ID, trade.OrderStatusSubmitted, trade.OrderStatusConfirmed, trade.OrderStatusPicking)

		pl, err := f.orders.GetPickList(f.ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, pl.Lines, 1)
		assert.False(t, pl.Lines[0].IsShort)
		assert.Nil(t, pl.Lines[0].LocationID)
		assert.True(t, dec("5").Equal(pl.Lines[0].QuantityToPick))

		done := f.advance(t, order.ID, trade.OrderStatusPicked)
		assert.True(t, dec("5").Equal(done.Items[0].QuantityPicked))

		item, err := persistence.NewGormItemRepository(f.db.DB).FindByID(ctx, rope.ID)
		require.NoError(t, err)
		assert.True(t, dec("5").Equal(item.Quantity), "item quantity %s", item.Quantity)
	})

	t.Run("locations first, then unlocated stock", func(t *testing.T) {
		f := newOrderFixture(t)
		customer := f.customer(t, "acme", false)
		rope := f.item(t, "rope", map[string]string{"A1": "2"})
		f.receiveUnlocated(t, rope, "3")

		order := f.draft(t, customer.ID, OrderLineRequest{ItemID: rope.ID, Quantity: dec("6")})
		f.advance(t, order.ID, trade.OrderStatusSubmitted, trade.OrderStatusConfirmed, trade.OrderStatusPicking)

		pl, err := f.orders.GetPickList(f.ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, pl.Lines, 3)
		assert.Equal(t, "A1", pl.Lines[0].LocationName)
		assert.True(t, dec("2").Equal(pl.Lines[0].QuantityToPick))
		assert.Nil(t, pl.Lines[1].LocationID)
		assert.False(t, pl.Lines[1].IsShort)
		assert.True(t, dec("3").Equal(pl.Lines[1].QuantityToPick))
		assert.True(t, pl.Lines[2].IsShort)
		assert.True(t, dec("1").Equal(pl.Lines[2].QuantityToPick))

		f.advance(t, order.ID, trade.OrderStatusPicked)
		item, err := persistence.NewGormItemRepository(f.db.DB).FindByID(ctx, rope.ID)
		require.NoError(t, err)
		assert.True(t, item.Quantity.IsZero(), "item quantity %s", item.Quantity)
		locs, err := persistence.NewGormLocationRepository(f.db.DB).ItemLocations(ctx, testutil.TestTenantID(), rope.ID)
		require.NoError(t, err)
		assert.Empty(t, locs)
	})
}

func TestPickListService_ShortLinesTakeNoPicks(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	customer := f.customer(t, "acme", false)
	milk := f.lotItem(t, "milk", map[string]int{"L-1": 20})

	order := f.draft(t, customer.ID, OrderLineRequest{ItemID: milk.ID, Quantity: dec("7")})
	f.advance(t, order.ID, trade.OrderStatusSubmitted, trade.OrderStatusConfirmed, trade.OrderStatusPicking)

	pl, err := f.orders.GetPickList(f.ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, pl.Lines, 2)
	short := pl.Lines[1]
	require.True(t, short.IsShort)
	assert.True(t, dec("2").Equal(short.QuantityToPick))

	_, err = f.picks.RecordPick(f.ctx, pl.ID, pl.Lines[0].ID, RecordPickRequest{QuantityPicked: dec("5")})
	require.NoError(t, err)

	_, err = f.picks.RecordPick(f.ctx, pl.ID, short.ID, RecordPickRequest{QuantityPicked: dec("2")})
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, shared.CodeValidation, de.Code)

	_, err = f.picks.RecordPick(f.ctx, pl.ID, short.ID, RecordPickRequest{QuantityPicked: decimal.Zero})
	require.NoError(t, err, "zero is still accepted")

	_, err = f.picks.Complete(f.ctx, pl.ID)
	require.NoError(t, err)

	item, err := persistence.NewGormItemRepository(f.db.DB).FindByID(ctx, milk.ID)
	require.NoError(t, err)
	lots, err := persistence.NewGormLotRepository(f.db.DB).FindByItem(ctx, testutil.TestTenantID(), milk.ID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.True(t, lots[0].Quantity.IsZero(), "lot %s", lots[0].Quantity)
	assert.True(t, item.Quantity.Equal(lots[0].Quantity), "item %s, lot %s", item.Quantity, lots[0].Quantity)
}

func TestSalesOrderService_PickingHonoursExpiryGuard(t *testing.T) {
	const guardDays = 7
	f := newOrderFixture(t, trade.WithExpiryGuard(guardDays))
	customer := f.customer(t, "acme", false)
	milk := f.lotItem(t, "milk", map[string]int{"L-SOON": 3, "L-LATER": 30})

	order := f.draft(t, customer.ID, OrderLineRequest{ItemID: milk.ID, Quantity: dec("4")})
	f.advance(t, order.ID, trade.OrderStatusSubmitted, trade.OrderStatusConfirmed, trade.OrderStatusPicking)

	pl, err := f.orders.GetPickList(f.ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, pl.Lines, 1)
	assert.Equal(t, "L-LATER", pl.Lines[0].LotNumber, "lot inside the guard window is skipped")

	items := inventoryapp.NewItemService(
		persistence.NewGormItemRepository(f.db.DB),
		persistence.NewGormFolderRepository(f.db.DB),
		persistence.NewGormLocationRepository(f.db.DB),
		persistence.NewGormLotRepository(f.db.DB),
		persistence.NewGormSerialRepository(f.db.DB),
		persistence.NewGormTransactionScope(f.db.DB),
		f.publisher,
		inventoryapp.ItemServiceConfig{Allocator: batch.NewFEFO(), FEFOGuardDays: guardDays},
	)
	suggestion, err := items.FEFO(f.ctx, milk.ID, inventoryapp.FEFORequest{Quantity: dec("4")})
	require.NoError(t, err)
	require.Len(t, suggestion.Picks, 1)
	assert.Equal(t, pl.Lines[0].LotNumber, suggestion.Picks[0].LotNumber, "preview and pick list agree")
}

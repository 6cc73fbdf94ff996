package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/tax"
	"github.com/stockroom/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, tenantID uuid.UUID, displayID string) *trade.SalesOrder {
	t.Helper()
	o, err := trade.NewSalesOrder(tenantID, displayID)
	require.NoError(t, err)
	return o
}

func addTestLine(t *testing.T, o *trade.SalesOrder, name string, qty, price int64) *trade.SalesOrderItem {
	t.Helper()
	line, err := o.AddItem(trade.LineInput{
		ItemID:    uuid.New(),
		ItemName:  name,
		Quantity:  decimal.NewFromInt(qty),
		UnitPrice: decimal.NewFromInt(price),
	})
	require.NoError(t, err)
	return line
}

func TestGormSalesOrderRepository_SaveWithLinesAndTaxes(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	order := newTestOrder(t, tenantID, "SO-00001")
	first := addTestLine(t, order, "Widget", 2, 10)
	firstID := first.ID
	addTestLine(t, order, "Gadget", 1, 5)

	rate, err := tax.NewRate(tenantID, "State", "ST", decimal.NewFromInt(10), tax.TypeSales)
	require.NoError(t, err)
	taxes, total := tax.Calculate(order.GetItem(firstID).TaxableAmount(), []tax.Rate{*rate}, false)
	require.NoError(t, order.SetItemTaxes(firstID, taxes, total))
	require.NoError(t, repo.Save(ctx, order))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "Widget", loaded.Items[0].ItemName)
	assert.Equal(t, "Gadget", loaded.Items[1].ItemName)
	require.Len(t, loaded.Items[0].Taxes, 1)
	assert.True(t, decimal.NewFromInt(2).Equal(loaded.Items[0].Taxes[0].TaxAmount))
	assert.True(t, decimal.NewFromInt(27).Equal(loaded.Total), "total was %s", loaded.Total)

	t.Run("removed lines and their taxes are deleted", func(t *testing.T) {
		require.NoError(t, loaded.RemoveItem(firstID))
		require.NoError(t, repo.SaveWithLock(ctx, loaded))

		again, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, again.Items, 1)
		assert.Equal(t, "Gadget", again.Items[0].ItemName)
		assert.Empty(t, again.Items[0].Taxes)
		assert.Equal(t, loaded.Version, again.Version)
	})
}

func TestGormSalesOrderRepository_SaveWithLockConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	ctx := context.Background()

	order := newTestOrder(t, uuid.New(), "SO-00001")
	addTestLine(t, order, "Widget", 1, 1)
	require.NoError(t, repo.Save(ctx, order))

	a, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	b, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	a.SetNotes("first")
	require.NoError(t, repo.SaveWithLock(ctx, a))

	addTestLine(t, b, "Late line", 1, 1)
	err = repo.SaveWithLock(ctx, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrConcurrentModification))

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", stored.Notes)
	assert.Len(t, stored.Items, 1, "lines of the rejected save must be rolled back")
}

func TestGormSalesOrderRepository_FindAllForTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	customers := NewGormCustomerRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	cust := newTestCustomer(t, tenantID, "C1", "Customer One")
	require.NoError(t, customers.Save(ctx, cust))

	withCustomer := newTestOrder(t, tenantID, "SO-00001")
	require.NoError(t, withCustomer.SetCustomer(cust))
	addTestLine(t, withCustomer, "Widget", 1, 1)
	require.NoError(t, withCustomer.TransitionTo(trade.OrderStatusSubmitted, ""))
	require.NoError(t, repo.Save(ctx, withCustomer))

	old := newTestOrder(t, tenantID, "SO-00002")
	require.NoError(t, old.SetSchedule(time.Now().AddDate(0, -2, 0), nil, nil))
	require.NoError(t, repo.Save(ctx, old))

	require.NoError(t, repo.Save(ctx, newTestOrder(t, uuid.New(), "SO-00001")))

	tests := []struct {
		name   string
		filter shared.Filter
		want   int
	}{
		{"tenant only", shared.Filter{}, 2},
		{"status", shared.Filter{Filters: map[string]interface{}{"status": "submitted"}}, 1},
		{"customer", shared.Filter{Filters: map[string]interface{}{"customer_id": cust.ID.String()}}, 1},
		{"date range", shared.Filter{Filters: map[string]interface{}{"from": time.Now().AddDate(0, 0, -7)}}, 1},
		{"search display id", shared.Filter{Search: "00002"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := repo.FindAllForTenant(ctx, tenantID, tt.filter)
			require.NoError(t, err)
			assert.Len(t, list, tt.want)
			count, err := repo.CountForTenant(ctx, tenantID, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(tt.want), count)
		})
	}
}

func TestGormPickListRepository(t *testing.T) {
	db := newTestDB(t)
	orders := NewGormSalesOrderRepository(db)
	repo := NewGormPickListRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	order := newTestOrder(t, tenantID, "SO-00001")
	line := addTestLine(t, order, "Widget", 3, 1)
	require.NoError(t, orders.Save(ctx, order))

	pl, err := trade.NewPickList(tenantID, "PL-00001", order.ID)
	require.NoError(t, err)
	pl.AddLine(trade.PickListLine{SalesOrderItemID: line.ID, ItemID: line.ItemID, ItemName: "Widget", QuantityToPick: decimal.NewFromInt(2)})
	pl.AddLine(trade.PickListLine{SalesOrderItemID: line.ID, ItemID: line.ItemID, ItemName: "Widget", QuantityToPick: decimal.NewFromInt(1), IsShort: true})
	require.NoError(t, repo.Save(ctx, pl))

	active, err := repo.FindActiveByOrder(ctx, tenantID, order.ID)
	require.NoError(t, err)
	require.Len(t, active.Lines, 2)
	assert.False(t, active.Lines[0].IsShort)
	assert.True(t, active.Lines[1].IsShort)

	require.NoError(t, active.Complete())
	require.NoError(t, repo.Save(ctx, active))

	_, err = repo.FindActiveByOrder(ctx, tenantID, order.ID)
	assert.True(t, shared.IsNotFound(err))

	latest, err := repo.FindLatestByOrder(ctx, tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.PickListStatusCompleted, latest.Status)
	assert.True(t, decimal.NewFromInt(2).Equal(latest.Lines[0].QuantityPicked))
}

func TestGormPickListRepository_SaveWithLock(t *testing.T) {
	db := newTestDB(t)
	orders := NewGormSalesOrderRepository(db)
	repo := NewGormPickListRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	order := newTestOrder(t, tenantID, "SO-00001")
	line := addTestLine(t, order, "Widget", 3, 1)
	require.NoError(t, orders.Save(ctx, order))

	pl, err := trade.NewPickList(tenantID, "PL-00001", order.ID)
	require.NoError(t, err)
	pl.AddLine(trade.PickListLine{SalesOrderItemID: line.ID, ItemID: line.ItemID, ItemName: "Widget", QuantityToPick: decimal.NewFromInt(3)})
	require.NoError(t, repo.Save(ctx, pl))

	first, err := repo.FindByID(ctx, pl.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, pl.ID)
	require.NoError(t, err)

	require.NoError(t, first.RecordPick(first.Lines[0].ID, decimal.NewFromInt(2)))
	require.NoError(t, repo.SaveWithLock(ctx, first))
	assert.Equal(t, pl.Version+1, first.Version)

	require.NoError(t, second.RecordPick(second.Lines[0].ID, decimal.NewFromInt(1)))
	err = repo.SaveWithLock(ctx, second)
	assert.True(t, errors.Is(err, shared.ErrConcurrentModification))

	stored, err := repo.FindByID(ctx, pl.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(stored.Lines[0].QuantityPicked), "first pick survives")
}

package telemetry_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/trade"
	"github.com/stockroom/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*telemetry.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := telemetry.NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return bm, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(nil)
	require.Error(t, err)
	assert.Nil(t, bm)
}

func TestBusinessMetrics_OrderEvents(t *testing.T) {
	bm, reader := newTestMetrics(t)
	ctx := context.Background()

	order, err := trade.NewSalesOrder(uuid.New(), "SO-00001")
	require.NoError(t, err)

	require.NoError(t, bm.Handle(ctx, trade.NewSalesOrderCreatedEvent(order)))
	require.NoError(t, bm.Handle(ctx, trade.NewSalesOrderStatusChangedEvent(order, trade.OrderStatusDraft, trade.OrderStatusSubmitted)))
	require.NoError(t, bm.Handle(ctx, trade.NewSalesOrderStatusChangedEvent(order, trade.OrderStatusSubmitted, trade.OrderStatusConfirmed)))

	metrics := collect(t, reader)
	assert.Equal(t, int64(1), sumOf(t, metrics["stockroom.sales_orders.created"]))
	assert.Equal(t, int64(2), sumOf(t, metrics["stockroom.sales_orders.transitions"]))

	sum := metrics["stockroom.sales_orders.transitions"].Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 2)
	for _, dp := range sum.DataPoints {
		from, ok := dp.Attributes.Value(attribute.Key(telemetry.AttrFrom))
		require.True(t, ok)
		assert.Contains(t, []string{"draft", "submitted"}, from.AsString())
	}
}

func TestBusinessMetrics_StockAdjustmentDirection(t *testing.T) {
	bm, reader := newTestMetrics(t)
	ctx := context.Background()

	item, err := inventory.NewItem(uuid.New(), "ITM-00001", "Widget", "W-1", "pcs")
	require.NoError(t, err)

	require.NoError(t, bm.Handle(ctx, inventory.NewItemQuantityAdjustedEvent(item, decimal.NewFromInt(10), decimal.NewFromInt(4), "sold")))
	require.NoError(t, bm.Handle(ctx, inventory.NewItemQuantityAdjustedEvent(item, decimal.NewFromInt(4), decimal.NewFromInt(9), "received")))

	metrics := collect(t, reader)
	sum := metrics["stockroom.stock.adjustments"].Data.(metricdata.Sum[int64])
	byDirection := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key(telemetry.AttrDirection))
		byDirection[v.AsString()] += dp.Value
	}
	assert.Equal(t, map[string]int64{"in": 1, "out": 1}, byDirection)

	hist := metrics["stockroom.stock.adjusted_quantity"].Data.(metricdata.Histogram[float64])
	var total float64
	for _, dp := range hist.DataPoints {
		total += dp.Sum
	}
	assert.InDelta(t, 11.0, total, 0.0001)
}

func TestBusinessMetrics_StockCountOnlyCountsCompletion(t *testing.T) {
	bm, reader := newTestMetrics(t)
	ctx := context.Background()

	sc, err := inventory.NewStockCount(uuid.New(), "SC-00001", "Cycle count", inventory.ScopeAll, nil)
	require.NoError(t, err)
	require.NoError(t, bm.Handle(ctx, inventory.NewStockCountStatusChangedEvent(sc, inventory.StockCountDraft)))

	sc.Status = inventory.StockCountCompleted
	require.NoError(t, bm.Handle(ctx, inventory.NewStockCountStatusChangedEvent(sc, inventory.StockCountReview)))

	assert.Equal(t, int64(1), sumOf(t, collect(t, reader)["stockroom.stock_counts.completed"]))
}

func TestBusinessMetrics_EventTypes(t *testing.T) {
	bm, _ := newTestMetrics(t)
	assert.Contains(t, bm.EventTypes(), trade.EventTypeSalesOrderStatusChanged)
	assert.Contains(t, bm.EventTypes(), inventory.EventTypeItemQuantityAdjusted)
}

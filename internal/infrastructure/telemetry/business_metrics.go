package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	AttrTenantID  = "tenant_id"
	AttrFrom      = "from"
	AttrTo        = "to"
	AttrDirection = "direction"
)

// BusinessMetrics turns domain events into counters. It subscribes to the event
// bus, so recording never sits on a request's critical path.
type BusinessMetrics struct {
	ordersCreated     metric.Int64Counter
	orderTransitions  metric.Int64Counter
	pickListsCreated  metric.Int64Counter
	pickShortLines    metric.Int64Counter
	pickListsDone     metric.Int64Counter
	stockAdjustments  metric.Int64Counter
	adjustedQuantity  metric.Float64Histogram
	stockCountsClosed metric.Int64Counter
}

// NewBusinessMetrics registers the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewBusinessMetrics: meter cannot be nil")
	}

	var (
		bm   BusinessMetrics
		errs []error
	)
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("{count}"))
		if err != nil {
			errs = append(errs, fmt.Errorf("counter %s: %w", name, err))
		}
		return c
	}

	bm.ordersCreated = counter("stockroom.sales_orders.created", "Sales orders created")
	bm.orderTransitions = counter("stockroom.sales_orders.transitions", "Sales order status changes")
	bm.pickListsCreated = counter("stockroom.pick_lists.generated", "Pick lists generated")
	bm.pickShortLines = counter("stockroom.pick_lists.short_lines", "Pick list lines without enough stock")
	bm.pickListsDone = counter("stockroom.pick_lists.completed", "Pick lists completed")
	bm.stockAdjustments = counter("stockroom.stock.adjustments", "Item quantity changes")
	bm.stockCountsClosed = counter("stockroom.stock_counts.completed", "Stock counts completed")

	h, err := meter.Float64Histogram("stockroom.stock.adjusted_quantity",
		metric.WithDescription("Absolute quantity moved per adjustment"),
		metric.WithUnit("{unit}"))
	if err != nil {
		errs = append(errs, fmt.Errorf("histogram stockroom.stock.adjusted_quantity: %w", err))
	}
	bm.adjustedQuantity = h

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &bm, nil
}

// EventTypes lists the events the metrics react to
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		trade.EventTypeSalesOrderCreated,
		trade.EventTypeSalesOrderStatusChanged,
		trade.EventTypePickListGenerated,
		trade.EventTypePickListCompleted,
		inventory.EventTypeItemQuantityAdjusted,
		inventory.EventTypeStockCountStatusChanged,
	}
}

// Handle records one event. Unknown events are ignored.
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenant := attribute.String(AttrTenantID, event.TenantID().String())

	switch e := event.(type) {
	case *trade.SalesOrderCreatedEvent:
		bm.ordersCreated.Add(ctx, 1, metric.WithAttributes(tenant))
	case *trade.SalesOrderStatusChangedEvent:
		bm.orderTransitions.Add(ctx, 1, metric.WithAttributes(tenant,
			attribute.String(AttrFrom, string(e.From)),
			attribute.String(AttrTo, string(e.To))))
	case *trade.PickListGeneratedEvent:
		bm.pickListsCreated.Add(ctx, 1, metric.WithAttributes(tenant))
		if e.ShortLines > 0 {
			bm.pickShortLines.Add(ctx, int64(e.ShortLines), metric.WithAttributes(tenant))
		}
	case *trade.PickListCompletedEvent:
		bm.pickListsDone.Add(ctx, 1, metric.WithAttributes(tenant))
	case *inventory.ItemQuantityAdjustedEvent:
		delta := e.QuantityAfter.Sub(e.QuantityBefore)
		direction := "in"
		if delta.IsNegative() {
			direction = "out"
		}
		attrs := metric.WithAttributes(tenant, attribute.String(AttrDirection, direction))
		bm.stockAdjustments.Add(ctx, 1, attrs)
		bm.adjustedQuantity.Record(ctx, delta.Abs().InexactFloat64(), attrs)
	case *inventory.StockCountStatusChangedEvent:
		if e.ToStatus == inventory.StockCountCompleted {
			bm.stockCountsClosed.Add(ctx, 1, metric.WithAttributes(tenant))
		}
	}
	return nil
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)

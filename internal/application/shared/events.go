package shared

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/activity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// EventSource is an aggregate with pending domain events
type EventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// EventCollector gathers events inside a transaction so they can be published
// once it has committed.
type EventCollector struct {
	events []shared.DomainEvent
}

// Collect takes the pending events of every source
func (c *EventCollector) Collect(sources ...EventSource) {
	for _, s := range sources {
		if s == nil {
			continue
		}
		c.events = append(c.events, s.GetDomainEvents()...)
		s.ClearDomainEvents()
	}
}

// Add appends events that do not belong to a loaded aggregate
func (c *EventCollector) Add(events ...shared.DomainEvent) {
	c.events = append(c.events, events...)
}

// Publish hands the collected events to pub. Subscribers are best-effort: a
// failure is logged and never reaches the caller.
func (c *EventCollector) Publish(ctx context.Context, pub shared.EventPublisher) {
	if pub == nil || len(c.events) == 0 {
		return
	}
	events := c.events
	c.events = nil
	if err := pub.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("Publishing domain events failed", zap.Int("count", len(events)), zap.Error(err))
	}
}

// PublishEvents publishes the pending events of sources right away
func PublishEvents(ctx context.Context, pub shared.EventPublisher, sources ...EventSource) {
	var c EventCollector
	c.Collect(sources...)
	c.Publish(ctx, pub)
}

// ActivityRecorder logs actions that raise no domain event
type ActivityRecorder interface {
	Record(ctx context.Context, entityType string, entityID uuid.UUID, entityName string, action activity.Action, changes map[string]any)
}

// RecordActivity writes through r when one is configured
func RecordActivity(ctx context.Context, r ActivityRecorder, entityType string, entityID uuid.UUID, entityName string, action activity.Action, changes map[string]any) {
	if r == nil {
		return
	}
	r.Record(ctx, entityType, entityID, entityName, action, changes)
}

// Package event delivers domain events to in-process subscribers after the
// producing transaction has committed.
package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// HandlerFunc adapts a function to shared.EventHandler
type HandlerFunc struct {
	Types []string
	Fn    func(ctx context.Context, e shared.DomainEvent) error
}

func (h *HandlerFunc) Handle(ctx context.Context, e shared.DomainEvent) error { return h.Fn(ctx, e) }
func (h *HandlerFunc) EventTypes() []string                                  { return h.Types }

// Bus dispatches synchronously. Subscribers are side effects such as activity
// logging and metrics: a failing or panicking handler is logged and never
// fails the publisher or blocks the other handlers.
type Bus struct {
	reg     *registry
	log     *zap.Logger
	running atomic.Bool
	failed  atomic.Int64
}

// NewBus creates a bus. Publish works before Start; Stop makes Publish a no-op.
func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Bus{reg: newRegistry(), log: log.Named("events")}
	b.running.Store(true)
	return b
}

// Publish delivers events in order
func (b *Bus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.running.Load() {
		return nil
	}
	for _, e := range events {
		for _, h := range b.reg.handlers(e.EventType()) {
			if err := b.dispatch(ctx, h, e); err != nil {
				b.failed.Add(1)
				logger.Enrich(ctx, b.log).Warn("event handler failed",
					zap.String("event_type", e.EventType()),
					zap.String("event_id", e.EventID().String()),
					zap.String("aggregate_id", e.AggregateID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers h for eventTypes, or for h.EventTypes() when none are given
func (b *Bus) Subscribe(h shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = h.EventTypes()
	}
	b.reg.add(h, eventTypes...)
	b.log.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes h from every event type
func (b *Bus) Unsubscribe(h shared.EventHandler) {
	b.reg.remove(h)
}

func (b *Bus) Start(context.Context) error {
	b.running.Store(true)
	return nil
}

func (b *Bus) Stop(context.Context) error {
	b.running.Store(false)
	if n := b.failed.Load(); n > 0 {
		b.log.Info("event bus stopped", zap.Int64("failed_deliveries", n))
	}
	return nil
}

// Failed returns how many deliveries returned an error or panicked
func (b *Bus) Failed() int64 {
	return b.failed.Load()
}

func (b *Bus) dispatch(ctx context.Context, h shared.EventHandler, e shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, e)
}

var _ shared.EventBus = (*Bus)(nil)

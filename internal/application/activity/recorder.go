// Package activity writes and reads the tenant audit trail.
package activity

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	"github.com/stockroom/backend/internal/domain/activity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Recorder turns domain events into activity rows. It subscribes to every
// event type; a failed write is logged and swallowed.
type Recorder struct {
	logs activity.Repository
}

// NewRecorder creates a recorder writing to logs
func NewRecorder(logs activity.Repository) *Recorder {
	return &Recorder{logs: logs}
}

// EventTypes returns nil: the recorder wants all events
func (r *Recorder) EventTypes() []string {
	return nil
}

// Handle stores one row per event
func (r *Recorder) Handle(ctx context.Context, e shared.DomainEvent) error {
	changes := payload(e)
	var userID *uuid.UUID
	if auth, err := guard.FromContext(ctx); err == nil {
		userID = &auth.UserID
	}

	log := activity.NewLog(e.TenantID(), userID, e.AggregateType(), e.AggregateID(), entityName(changes), actionFor(e.EventType(), changes), changes)
	log.CreatedAt = e.OccurredAt()
	if err := r.logs.Create(ctx, log); err != nil {
		logger.L(ctx).Warn("Recording activity failed",
			zap.String("event_type", e.EventType()),
			zap.String("entity_id", e.AggregateID().String()),
			zap.Error(err),
		)
	}
	return nil
}

// Record writes a row for an action that has no domain event
func (r *Recorder) Record(ctx context.Context, entityType string, entityID uuid.UUID, entityName string, action activity.Action, changes map[string]any) {
	auth, err := guard.FromContext(ctx)
	if err != nil {
		return
	}
	log := activity.NewLog(auth.TenantID, &auth.UserID, entityType, entityID, entityName, action, changes)
	if err := r.logs.Create(ctx, log); err != nil {
		logger.L(ctx).Warn("Recording activity failed", zap.String("entity_id", entityID.String()), zap.Error(err))
	}
}

var baseFields = []string{"id", "type", "timestamp", "aggregate_id", "aggregate_type", "tenant_id"}

// payload returns the event-specific fields
func payload(e shared.DomainEvent) map[string]any {
	fields := map[string]any{}
	raw, err := json.Marshal(e)
	if err != nil {
		return fields
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return map[string]any{}
	}
	for _, k := range baseFields {
		delete(fields, k)
	}
	return fields
}

func entityName(changes map[string]any) string {
	for _, key := range []string{"display_id", "name", "code"} {
		if s, ok := changes[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func actionFor(eventType string, changes map[string]any) activity.Action {
	switch {
	case strings.HasSuffix(eventType, "QuantityAdjusted"):
		return activity.ActionAdjusted
	case strings.HasSuffix(eventType, "StatusChanged"):
		if active, ok := changes["is_active"].(bool); ok {
			if active {
				return activity.ActionActivated
			}
			return activity.ActionDeactivated
		}
		return activity.ActionStatusChanged
	case strings.HasSuffix(eventType, "Completed"):
		return activity.ActionStatusChanged
	case strings.HasSuffix(eventType, "Created"), strings.HasSuffix(eventType, "Generated"):
		return activity.ActionCreated
	case strings.HasSuffix(eventType, "Deleted"):
		return activity.ActionDeleted
	case strings.HasSuffix(eventType, "Moved"):
		return activity.ActionMoved
	default:
		return activity.ActionUpdated
	}
}

var _ shared.EventHandler = (*Recorder)(nil)

package activity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Action names what happened to an entity
type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionDeleted       Action = "deleted"
	ActionStatusChanged Action = "status_changed"
	ActionAdjusted      Action = "quantity_adjusted"
	ActionDeactivated   Action = "deactivated"
	ActionActivated     Action = "activated"
	ActionMoved         Action = "moved"
	ActionImageAdded    Action = "image_added"
	ActionImageRemoved  Action = "image_removed"
)

// Log is an append-only audit row
type Log struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	UserID     *uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	EntityName string
	Action     Action
	Changes    map[string]any
	CreatedAt  time.Time
}

// NewLog builds a log row. A nil user means a system action.
func NewLog(tenantID uuid.UUID, userID *uuid.UUID, entityType string, entityID uuid.UUID, entityName string, action Action, changes map[string]any) *Log {
	if changes == nil {
		changes = map[string]any{}
	}
	return &Log{
		ID:         uuid.New(),
		TenantID:   tenantID,
		UserID:     userID,
		EntityType: strings.ToLower(entityType),
		EntityID:   entityID,
		EntityName: entityName,
		Action:     action,
		Changes:    changes,
		CreatedAt:  time.Now(),
	}
}

// Query selects log rows for a tenant
type Query struct {
	EntityType string
	EntityID   *uuid.UUID
	UserID     *uuid.UUID
	Since      *time.Time
	Limit      int
	Offset     int
}

// Normalize clamps the limit to 1..200, defaulting to 50
func (q Query) Normalize() Query {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// Repository stores activity rows
type Repository interface {
	Create(ctx context.Context, log *Log) error
	// List returns rows newest first
	List(ctx context.Context, tenantID uuid.UUID, q Query) ([]Log, int64, error)
}

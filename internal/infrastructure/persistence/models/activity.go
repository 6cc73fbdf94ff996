package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/activity"
)

// ActivityLogModel is an append-only audit row
type ActivityLogModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserID     *uuid.UUID     `gorm:"type:uuid"`
	EntityType string         `gorm:"type:varchar(40);not null"`
	EntityID   uuid.UUID      `gorm:"type:uuid;not null"`
	EntityName string         `gorm:"type:varchar(255);not null;default:''"`
	Action     string         `gorm:"type:varchar(40);not null"`
	Changes    map[string]any `gorm:"serializer:json"`
	CreatedAt  time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// ToDomain converts the model to a domain Log
func (m *ActivityLogModel) ToDomain() activity.Log {
	changes := m.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	return activity.Log{
		ID:         m.ID,
		TenantID:   m.TenantID,
		UserID:     m.UserID,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		EntityName: m.EntityName,
		Action:     activity.Action(m.Action),
		Changes:    changes,
		CreatedAt:  m.CreatedAt,
	}
}

// ActivityLogModelFromDomain converts a domain Log to the model
func ActivityLogModelFromDomain(l *activity.Log) *ActivityLogModel {
	changes := l.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	return &ActivityLogModel{
		ID:         l.ID,
		TenantID:   l.TenantID,
		UserID:     l.UserID,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		EntityName: l.EntityName,
		Action:     string(l.Action),
		Changes:    changes,
		CreatedAt:  l.CreatedAt,
	}
}

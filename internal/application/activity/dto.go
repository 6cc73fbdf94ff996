package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/activity"
)

// ListRequest binds the recent activity query
type ListRequest struct {
	EntityType string     `form:"entity_type" binding:"omitempty,max=50"`
	UserID     *uuid.UUID `form:"user_id"`
	Since      *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit      int        `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset     int        `form:"offset" binding:"omitempty,min=0"`
}

// EntityRequest binds the paging of an entity's history
type EntityRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// LogResponse is an activity row in API responses
type LogResponse struct {
	ID         uuid.UUID      `json:"id"`
	UserID     *uuid.UUID     `json:"user_id,omitempty"`
	EntityType string         `json:"entity_type"`
	EntityID   uuid.UUID      `json:"entity_id"`
	EntityName string         `json:"entity_name"`
	Action     string         `json:"action"`
	Changes    map[string]any `json:"changes"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ListResponse is a page of activity
type ListResponse struct {
	Items  []LogResponse `json:"items"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func toLogResponses(logs []activity.Log) []LogResponse {
	out := make([]LogResponse, len(logs))
	for i, l := range logs {
		out[i] = LogResponse{
			ID:         l.ID,
			UserID:     l.UserID,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Action:     string(l.Action),
			Changes:    l.Changes,
			CreatedAt:  l.CreatedAt,
		}
	}
	return out
}

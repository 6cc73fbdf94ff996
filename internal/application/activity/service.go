package activity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	"github.com/stockroom/backend/internal/domain/activity"
	"github.com/stockroom/backend/internal/domain/identity"
)

// Service lists activity of the caller's tenant
type Service struct {
	logs activity.Repository
}

// NewService creates a new Service
func NewService(logs activity.Repository) *Service {
	return &Service{logs: logs}
}

// Recent returns the newest activity of the tenant
func (s *Service) Recent(ctx context.Context, req ListRequest) (*ListResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, auth, activity.Query{
		EntityType: strings.ToLower(req.EntityType),
		UserID:     req.UserID,
		Since:      req.Since,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
}

// ForEntity returns the history of one entity. Unknown or foreign ids yield an empty page.
func (s *Service) ForEntity(ctx context.Context, entityType string, entityID uuid.UUID, req EntityRequest) (*ListResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, auth, activity.Query{
		EntityType: strings.ToLower(entityType),
		EntityID:   &entityID,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
}

func (s *Service) list(ctx context.Context, auth *guard.AuthContext, q activity.Query) (*ListResponse, error) {
	q = q.Normalize()
	logs, total, err := s.logs.List(ctx, auth.TenantID, q)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Items: toLogResponses(logs), Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/activity"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// ImageStore presigns and removes item image objects
type ImageStore interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error)
	PresignDownload(ctx context.Context, key string) (string, time.Time, error)
	Delete(ctx context.Context, key string) error
	MaxImageSize() int64
}

const activityEntityItem = "item"

func (s *ItemService) imageStore() ImageStore {
	if s.images == nil {
		return storage.Disabled{}
	}
	return s.images
}

// ImageUploadURL presigns a PUT for a new image and records its key on the
// item. The previous object, if any, is removed.
func (s *ItemService) ImageUploadURL(ctx context.Context, id uuid.UUID, req ImageUploadRequest) (*ImageUploadResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}
	item, err := guard.Own[*inventory.Item](auth, resourceItem)(s.items.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}

	key, err := storage.ImageKey(auth.TenantID, item.ID, req.ContentType)
	if err != nil {
		return nil, err
	}
	store := s.imageStore()
	url, expires, err := store.PresignUpload(ctx, key, req.ContentType)
	if err != nil {
		return nil, err
	}

	previous := item.ImageKey
	item.SetImageKey(key)
	if err := s.items.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	appshared.RecordActivity(ctx, s.activity, activityEntityItem, item.ID, item.DisplayID, activity.ActionImageAdded,
		map[string]any{"key": key, "content_type": req.ContentType})
	s.removeObject(ctx, store, auth.TenantID, previous)

	return &ImageUploadResponse{
		UploadURL: url,
		Key:       key,
		ExpiresAt: expires,
		MaxSize:   store.MaxImageSize(),
	}, nil
}

// ImageURL presigns a GET for the item image
func (s *ItemService) ImageURL(ctx context.Context, id uuid.UUID) (*ImageURLResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	item, err := guard.Own[*inventory.Item](auth, resourceItem)(s.items.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	if item.ImageKey == "" || !storage.BelongsToTenant(item.ImageKey, auth.TenantID) {
		return nil, shared.NewNotFoundError("Item image")
	}
	url, expires, err := s.imageStore().PresignDownload(ctx, item.ImageKey)
	if err != nil {
		return nil, err
	}
	return &ImageURLResponse{URL: url, ExpiresAt: expires}, nil
}

// DeleteImage clears the image key and removes the object
func (s *ItemService) DeleteImage(ctx context.Context, id uuid.UUID) error {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return err
	}
	item, err := guard.Own[*inventory.Item](auth, resourceItem)(s.items.FindByID(ctx, id))
	if err != nil {
		return err
	}
	if item.ImageKey == "" {
		return shared.NewNotFoundError("Item image")
	}
	key := item.ImageKey
	item.SetImageKey("")
	if err := s.items.SaveWithLock(ctx, item); err != nil {
		return err
	}
	appshared.RecordActivity(ctx, s.activity, activityEntityItem, item.ID, item.DisplayID, activity.ActionImageRemoved,
		map[string]any{"key": key})
	s.removeObject(ctx, s.imageStore(), auth.TenantID, key)
	return nil
}

// removeObject deletes an object of the tenant. Failures leave an orphan and are only logged.
func (s *ItemService) removeObject(ctx context.Context, store ImageStore, tenantID uuid.UUID, key string) {
	if key == "" || !storage.BelongsToTenant(key, tenantID) {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		logger.L(ctx).Warn("Removing item image failed", zap.String("key", key), zap.Error(err))
	}
}

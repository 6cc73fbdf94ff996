package storage

import (
	"context"
	"time"

	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Disabled is used when no object storage is configured. Presigning fails with
// STORAGE_DISABLED; deletes succeed so item deletion never blocks on storage.
type Disabled struct{}

func (Disabled) PresignUpload(context.Context, string, string) (string, time.Time, error) {
	return "", time.Time{}, shared.ErrStorageDisabled
}

func (Disabled) PresignDownload(context.Context, string) (string, time.Time, error) {
	return "", time.Time{}, shared.ErrStorageDisabled
}

func (Disabled) Delete(context.Context, string) error { return nil }

func (Disabled) MaxImageSize() int64 { return 0 }

// ImageStore is what item image handling needs from object storage
type ImageStore interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error)
	PresignDownload(ctx context.Context, key string) (string, time.Time, error)
	Delete(ctx context.Context, key string) error
	MaxImageSize() int64
}

// New returns an S3 store when storage is enabled and Disabled otherwise.
// The bucket is created on first start.
func New(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (ImageStore, error) {
	if !cfg.Enabled {
		return Disabled{}, nil
	}
	s, err := NewS3(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

var (
	_ ImageStore = Disabled{}
	_ ImageStore = (*S3)(nil)
)

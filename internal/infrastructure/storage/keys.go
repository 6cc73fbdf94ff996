// Package storage keeps item images in S3-compatible object storage.
package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ImageKey builds a fresh object key for an item image. Keys are namespaced by
// tenant so a bucket listing never mixes tenants.
func ImageKey(tenantID, itemID uuid.UUID, contentType string) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", shared.NewValidationError("Image must be JPEG, PNG, WebP or GIF")
	}
	return fmt.Sprintf("tenants/%s/items/%s/%s.%s", tenantID, itemID, uuid.NewString(), ext), nil
}

// BelongsToTenant reports whether key lives under the tenant's prefix
func BelongsToTenant(key string, tenantID uuid.UUID) bool {
	return strings.HasPrefix(key, "tenants/"+tenantID.String()+"/")
}

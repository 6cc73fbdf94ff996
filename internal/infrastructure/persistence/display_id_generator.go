package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDisplayIDGenerator hands out display IDs from the display_id_sequences table.
// The sequence row is locked for the duration of the increment, so concurrent
// callers of the same tenant and entity type are serialized.
type GormDisplayIDGenerator struct {
	db *gorm.DB
}

// NewGormDisplayIDGenerator creates a new GormDisplayIDGenerator
func NewGormDisplayIDGenerator(db *gorm.DB) *GormDisplayIDGenerator {
	return &GormDisplayIDGenerator{db: db}
}

// Next returns the next display ID for the tenant and entity type
func (g *GormDisplayIDGenerator) Next(ctx context.Context, tenantID uuid.UUID, entity shared.EntityType) (string, error) {
	if tenantID == uuid.Nil {
		return "", shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	if entity.Prefix() == "" {
		return "", fmt.Errorf("display id: unknown entity type %q", entity)
	}

	var seq int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		first := models.DisplayIDSequenceModel{TenantID: tenantID, EntityType: string(entity), NextValue: 1, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&first).Error; err != nil {
			return err
		}

		var row models.DisplayIDSequenceModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND entity_type = ?", tenantID, string(entity)).
			Take(&row).Error; err != nil {
			return err
		}
		seq = row.NextValue
		return tx.Model(&models.DisplayIDSequenceModel{}).
			Where("tenant_id = ? AND entity_type = ?", tenantID, string(entity)).
			Updates(map[string]any{"next_value": seq + 1, "updated_at": now}).Error
	})
	if err != nil {
		return "", err
	}
	return shared.FormatDisplayID(entity, seq), nil
}

var _ shared.DisplayIDGenerator = (*GormDisplayIDGenerator)(nil)

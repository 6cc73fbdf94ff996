package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormDisplayIDGenerator_Next(t *testing.T) {
	db := newTestDB(t)
	gen := NewGormDisplayIDGenerator(db)
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()

	next := func(tenantID uuid.UUID, entity shared.EntityType) string {
		id, err := gen.Next(ctx, tenantID, entity)
		require.NoError(t, err)
		return id
	}

	assert.Equal(t, "SO-00001", next(tenantA, shared.EntitySalesOrder))
	assert.Equal(t, "SO-00002", next(tenantA, shared.EntitySalesOrder))
	assert.Equal(t, "PL-00001", next(tenantA, shared.EntityPickList))
	assert.Equal(t, "SO-00001", next(tenantB, shared.EntitySalesOrder))
	assert.Equal(t, "SO-00003", next(tenantA, shared.EntitySalesOrder))

	t.Run("rolled back transaction does not consume a number", func(t *testing.T) {
		_ = db.Transaction(func(tx *gorm.DB) error {
			_, err := NewGormDisplayIDGenerator(tx).Next(ctx, tenantA, shared.EntityJob)
			require.NoError(t, err)
			return assert.AnError
		})
		assert.Equal(t, "JOB-00001", next(tenantA, shared.EntityJob))
	})

	t.Run("rejects unknown entity types", func(t *testing.T) {
		_, err := gen.Next(ctx, tenantA, shared.EntityType("widget"))
		assert.Error(t, err)
	})

	t.Run("rejects missing tenant", func(t *testing.T) {
		_, err := gen.Next(ctx, uuid.Nil, shared.EntityItem)
		assert.Error(t, err)
	})
}

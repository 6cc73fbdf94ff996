package persistence

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with every table migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newTestCustomer(t *testing.T, tenantID uuid.UUID, code, name string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(tenantID, code, name)
	require.NoError(t, err)
	return c
}

func newTestItem(t *testing.T, tenantID uuid.UUID, displayID, name string, qty, min, price int64) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(tenantID, displayID, name, strings.ToUpper(displayID), "pcs")
	require.NoError(t, err)
	item.Quantity = decimal.NewFromInt(qty)
	item.MinQuantity = decimal.NewFromInt(min)
	item.Price = decimal.NewFromInt(price)
	return item
}

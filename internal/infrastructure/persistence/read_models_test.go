package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReadModels(t *testing.T) (*ReadModels, *Database) {
	t.Helper()
	database, err := Wrap(newTestDB(t), "sqlite3")
	require.NoError(t, err)
	return NewReadModels(database.X), database
}

func TestReadModels_FolderStats(t *testing.T) {
	rm, database := newTestReadModels(t)
	ctx := context.Background()
	tenantID := uuid.New()
	folders := NewGormFolderRepository(database.DB)
	items := NewGormItemRepository(database.DB)

	root, err := inventory.NewFolder(tenantID, "Root", nil)
	require.NoError(t, err)
	child, err := inventory.NewFolder(tenantID, "Child", root)
	require.NoError(t, err)
	require.NoError(t, folders.Save(ctx, root))
	require.NoError(t, folders.Save(ctx, child))

	inRoot := newTestItem(t, tenantID, "ITM-00001", "Root item", 10, 2, 3)
	inRoot.MoveToFolder(&root.ID)
	inChild := newTestItem(t, tenantID, "ITM-00002", "Child item", 1, 5, 10)
	inChild.MoveToFolder(&child.ID)
	empty := newTestItem(t, tenantID, "ITM-00003", "Empty item", 0, 0, 10)
	empty.MoveToFolder(&child.ID)
	outside := newTestItem(t, tenantID, "ITM-00004", "Loose item", 100, 0, 100)
	for _, it := range []*inventory.Item{inRoot, inChild, empty, outside} {
		require.NoError(t, items.Save(ctx, it))
	}

	stats, err := rm.FolderStats(ctx, tenantID, root)
	require.NoError(t, err)
	assert.Equal(t, root.ID, stats.FolderID)
	assert.Equal(t, int64(3), stats.ItemCount)
	assert.True(t, decimal.NewFromInt(11).Equal(stats.TotalQuantity), "quantity %s", stats.TotalQuantity)
	assert.True(t, decimal.NewFromInt(40).Equal(stats.TotalValue), "value %s", stats.TotalValue)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.Equal(t, int64(1), stats.OutOfStockCount)
	assert.Equal(t, int64(1), stats.SubfolderCount)

	childStats, err := rm.FolderStats(ctx, tenantID, child)
	require.NoError(t, err)
	assert.Equal(t, int64(2), childStats.ItemCount)
	assert.Zero(t, childStats.SubfolderCount)
}

func TestReadModels_StockCountProgress(t *testing.T) {
	rm, database := newTestReadModels(t)
	ctx := context.Background()
	tenantID := uuid.New()
	repo := NewGormStockCountRepository(database.DB)

	sc, err := inventory.NewStockCount(tenantID, "SC-00001", "", inventory.ScopeAll, nil)
	require.NoError(t, err)
	var lines []inventory.StockCountLine
	for i := 0; i < 4; i++ {
		item := newTestItem(t, tenantID, "ITM", "Item", 5, 0, 1)
		lines = append(lines, inventory.NewStockCountLine(sc.ID, item, item.Quantity))
	}
	require.NoError(t, sc.Start(lines))
	_, err = sc.RecordCount(sc.Lines[0].ID, decimal.NewFromInt(5), uuid.New(), "")
	require.NoError(t, err)
	_, err = sc.RecordCount(sc.Lines[1].ID, decimal.NewFromInt(3), uuid.New(), "")
	require.NoError(t, err)
	_, err = sc.RecordCount(sc.Lines[2].ID, decimal.NewFromInt(6), uuid.New(), "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sc))

	p, err := rm.StockCountProgress(ctx, tenantID, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StockCountInProgress, p.Status)
	assert.Equal(t, int64(4), p.TotalLines)
	assert.Equal(t, int64(3), p.CountedLines)
	assert.Equal(t, int64(2), p.VarianceLines)
	assert.True(t, decimal.NewFromInt(-1).Equal(p.NetVariance))
	assert.Equal(t, 75.0, p.PercentComplete)

	expected := sc.Progress()
	assert.Equal(t, expected.CountedLines, p.CountedLines)

	t.Run("other tenant gets not found", func(t *testing.T) {
		_, err := rm.StockCountProgress(ctx, uuid.New(), sc.ID)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestReadModels_CountByStatus(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	rm := NewReadModels(sqlx.NewDb(mockDB, "pgx"))
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM sales_orders WHERE tenant_id = \$1 GROUP BY status`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("draft", 3).
			AddRow("shipped", 1))

	counts, err := rm.CountByStatus(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Len(t, counts, len(trade.AllOrderStatuses()))
	assert.Equal(t, int64(3), counts[trade.OrderStatusDraft])
	assert.Equal(t, int64(1), counts[trade.OrderStatusShipped])
	assert.Zero(t, counts[trade.OrderStatusCancelled])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadModels_ListContacts(t *testing.T) {
	rm, database := newTestReadModels(t)
	ctx := context.Background()
	tenantID := uuid.New()
	customers := NewGormCustomerRepository(database.DB)
	profiles := NewGormProfileRepository(database.DB)

	require.NoError(t, customers.Save(ctx, newTestCustomer(t, tenantID, "ZED", "Zed Supplies")))
	require.NoError(t, customers.Save(ctx, newTestCustomer(t, tenantID, "ABC", "Abc Retail")))
	member, err := identity.NewProfile(uuid.New(), tenantID, "mia@example.com", "Mia Park", identity.RoleMember)
	require.NoError(t, err)
	require.NoError(t, profiles.Save(ctx, member))
	require.NoError(t, customers.Save(ctx, newTestCustomer(t, uuid.New(), "OTH", "Other Tenant")))

	all, err := rm.ListContacts(ctx, tenantID, partner.ContactQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Abc Retail", all[0].Name)
	assert.Equal(t, "Mia Park", all[1].Name)
	assert.Equal(t, partner.ContactTypeMember, all[1].Type)
	assert.Equal(t, "Zed Supplies", all[2].Name)

	members, err := rm.ListContacts(ctx, tenantID, partner.ContactQuery{Type: partner.ContactTypeMember})
	require.NoError(t, err)
	require.Len(t, members, 1)

	found, err := rm.ListContacts(ctx, tenantID, partner.ContactQuery{Search: "zed"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, partner.ContactTypeCustomer, found[0].Type)

	limited, err := rm.ListContacts(ctx, tenantID, partner.ContactQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

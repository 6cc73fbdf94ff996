package persistence

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
	"github.com/stockroom/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newPostgresDB starts a disposable postgres, applies migrations/ and returns a
// Database on it. Skipped under -short.
func newPostgresDB(t *testing.T) *Database {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests are skipped with -short")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("stockroom_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// The migrator closes its connection, so it gets its own.
	migDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	m, err := migration.New(migDB, "../../../migrations", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	status, err := m.Status()
	require.NoError(t, err)
	require.False(t, status.Dirty)
	require.NoError(t, m.Close())

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	db, err := Wrap(gdb, "pgx")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedTenant(t *testing.T, db *gorm.DB, slug string) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant("Tenant "+slug, slug)
	require.NoError(t, err)
	require.NoError(t, NewGormTenantRepository(db).Save(context.Background(), tenant))
	return tenant
}

func TestPostgres_MigrationsRoundTrip(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	for _, table := range []string{"tenants", "customers", "inventory_items", "sales_orders", "pick_lists", "jobs", "activity_logs"} {
		var exists bool
		require.NoError(t, db.X.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, table))
		assert.True(t, exists, table)
	}
}

func TestPostgres_UniqueViolationsBecomeAlreadyExists(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	tenant := seedTenant(t, db.DB, "acme")
	repo := NewGormCustomerRepository(db.DB)

	require.NoError(t, repo.Save(ctx, newTestCustomer(t, tenant.ID, "C-1", "Globex")))

	err := repo.Save(ctx, newTestCustomer(t, tenant.ID, "C-2", "globex"))
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, shared.CodeAlreadyExists, de.Code)
	assert.Equal(t, "A customer with this name already exists", de.Message)

	err = repo.Save(ctx, newTestCustomer(t, tenant.ID, "C-1", "Initech"))
	de, ok = shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "A customer with this code already exists", de.Message)

	// Another tenant may reuse both.
	other := seedTenant(t, db.DB, "other")
	assert.NoError(t, repo.Save(ctx, newTestCustomer(t, other.ID, "C-1", "Globex")))
}

func TestPostgres_DisplayIDsAreUniqueUnderConcurrency(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	tenant := seedTenant(t, db.DB, "acme")
	gen := NewGormDisplayIDGenerator(db.DB)

	const n = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]bool, n)
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := gen.Next(ctx, tenant.ID, shared.EntitySalesOrder)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			seen[id] = true
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, seen, n)
	assert.True(t, seen["SO-00001"])
	assert.True(t, seen[shared.FormatDisplayID(shared.EntitySalesOrder, n)])
}

func TestPostgres_OrderStatusCounts(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	tenant := seedTenant(t, db.DB, "acme")
	orders := NewGormSalesOrderRepository(db.DB)

	for _, displayID := range []string{"SO-00001", "SO-00002"} {
		order, err := trade.NewSalesOrder(tenant.ID, displayID)
		require.NoError(t, err)
		require.NoError(t, orders.Save(ctx, order))
	}

	counts, err := NewReadModels(db.X).CountByStatus(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[trade.OrderStatusDraft])
	assert.Equal(t, int64(0), counts[trade.OrderStatusShipped])

	empty, err := NewReadModels(db.X).CountByStatus(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty[trade.OrderStatusDraft])
}

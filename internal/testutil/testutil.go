// Package testutil provides shared fixtures for service and handler tests:
// a migrated in-memory database, authenticated contexts and event capture.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/infrastructure/persistence"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewDatabase opens a private in-memory SQLite database with every table migrated.
// The connection pool is pinned to one connection so the memory database survives.
func NewDatabase(t *testing.T) *persistence.Database {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err, "Failed to open SQLite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate test schema")

	database, err := persistence.Wrap(db, "sqlite3")
	require.NoError(t, err)
	return database
}

// NewTestUUID generates a deterministic UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestTenantID returns the standard tenant ID for tests
func TestTenantID() uuid.UUID {
	return NewTestUUID("test-tenant")
}

// TestUserID returns the standard user ID for tests
func TestUserID() uuid.UUID {
	return NewTestUUID("test-user")
}

// Auth returns an auth context of the standard test user with role
func Auth(role identity.Role) *guard.AuthContext {
	return &guard.AuthContext{
		UserID:     TestUserID(),
		TenantID:   TestTenantID(),
		Role:       role,
		Email:      "tester@stockroom.test",
		FullName:   "Test User",
		TenantName: "Test Org",
		TenantSlug: "test-org",
	}
}

// AuthAs returns a context carrying the standard test user with role
func AuthAs(role identity.Role) context.Context {
	return guard.WithAuth(context.Background(), Auth(role))
}

// OtherTenant returns a context of an admin in a different tenant
func OtherTenant() context.Context {
	return guard.WithAuth(context.Background(), &guard.AuthContext{
		UserID:   NewTestUUID("other-user"),
		TenantID: NewTestUUID("other-tenant"),
		Role:     identity.RoleAdmin,
	})
}

package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type widget struct {
	ID   uint
	Name string
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&widget{}))
	return db
}

func TestInstrumentDB_Disabled(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, telemetry.InstrumentDB(db, config.TelemetryConfig{DBTraceEnabled: false}, "sqlite", zap.NewNop()))
	assert.Nil(t, db.Callback().Query().Get("stockroom:slow_query"))
}

func TestInstrumentDB_SpansCarryTableAndSlowFlag(t *testing.T) {
	sr := setupTestTracer(t)
	db := openSQLite(t)

	cfg := config.TelemetryConfig{
		DBTraceEnabled:    true,
		DBSlowQueryThresh: time.Nanosecond,
	}
	require.NoError(t, telemetry.InstrumentDB(db, cfg, "sqlite", zap.NewNop()))

	ctx, parent := otel.Tracer("test").Start(context.Background(), "request")
	require.NoError(t, db.WithContext(ctx).Create(&widget{Name: "bolt"}).Error)
	var got []widget
	require.NoError(t, db.WithContext(ctx).Find(&got).Error)
	parent.End()

	var sawSlow, sawTable bool
	for _, span := range sr.Ended() {
		for _, kv := range span.Attributes() {
			if kv == attribute.Bool("db.slow_query", true) {
				sawSlow = true
			}
			if kv == attribute.String("db.sql.table", "widgets") {
				sawTable = true
			}
		}
	}
	assert.True(t, sawSlow)
	assert.True(t, sawTable)
}

package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// InstrumentDB registers the otelgorm plugin and a callback pair that flags
// slow statements on their span. The annotating callback runs before otelgorm
// ends the span. Nothing is registered when DB tracing is off.
func InstrumentDB(db *gorm.DB, cfg config.TelemetryConfig, dbName string, log *zap.Logger) error {
	if !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(dbName)}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	threshold := cfg.DBSlowQueryThresh
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateSpan(tx, threshold) }

	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("stockroom:start_create", before),
		cb.Query().Before("gorm:query").Register("stockroom:start_query", before),
		cb.Update().Before("gorm:update").Register("stockroom:start_update", before),
		cb.Delete().Before("gorm:delete").Register("stockroom:start_delete", before),
		cb.Row().Before("gorm:row").Register("stockroom:start_row", before),
		cb.Raw().Before("gorm:raw").Register("stockroom:start_raw", before),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("stockroom:slow_create", after),
		cb.Query().After("gorm:query").Before("otel:after:query").Register("stockroom:slow_query", after),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("stockroom:slow_update", after),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("stockroom:slow_delete", after),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("stockroom:slow_row", after),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("stockroom:slow_raw", after),
	} {
		if err != nil {
			return err
		}
	}

	log.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", threshold),
	)
	return nil
}

func annotateSpan(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))

	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.RecordError(tx.Error)
		span.SetStatus(codes.Error, tx.Error.Error())
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok || threshold <= 0 {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}

package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

// setupTestTracer installs an in-memory span recorder as the global provider
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "sales_order", "change_status",
		attribute.String("order.status", "picking"))
	assert.NotEmpty(t, telemetry.TraceID(ctx))
	telemetry.EndSpan(span, nil)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "sales_order.change_status", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("order.status", "picking"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestEndSpan_RecordsError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "pick_list", "complete")
	telemetry.EndSpan(span, errors.New("lot depleted"))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "lot depleted", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.TraceID(context.Background()))
}

func TestSetup_Disabled(t *testing.T) {
	p, err := telemetry.Setup(context.Background(), config.TelemetryConfig{Enabled: false}, "test", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer("x"))
	assert.NotNil(t, p.Meter("x"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

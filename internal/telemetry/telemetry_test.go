package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracerProvider_WithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	tp, err := InitTracerProvider(ctx, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	_, span := otel.Tracer("test").Start(ctx, "op")
	defer span.End()

	assert.True(t, span.SpanContext().TraceID().IsValid())
	assert.True(t, span.SpanContext().IsSampled())
}

func TestInitTracerProvider_WithEndpoint(t *testing.T) {
	ctx := context.Background()

	// The exporter connects lazily, so no collector is needed here.
	tp, err := InitTracerProvider(ctx, "localhost:4317")
	require.NoError(t, err)

	shutdownCtx, cancel := context.WithCancel(ctx)
	cancel()
	_ = tp.Shutdown(shutdownCtx)
}

// internal/observability/observability_test.go
package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestInitProviderDisabled(t *testing.T) {
	shutdown, err := InitProvider(context.Background(), Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Environment:    "test",
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NotPanics(t, shutdown)
}

func TestInitProviderEnabled(t *testing.T) {
	// otlp gRPC exporters connect lazily, so no collector is needed.
	shutdown, err := InitProvider(context.Background(), Config{
		Enabled:        true,
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		OTelEndpoint:   "127.0.0.1:1",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		otel.SetTracerProvider(noop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
	})

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NotPanics(t, shutdown)
}

func TestShutdownProvidersNil(t *testing.T) {
	assert.NoError(t, shutdownProviders(nil, nil))
}

// internal/observability/metrics_test.go
package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestAttributesFromTags(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		expected int
	}{
		{
			name:     "Empty tags",
			tags:     []string{},
			expected: 0,
		},
		{
			name:     "Even number of tags",
			tags:     []string{"key1", "value1", "key2", "value2"},
			expected: 2,
		},
		{
			name:     "Odd number of tags",
			tags:     []string{"key1", "value1", "key2", "value2", "orphan"},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attributes := attributesFromTags(tt.tags)
			assert.Equal(t, tt.expected, len(attributes))

			for i := 0; i < len(tt.tags)/2 && i*2+1 < len(tt.tags); i++ {
				assert.Equal(t, tt.tags[i*2], string(attributes[i].Key))
				assert.Equal(t, tt.tags[i*2+1], attributes[i].Value.AsString())
			}
		})
	}
}

func TestMetricsInterface(t *testing.T) {
	var _ MetricsClient = (*OTelMetrics)(nil)
	var _ MetricsClient = NopMetrics{}
}

func TestMetricsClient(t *testing.T) {
	logger, _, err := NewTestLogger()
	require.NoError(t, err)

	cfg := Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Environment:    "test",
	}

	metrics, err := NewMetricsClient(cfg, logger)
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		metrics.Increment(ctx, "cachelock.operations", 1, "operation", "acquire", "result", "ok")
	})
	assert.NoError(t, metrics.RecordLatency(ctx, 100*time.Millisecond, "operation", "acquire"))
}

func TestMetricsClientRecords(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := newMetricsClient(provider.Meter("test"), nil)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.Increment(ctx, "cachelock.operations", 1, "operation", "acquire")
	metrics.Increment(ctx, "cachelock.operations", 2, "operation", "acquire")
	require.NoError(t, metrics.RecordLatency(ctx, 3*time.Millisecond, "operation", "acquire"))
	assert.Len(t, metrics.counters, 1)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := make(map[string]metricdata.Metrics)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	sum, ok := byName["cachelock.operations"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)

	hist, ok := byName[LatencyMetric].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.InDelta(t, 3.0, hist.DataPoints[0].Sum, 0.001)
}

// internal/observability/metrics.go
package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LatencyMetric is the histogram RecordLatency writes to.
const LatencyMetric = "cachelock.latency"

// MetricsClient interface for metrics operations
type MetricsClient interface {
	// Increment increments a counter by the given amount
	Increment(ctx context.Context, name string, value int64, attributes ...string)

	// RecordLatency records an operation duration in milliseconds
	RecordLatency(ctx context.Context, duration time.Duration, attributes ...string) error
}

// OTelMetrics implements MetricsClient using OpenTelemetry.
// Counters are created on first use and reused afterwards.
type OTelMetrics struct {
	meter   metric.Meter
	latency metric.Float64Histogram
	logger  *SLogger

	mu       sync.Mutex
	counters map[string]metric.Int64Counter
}

// NewMetricsClient creates a metrics client on the global meter provider.
func NewMetricsClient(cfg Config, l *SLogger) (*OTelMetrics, error) {
	meter := otel.GetMeterProvider().Meter(
		cfg.ServiceName,
		metric.WithInstrumentationVersion(cfg.ServiceVersion),
	)
	return newMetricsClient(meter, l)
}

func newMetricsClient(meter metric.Meter, l *SLogger) (*OTelMetrics, error) {
	if l == nil {
		l = NewNopLogger()
	}

	latency, err := meter.Float64Histogram(
		LatencyMetric,
		metric.WithUnit("ms"),
		metric.WithDescription("Latency of cache lock operations"),
	)
	if err != nil {
		return nil, err
	}

	return &OTelMetrics{
		meter:    meter,
		latency:  latency,
		logger:   l,
		counters: make(map[string]metric.Int64Counter),
	}, nil
}

func (m *OTelMetrics) counter(name string) (metric.Int64Counter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.counters[name]; ok {
		return c, nil
	}
	c, err := m.meter.Int64Counter(name)
	if err != nil {
		return nil, err
	}
	m.counters[name] = c
	return c, nil
}

// Increment adds value to the named counter. Attributes are key/value pairs.
func (m *OTelMetrics) Increment(ctx context.Context, name string, value int64, attributes ...string) {
	counter, err := m.counter(name)
	if err != nil {
		m.logger.Errorf("Failed to create counter metric '%s': %v", name, err)
		return
	}

	counter.Add(ctx, value, metric.WithAttributes(attributesFromTags(attributes)...))
}

// RecordLatency records the duration of an operation
func (m *OTelMetrics) RecordLatency(ctx context.Context, duration time.Duration, attributes ...string) error {
	m.latency.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(attributesFromTags(attributes)...))
	return nil
}

// NopMetrics discards every measurement.
type NopMetrics struct{}

// Increment implements MetricsClient
func (NopMetrics) Increment(context.Context, string, int64, ...string) {}

// RecordLatency implements MetricsClient
func (NopMetrics) RecordLatency(context.Context, time.Duration, ...string) error { return nil }

// attributesFromTags pairs up tags as key/value. A trailing key without a value is dropped.
func attributesFromTags(tags []string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(tags)/2)
	for i := 0; i+1 < len(tags); i += 2 {
		attrs = append(attrs, attribute.String(tags[i], tags[i+1]))
	}
	return attrs
}

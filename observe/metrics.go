package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache and fallback activity.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly; recording is fire-and-forget.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records a cache lookup and whether it hit.
	RecordLookup(ctx context.Context, taskType string, hit bool)

	// RecordStore records an accepted cache store.
	RecordStore(ctx context.Context, taskType string)

	// RecordEviction records evicted entries with the reason
	// (expired, memory, capacity).
	RecordEviction(ctx context.Context, reason string, count int64)

	// RecordFallback records a fallback strategy outcome.
	RecordFallback(ctx context.Context, taskType, strategy string, success bool)

	// RecordExecution records a primary executor run.
	RecordExecution(ctx context.Context, taskType string, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	lookupCount   metric.Int64Counter
	storeCount    metric.Int64Counter
	evictionCount metric.Int64Counter
	fallbackCount metric.Int64Counter
	execCount     metric.Int64Counter
	execErrors    metric.Int64Counter
	execDuration  metric.Float64Histogram
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	lookupCount, err := meter.Int64Counter(
		"task.cache.lookups",
		metric.WithDescription("Total cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	storeCount, err := meter.Int64Counter(
		"task.cache.stores",
		metric.WithDescription("Total accepted cache stores"),
		metric.WithUnit("{store}"),
	)
	if err != nil {
		return nil, err
	}

	evictionCount, err := meter.Int64Counter(
		"task.cache.evictions",
		metric.WithDescription("Total evicted cache entries"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	fallbackCount, err := meter.Int64Counter(
		"task.fallback.attempts",
		metric.WithDescription("Total fallback strategy outcomes"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	execCount, err := meter.Int64Counter(
		"task.exec.total",
		metric.WithDescription("Total primary executor runs"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	execErrors, err := meter.Int64Counter(
		"task.exec.errors",
		metric.WithDescription("Total primary executor failures"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	execDuration, err := meter.Float64Histogram(
		"task.exec.duration_ms",
		metric.WithDescription("Primary executor duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		lookupCount:   lookupCount,
		storeCount:    storeCount,
		evictionCount: evictionCount,
		fallbackCount: fallbackCount,
		execCount:     execCount,
		execErrors:    execErrors,
		execDuration:  execDuration,
	}, nil
}

func (m *metricsImpl) RecordLookup(ctx context.Context, taskType string, hit bool) {
	m.lookupCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("task.type", taskType),
		attribute.Bool("cache.hit", hit),
	))
}

func (m *metricsImpl) RecordStore(ctx context.Context, taskType string) {
	m.storeCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("task.type", taskType),
	))
}

func (m *metricsImpl) RecordEviction(ctx context.Context, reason string, count int64) {
	if count <= 0 {
		return
	}
	m.evictionCount.Add(ctx, count, metric.WithAttributes(
		attribute.String("eviction.reason", reason),
	))
}

func (m *metricsImpl) RecordFallback(ctx context.Context, taskType, strategy string, success bool) {
	m.fallbackCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("task.type", taskType),
		attribute.String("fallback.strategy", strategy),
		attribute.Bool("fallback.success", success),
	))
}

func (m *metricsImpl) RecordExecution(ctx context.Context, taskType string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("task.type", taskType))

	m.execCount.Add(ctx, 1, opt)
	if err != nil {
		m.execErrors.Add(ctx, 1, opt)
	}
	m.execDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// nopMetrics is a metrics implementation that does nothing.
type nopMetrics struct{}

// NopMetrics returns a Metrics that discards everything.
func NopMetrics() Metrics { return &nopMetrics{} }

func (m *nopMetrics) RecordLookup(ctx context.Context, taskType string, hit bool)    {}
func (m *nopMetrics) RecordStore(ctx context.Context, taskType string)               {}
func (m *nopMetrics) RecordEviction(ctx context.Context, reason string, count int64) {}
func (m *nopMetrics) RecordFallback(ctx context.Context, taskType, strategy string, success bool) {
}
func (m *nopMetrics) RecordExecution(ctx context.Context, taskType string, duration time.Duration, err error) {
}

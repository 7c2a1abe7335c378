package concurrency

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/seqflow/pkg/metrics"
)

// MetricsLimiter wraps a Limiter with Prometheus metrics collection.
type MetricsLimiter struct {
	limiter  Limiter
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a limiter publishing gauges to its own registry.
func NewWithMetrics(capacity int, name string) (Limiter, error) {
	registry := prometheus.NewRegistry()
	return NewWithConfigAndMetrics(Config{Capacity: capacity, InitialAvailable: -1}, name, metrics.Config{
		Enabled:  true,
		Registry: registry,
	})
}

// NewWithConfigAndMetrics creates a limiter with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (Limiter, error) {
	base, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return base, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	ml := &MetricsLimiter{
		limiter:  base,
		name:     name,
		registry: registry,
		enabled:  true,
	}
	ml.updateMetrics()
	return ml, nil
}

func (ml *MetricsLimiter) updateMetrics() {
	if !ml.enabled {
		return
	}
	ml.registry.ConcurrencyActive.WithLabelValues(ml.name).Set(float64(ml.limiter.InUse()))
	ml.registry.ConcurrencyWaiting.WithLabelValues(ml.name).Set(float64(ml.limiter.Waiting()))
}

// Acquire attempts to acquire one permit without blocking.
func (ml *MetricsLimiter) Acquire() bool {
	return ml.AcquireN(1)
}

// AcquireN attempts to acquire n permits without blocking.
func (ml *MetricsLimiter) AcquireN(n int) bool {
	acquired := ml.limiter.AcquireN(n)
	ml.updateMetrics()
	return acquired
}

// Wait blocks until one permit is available.
func (ml *MetricsLimiter) Wait(ctx context.Context) error {
	return ml.WaitN(ctx, 1)
}

// WaitN blocks until n permits are available.
func (ml *MetricsLimiter) WaitN(ctx context.Context, n int) error {
	ml.registry.ConcurrencyWaiting.WithLabelValues(ml.name).Inc()
	err := ml.limiter.WaitN(ctx, n)
	ml.registry.ConcurrencyWaiting.WithLabelValues(ml.name).Dec()
	ml.updateMetrics()
	return err
}

// Release releases one permit back to the limiter.
func (ml *MetricsLimiter) Release() {
	ml.ReleaseN(1)
}

// ReleaseN releases n permits back to the limiter.
func (ml *MetricsLimiter) ReleaseN(n int) {
	ml.limiter.ReleaseN(n)
	ml.updateMetrics()
}

// SetCapacity changes the maximum number of concurrent operations.
func (ml *MetricsLimiter) SetCapacity(capacity int) {
	ml.limiter.SetCapacity(capacity)
	ml.updateMetrics()
}

// Capacity returns the maximum number of concurrent operations allowed.
func (ml *MetricsLimiter) Capacity() int { return ml.limiter.Capacity() }

// Available returns the number of permits currently available.
func (ml *MetricsLimiter) Available() int { return ml.limiter.Available() }

// InUse returns the number of permits currently held.
func (ml *MetricsLimiter) InUse() int { return ml.limiter.InUse() }

// Waiting returns the number of callers blocked waiting for permits.
func (ml *MetricsLimiter) Waiting() int { return ml.limiter.Waiting() }

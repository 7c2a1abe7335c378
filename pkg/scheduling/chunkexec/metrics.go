package chunkexec

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/seqflow/pkg/concurrency"
	"github.com/vnykmshr/seqflow/pkg/metrics"
)

// NewWithMetrics creates an Executor publishing metrics to its own registry.
func NewWithMetrics[T, R any](cfg Config, name string) (*Executor[T, R], error) {
	registry := prometheus.NewRegistry()
	return NewWithConfigAndMetrics[T, R](cfg, name, metrics.Config{
		Enabled:  true,
		Registry: registry,
	})
}

// NewWithConfigAndMetrics creates an Executor with custom config and metrics.
func NewWithConfigAndMetrics[T, R any](cfg Config, name string, metricsConfig metrics.Config) (*Executor[T, R], error) {
	exec, err := New[T, R](cfg)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return exec, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	exec.name = name
	exec.registry = registry
	return exec, nil
}

func (e *Executor[T, R]) recordRun() {
	if e.registry == nil {
		return
	}
	e.registry.ExecRuns.WithLabelValues(e.name).Inc()
}

func (e *Executor[T, R]) recordStart(ledger concurrency.Limiter) {
	if e.registry == nil {
		return
	}
	e.registry.ExecChunksStarted.WithLabelValues(e.name).Inc()
	e.registry.ExecLedgerActive.WithLabelValues(e.name).Set(float64(ledger.InUse()))
}

func (e *Executor[T, R]) recordDone(ledger concurrency.Limiter, err error) {
	if e.registry == nil {
		return
	}
	if err != nil {
		e.registry.ExecChunksFailed.WithLabelValues(e.name).Inc()
	} else {
		e.registry.ExecChunksDone.WithLabelValues(e.name).Inc()
	}
	e.registry.ExecLedgerActive.WithLabelValues(e.name).Set(float64(ledger.InUse()))
}

// timeChunk observes a chunk handler duration if metrics are enabled. The
// returned func is a no-op otherwise.
func (e *Executor[T, R]) timeChunk() func() {
	if e.registry == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		e.registry.ExecChunkDuration.WithLabelValues(e.name).Observe(time.Since(start).Seconds())
	}
}

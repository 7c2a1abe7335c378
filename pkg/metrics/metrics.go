// Package metrics provides Prometheus instrumentation for seqflow components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for seqflow components.
type Registry struct {
	// Concurrency Limiter Metrics
	ConcurrencyActive  *prometheus.GaugeVec
	ConcurrencyWaiting *prometheus.GaugeVec

	// Chunk Executor Metrics
	ExecRuns          *prometheus.CounterVec
	ExecChunksStarted *prometheus.CounterVec
	ExecChunksDone    *prometheus.CounterVec
	ExecChunksFailed  *prometheus.CounterVec
	ExecChunkDuration *prometheus.HistogramVec
	ExecLedgerActive  *prometheus.GaugeVec

	// Scheduler Metrics
	SchedulerTasksScheduled *prometheus.CounterVec
	SchedulerTasksExecuted  *prometheus.CounterVec
	SchedulerTasksFailed    *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by seqflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		ConcurrencyActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "seqflow",
				Subsystem: "concurrency",
				Name:      "active",
				Help:      "Number of permits currently in use",
			},
			[]string{"limiter_name"},
		),

		ConcurrencyWaiting: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "seqflow",
				Subsystem: "concurrency",
				Name:      "waiting",
				Help:      "Number of operations waiting for a permit",
			},
			[]string{"limiter_name"},
		),

		ExecRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "seqflow",
				Subsystem: "chunkexec",
				Name:      "runs_total",
				Help:      "Total number of executor runs",
			},
			[]string{"executor_name"},
		),

		ExecChunksStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "seqflow",
				Subsystem: "chunkexec",
				Name:      "chunks_started_total",
				Help:      "Total number of chunk handler invocations started",
			},
			[]string{"executor_name"},
		),

		ExecChunksDone: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "seqflow",
				Subsystem: "chunkexec",
				Name:      "chunks_completed_total",
				Help:      "Total number of chunk handler invocations completed successfully",
			},
			[]string{"executor_name"},
		),

		ExecChunksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "seqflow",
				Subsystem: "chunkexec",
				Name:      "chunks_failed_total",
				Help:      "Total number of chunk handler invocations that failed",
			},
			[]string{"executor_name"},
		),

		ExecChunkDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "seqflow",
				Subsystem: "chunkexec",
				Name:      "chunk_duration_seconds",
				Help:      "Duration of chunk handler invocations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"executor_name"},
		),

		ExecLedgerActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "seqflow",
				Subsystem: "chunkexec",
				Name:      "ledger_active",
				Help:      "Number of chunk tasks currently outstanding",
			},
			[]string{"executor_name"},
		),

		SchedulerTasksScheduled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "seqflow",
				Subsystem: "scheduler",
				Name:      "tasks_scheduled_total",
				Help:      "Total number of tasks scheduled",
			},
			[]string{"scheduler_name"},
		),

		SchedulerTasksExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "seqflow",
				Subsystem: "scheduler",
				Name:      "tasks_executed_total",
				Help:      "Total number of scheduled task executions",
			},
			[]string{"scheduler_name"},
		),

		SchedulerTasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "seqflow",
				Subsystem: "scheduler",
				Name:      "tasks_failed_total",
				Help:      "Total number of scheduled task executions that failed",
			},
			[]string{"scheduler_name"},
		),
	}
}

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Registry: prometheus.DefaultRegisterer,
	}
}

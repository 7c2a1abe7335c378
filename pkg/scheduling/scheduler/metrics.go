package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/seqflow/pkg/metrics"
)

// NewWithMetrics creates a scheduler publishing metrics to its own registry.
func NewWithMetrics(cfg Config, name string) (Scheduler, error) {
	registry := prometheus.NewRegistry()
	return NewWithConfigAndMetrics(cfg, name, metrics.Config{
		Enabled:  true,
		Registry: registry,
	})
}

// NewWithConfigAndMetrics creates a scheduler with custom config and metrics.
func NewWithConfigAndMetrics(cfg Config, name string, metricsConfig metrics.Config) (Scheduler, error) {
	sched, err := newScheduler(cfg)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return sched, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	sched.name = name
	sched.registry = registry
	return sched, nil
}

func (s *scheduler) recordScheduled() {
	if s.registry == nil {
		return
	}
	s.registry.SchedulerTasksScheduled.WithLabelValues(s.name).Inc()
}

func (s *scheduler) recordExecuted() {
	if s.registry == nil {
		return
	}
	s.registry.SchedulerTasksExecuted.WithLabelValues(s.name).Inc()
}

func (s *scheduler) recordFailed() {
	if s.registry == nil {
		return
	}
	s.registry.SchedulerTasksFailed.WithLabelValues(s.name).Inc()
}

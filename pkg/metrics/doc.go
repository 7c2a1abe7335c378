// Package metrics provides Prometheus instrumentation for seqflow components.
//
// The metrics package provides automatic instrumentation for:
//   - Concurrency control (permits in use, operations waiting)
//   - Chunk execution (runs, chunk tasks started/completed/failed, durations,
//     outstanding ledger size)
//   - Task scheduling (scheduled, executed, failed tasks)
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	exec, _ := chunkexec.NewWithMetrics[Record, Summary](cfg, "import_batches")
//	limiter, _ := concurrency.NewWithMetrics(8, "db_queries")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{Enabled: true, Registry: registry}
//	exec, _ := chunkexec.NewWithConfigAndMetrics[Record, Summary](cfg, "import_batches", config)
package metrics

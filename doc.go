/*
Package seqflow provides a Go library for lazy sequence processing and
bounded-concurrency batch execution.

Sequences (pkg/seq):
  - seq: lazy, pull-based sequence pipelines (filter, map, flatMap, take,
    skip, chunk) with short-circuiting terminal consumers
  - cursor: fixed-size batch iteration over realized slices

Concurrency (pkg/concurrency, pkg/scheduling):
  - concurrency: permit limiter for bounding simultaneous operations
  - chunkexec: partitioned batch execution with a concurrency ceiling
  - scheduler: cron and interval-based recurring task execution

Example usage:

	import (
		"github.com/vnykmshr/seqflow/pkg/seq"
		"github.com/vnykmshr/seqflow/pkg/scheduling/chunkexec"
	)

	valid, _ := seq.FromSlice(records).
		Filter(isValid).
		Take(100).
		ToSlice(ctx)

	exec, _ := chunkexec.New[Record, Summary](chunkexec.Config{MaxConcurrency: 4})
	summaries, _ := exec.Run(ctx, valid, summarize)
*/
package seqflow

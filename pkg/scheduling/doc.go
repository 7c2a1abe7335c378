/*
Package scheduling provides task execution primitives for Go applications.

This package offers components for running work off the calling goroutine
while keeping concurrency bounded:

  - chunkexec: Partitioned, bounded-concurrency batch execution
  - scheduler: Time-based task scheduling with cron support

Chunk Executor:

The chunk executor splits a slice into contiguous chunks and fans them out
over concurrent handlers, never running more than the configured ceiling at
once:

	exec, _ := chunkexec.New[int, int](chunkexec.Config{
		Chunks:         4,
		MaxConcurrency: 2,
	})

	sums, err := exec.Run(ctx, items, func(ctx context.Context, batch []int) (int, error) {
		total := 0
		for _, v := range batch {
			total += v
		}
		return total, nil
	})

Task Scheduler:

The scheduler enables time-based task execution:

	sched, _ := scheduler.New()
	sched.Start()
	defer func() { <-sched.Stop() }()

	// Schedule a one-time task
	sched.ScheduleAfter("report", task, time.Minute)

	// Schedule a recurring task
	sched.ScheduleRepeating("sync", task, time.Hour)

	// Cron-style scheduling
	sched.ScheduleCron("cleanup", "0 0 9 * * MON-FRI", task)

Both components record Prometheus metrics when constructed through their
metrics-enabled constructors.
*/
package scheduling

/*
Package scheduler provides deferred and periodic task execution with bounded
concurrency.

Tasks are registered against a wall-clock time, a fixed interval, or a cron
expression, and picked up by a tick loop. Simultaneous executions are capped
by a concurrency limiter so a burst of ready tasks cannot flood the process.

Basic Usage:

	sched, err := scheduler.New()
	if err != nil {
		log.Fatal(err)
	}
	sched.Start()
	defer func() { <-sched.Stop() }()

	task := scheduler.TaskFunc(func(ctx context.Context) error {
		fmt.Println("Task executed!")
		return nil
	})

	// One-time task at a specific time
	sched.Schedule("report", task, time.Now().Add(time.Second))

	// Repeating task every 30 seconds
	sched.ScheduleRepeating("heartbeat", task, 30*time.Second)

	// Cron task (seconds field supported, descriptors like @hourly too)
	sched.ScheduleCron("cleanup", "0 0 * * * *", task)

Retries:

Wrap any task in BackoffTask for exponential-backoff retries:

	sched.Schedule("flaky", scheduler.BackoffTask{
		Task:         task,
		MaxRetries:   3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
	}, time.Now())

Lifecycle:

Start launches the tick loop; Stop halts admission, cancels the context
passed to running tasks, and returns a channel closed once all in-flight
executions have finished. Scheduled-but-not-started tasks are dropped on
Stop. A stopped scheduler can be started again.
*/
package scheduler

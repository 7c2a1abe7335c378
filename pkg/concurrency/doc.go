/*
Package concurrency provides concurrency limiting for seqflow components.

A Limiter controls how many operations run simultaneously: a counting
semaphore with context support, dynamic capacity, and state inspection. The
chunk executor uses it as the ledger of outstanding batch tasks; it is also
usable standalone.

Basic usage:

	limiter, err := concurrency.New(10) // Allow 10 concurrent operations
	if err != nil {
		log.Fatal(err)
	}

	if limiter.Acquire() {
		defer limiter.Release()
		// Do work
	}

Blocking admission:

	for _, task := range tasks {
		if err := limiter.Wait(ctx); err != nil {
			return err // canceled while waiting
		}
		go func(t Task) {
			defer limiter.Release()
			process(t)
		}(task)
	}

Wait returns as soon as whichever current holder finishes first releases its
permit, so admission follows completion order, not submission order.
*/
package concurrency

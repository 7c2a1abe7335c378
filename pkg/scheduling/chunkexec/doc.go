/*
Package chunkexec executes a handler over contiguous partitions of a
realized slice with a bounded number of invocations outstanding at once.

The input is split into Chunks slices of ceil(len/Chunks) elements (the last
may be shorter). Batches are admitted in partition order: when
MaxConcurrency handlers are outstanding, admission blocks until whichever of
them finishes first releases its slot. A concurrency.Limiter serves as the
ledger of outstanding tasks; its size never exceeds MaxConcurrency.

	exec, err := chunkexec.New[int, int](chunkexec.Config{
		Chunks:         4,
		MaxConcurrency: 2,
	})
	if err != nil {
		log.Fatal(err)
	}

	sums, err := exec.Run(ctx, numbers, func(ctx context.Context, batch []int) (int, error) {
		total := 0
		for _, n := range batch {
			total += n
		}
		return total, nil
	})

Result ordering:

Results are collected as handlers complete, so the returned slice is in
completion order, not partition order. This is deliberate: it lets fast
batches surface without waiting on slow siblings. Assert on membership, not
position, or carry indices in the result type.

Failure:

The first handler error (or panic) aborts the run: the shared run context is
canceled, no further batches are admitted, and Run returns the error after
all outstanding handlers finish. In-flight handlers are not forcibly
terminated; those that ignore the context run to completion and their
results are discarded.
*/
package chunkexec

// Package integration contains integration tests that verify cross-package functionality.
// These tests ensure that different components work together correctly in realistic scenarios.
package integration

import (
	"context"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vnykmshr/seqflow/internal/testutil"
	"github.com/vnykmshr/seqflow/pkg/scheduling/chunkexec"
	"github.com/vnykmshr/seqflow/pkg/seq"
)

// TestPipelineFeedsChunkExecutor verifies the common collect-then-fan-out
// pattern: a lazy pipeline selects and transforms elements, and the chunk
// executor processes the collected result concurrently.
func TestPipelineFeedsChunkExecutor(t *testing.T) {
	ctx := context.Background()

	// Lazily select the even numbers from a generated range and scale them.
	n := 0
	selected, err := seq.Generate(func() int {
		n++
		return n
	}).
		Filter(func(v int) bool { return v%2 == 0 }).
		Map(func(v int) int { return v * 10 }).
		Take(40).
		ToSlice(ctx)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	testutil.AssertEqual(t, len(selected), 40)

	exec, err := chunkexec.New[int, int](chunkexec.Config{
		Chunks:         8,
		MaxConcurrency: 3,
	})
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	var active, maxActive int32
	sums, err := exec.Run(ctx, selected, func(_ context.Context, batch []int) (int, error) {
		current := atomic.AddInt32(&active, 1)
		defer atomic.AddInt32(&active, -1)
		for {
			recorded := atomic.LoadInt32(&maxActive)
			if current <= recorded || atomic.CompareAndSwapInt32(&maxActive, recorded, current) {
				break
			}
		}

		time.Sleep(time.Millisecond)
		total := 0
		for _, v := range batch {
			total += v
		}
		return total, nil
	})
	if err != nil {
		t.Fatalf("executor run failed: %v", err)
	}
	testutil.AssertEqual(t, len(sums), 8)

	// Sum of 2,4,...,80 scaled by 10.
	want := 0
	for i := 2; i <= 80; i += 2 {
		want += i * 10
	}
	got := 0
	for _, s := range sums {
		got += s
	}
	testutil.AssertEqual(t, got, want)

	if atomic.LoadInt32(&maxActive) > 3 {
		t.Errorf("observed %d concurrent handlers, limit 3", maxActive)
	}
}

// TestCursorBatchesThroughExecutor drives cursor batches through the
// executor one batch per chunk, verifying every element survives the trip.
func TestCursorBatchesThroughExecutor(t *testing.T) {
	ctx := context.Background()

	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	batches, err := seq.Batches(items, 5)
	if err != nil {
		t.Fatalf("failed to create batch sequence: %v", err)
	}
	collected, err := batches.ToSlice(ctx)
	if err != nil {
		t.Fatalf("failed to collect batches: %v", err)
	}
	testutil.AssertEqual(t, len(collected), 5)

	exec, err := chunkexec.New[[]int, []int](chunkexec.Config{
		Chunks:         5,
		MaxConcurrency: 2,
	})
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	results, err := exec.Run(ctx, collected, func(_ context.Context, group [][]int) ([]int, error) {
		var out []int
		for _, batch := range group {
			for _, v := range batch {
				out = append(out, v*2)
			}
		}
		return out, nil
	})
	if err != nil {
		t.Fatalf("executor run failed: %v", err)
	}

	var all []int
	for _, r := range results {
		all = append(all, r...)
	}
	sort.Ints(all)

	testutil.AssertEqual(t, len(all), len(items))
	for i, v := range all {
		testutil.AssertEqual(t, v, i*2)
	}
}

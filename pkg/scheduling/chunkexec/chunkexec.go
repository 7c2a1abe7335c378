package chunkexec

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	sferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
	"github.com/vnykmshr/seqflow/pkg/common/validation"
	"github.com/vnykmshr/seqflow/pkg/concurrency"
	"github.com/vnykmshr/seqflow/pkg/metrics"
)

// Handler processes one contiguous batch of a partitioned collection and
// returns a result for it. Handlers run concurrently and must be safe to
// call from multiple goroutines. A handler should respect context
// cancellation: after a sibling batch fails, the run context is canceled as
// a stop signal, though in-flight handlers are never forcibly terminated.
type Handler[T, R any] func(ctx context.Context, batch []T) (R, error)

// Config holds configuration options for creating an Executor.
type Config struct {
	// Chunks is the number of contiguous slices the input is partitioned
	// into. Zero selects the default (runtime.GOMAXPROCS). Negative values
	// are invalid.
	Chunks int

	// MaxConcurrency caps the number of handler invocations outstanding at
	// once. Zero selects the default (runtime.GOMAXPROCS). Negative values
	// are invalid.
	MaxConcurrency int
}

// DefaultConfig returns the default executor configuration.
func DefaultConfig() Config {
	n := runtime.GOMAXPROCS(0)
	return Config{Chunks: n, MaxConcurrency: n}
}

// Executor partitions a realized slice into contiguous batches and runs a
// handler over them with a concurrency ceiling.
type Executor[T, R any] struct {
	chunks         int
	maxConcurrency int

	// metrics instrumentation; nil unless created via a metrics constructor
	name     string
	registry *metrics.Registry
}

// New creates an Executor from a Config. Zero-valued fields take defaults.
func New[T, R any](cfg Config) (*Executor[T, R], error) {
	defaults := DefaultConfig()
	if cfg.Chunks == 0 {
		cfg.Chunks = defaults.Chunks
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = defaults.MaxConcurrency
	}

	if err := validation.ValidatePositive("chunkexec", "chunks", cfg.Chunks); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("chunkexec", "maxConcurrency", cfg.MaxConcurrency); err != nil {
		return nil, err
	}

	return &Executor[T, R]{
		chunks:         cfg.Chunks,
		maxConcurrency: cfg.MaxConcurrency,
	}, nil
}

// Partition splits items into at most chunks contiguous slices of
// ceil(len/chunks) elements; the final slice may be shorter. An empty input
// yields no slices.
func Partition[T any](items []T, chunks int) [][]T {
	if len(items) == 0 || chunks <= 0 {
		return nil
	}

	size := (len(items) + chunks - 1) / chunks
	batches := make([][]T, 0, chunks)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end:end])
	}
	return batches
}

// Run partitions items, invokes handler over each batch in partition order
// with at most MaxConcurrency invocations outstanding, and returns the
// collected results.
//
// Results are appended as handlers finish: the result slice is in completion
// order, not partition order. Callers that need positional association
// should carry indices in their result type.
//
// On the first handler error the run context is canceled, no further batches
// are admitted, and Run returns that error once every outstanding handler
// has returned; results from sibling handlers that complete after the
// failure are discarded. A handler panic is reported the same way, as a
// wrapped PanicError.
func (e *Executor[T, R]) Run(ctx context.Context, items []T, handler Handler[T, R]) ([]R, error) {
	if handler == nil {
		return nil, sferrors.NewValidationError("chunkexec", "handler", nil, "cannot be nil")
	}

	e.recordRun()

	batches := Partition(items, e.chunks)
	if len(batches) == 0 {
		return []R{}, nil
	}

	// The ledger of outstanding batch tasks. It lives only for this run.
	ledger, err := concurrency.New(e.maxConcurrency)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		results  = make([]R, 0, len(batches))
		firstErr error
		wg       sync.WaitGroup
	)

	for i, batch := range batches {
		// Admission: blocks until whichever outstanding handler finishes
		// first releases its slot. Canceled on failure or caller cancel.
		if err := ledger.Wait(runCtx); err != nil {
			break
		}

		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			ledger.Release()
			break
		}

		wg.Add(1)
		e.recordStart(ledger)
		go func(index int, batch []T) {
			defer wg.Done()
			defer ledger.Release()

			result, err := e.invoke(runCtx, batch, handler)
			e.recordDone(ledger, err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = sferrors.NewOperationError("chunkexec", "Run", err).
						WithContext(fmt.Sprintf("chunk %d of %d", index+1, len(batches)))
					cancel()
				}
				return
			}
			if firstErr == nil {
				results = append(results, result)
			}
		}(i, batch)
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// invoke runs handler with panic recovery so a panicking handler surfaces
// as an error instead of crashing the process.
func (e *Executor[T, R]) invoke(ctx context.Context, batch []T, handler Handler[T, R]) (result R, err error) {
	observe := e.timeChunk()
	defer observe()
	defer func() {
		if r := recover(); r != nil {
			err = sferrors.NewPanicError(r)
		}
	}()
	return handler(ctx, batch)
}

// Chunks returns the configured partition count.
func (e *Executor[T, R]) Chunks() int {
	return e.chunks
}

// MaxConcurrency returns the configured concurrency ceiling.
func (e *Executor[T, R]) MaxConcurrency() int {
	return e.maxConcurrency
}

package concurrency

import (
	"context"
	"sync"

	sferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
	"github.com/vnykmshr/seqflow/pkg/common/validation"
)

// Limiter controls the number of concurrent operations that can happen at
// any given time. It is a counting semaphore with context support and state
// inspection: the set of held permits is the live ledger of outstanding
// work, and it can never exceed the configured capacity.
type Limiter interface {
	// Acquire attempts to acquire a permit for one operation.
	// It returns true if a permit was available, false otherwise.
	// This method does not block.
	Acquire() bool

	// AcquireN attempts to acquire n permits without blocking.
	// It returns true only if all n permits were available.
	AcquireN(n int) bool

	// Wait blocks until a permit is available for one operation. A permit
	// becomes available when whichever holder finishes first releases it.
	// It returns an error if the context is canceled or its deadline passes.
	Wait(ctx context.Context) error

	// WaitN blocks until n permits are available.
	WaitN(ctx context.Context, n int) error

	// Release releases one permit back to the limiter.
	// It panics if more permits are released than were acquired.
	Release()

	// ReleaseN releases n permits back to the limiter.
	ReleaseN(n int)

	// SetCapacity changes the maximum number of concurrent operations. A
	// reduction below current usage takes effect as permits are released.
	SetCapacity(capacity int)

	// Capacity returns the maximum number of concurrent operations allowed.
	Capacity() int

	// Available returns the number of permits currently available.
	Available() int

	// InUse returns the number of permits currently held.
	InUse() int

	// Waiting returns the number of callers blocked in Wait or WaitN.
	Waiting() int
}

// Config holds configuration options for creating a Limiter.
type Config struct {
	// Capacity is the maximum number of concurrent operations allowed.
	Capacity int

	// InitialAvailable is the initial number of available permits.
	// If negative or greater than Capacity, defaults to Capacity.
	InitialAvailable int
}

// limiter implements Limiter. All state is guarded by mu; the Go runtime
// schedules holders on real OS threads, so the ledger invariant depends on
// this lock.
type limiter struct {
	mu        sync.Mutex
	capacity  int
	available int
	inUse     int
	waiters   []*waiter
}

// waiter represents a goroutine blocked until permits become available.
type waiter struct {
	n      int
	ready  chan struct{}
	cancel <-chan struct{}
}

// New creates a limiter allowing capacity concurrent operations.
func New(capacity int) (Limiter, error) {
	return NewWithConfig(Config{Capacity: capacity, InitialAvailable: -1})
}

// NewWithConfig creates a limiter from a Config.
func NewWithConfig(config Config) (Limiter, error) {
	if err := validation.ValidatePositive("concurrency", "capacity", config.Capacity); err != nil {
		return nil, err
	}

	initial := config.InitialAvailable
	if initial < 0 || initial > config.Capacity {
		initial = config.Capacity
	}

	return &limiter{
		capacity:  config.Capacity,
		available: initial,
		inUse:     config.Capacity - initial,
	}, nil
}

func (l *limiter) Acquire() bool {
	return l.AcquireN(1)
}

func (l *limiter) AcquireN(n int) bool {
	if n <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.available >= n {
		l.available -= n
		l.inUse += n
		return true
	}
	return false
}

func (l *limiter) Wait(ctx context.Context) error {
	return l.WaitN(ctx, 1)
}

func (l *limiter) WaitN(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	if n > l.Capacity() {
		return sferrors.ErrCapacityExceeded
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	l.mu.Lock()

	// Fast path: permits available immediately.
	if l.available >= n && len(l.waiters) == 0 {
		l.available -= n
		l.inUse += n
		l.mu.Unlock()
		return nil
	}

	w := &waiter{
		n:      n,
		ready:  make(chan struct{}),
		cancel: ctx.Done(),
	}
	l.waiters = append(l.waiters, w)
	l.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		l.removeWaiter(w)
		// A release may have satisfied the waiter before we removed it.
		select {
		case <-w.ready:
			return nil
		default:
		}
		return ctx.Err()
	}
}

func (l *limiter) Release() {
	l.ReleaseN(1)
}

func (l *limiter) ReleaseN(n int) {
	if n <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.inUse < n {
		panic("concurrency: released more permits than acquired")
	}

	l.available += n
	l.inUse -= n
	l.notifyWaiters()
}

func (l *limiter) SetCapacity(newCapacity int) {
	if newCapacity <= 0 {
		panic("concurrency: capacity must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	delta := newCapacity - l.capacity
	l.capacity = newCapacity

	if delta > 0 {
		l.available += delta
		l.notifyWaiters()
	} else if l.available+delta >= 0 {
		l.available += delta
	} else {
		// Cannot reduce below zero; the gap closes as permits come back.
		l.available = 0
	}
}

func (l *limiter) Capacity() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.capacity
}

func (l *limiter) Available() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.available
}

func (l *limiter) InUse() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inUse
}

func (l *limiter) Waiting() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.waiters)
}

// notifyWaiters hands permits to blocked waiters in arrival order.
// Must be called with l.mu held.
func (l *limiter) notifyWaiters() {
	remaining := l.waiters[:0]

	for _, w := range l.waiters {
		select {
		case <-w.cancel:
			continue
		default:
		}

		if l.available >= w.n {
			l.available -= w.n
			l.inUse += w.n
			close(w.ready)
		} else {
			remaining = append(remaining, w)
		}
	}

	l.waiters = remaining
}

func (l *limiter) removeWaiter(target *waiter) {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.waiters[:0]
	for _, w := range l.waiters {
		if w != target {
			remaining = append(remaining, w)
		}
	}
	l.waiters = remaining
}

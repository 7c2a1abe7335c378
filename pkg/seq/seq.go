package seq

import (
	"context"
	"sync/atomic"

	sferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
)

// ErrClosed is returned when attempting to operate on a closed sequence.
var ErrClosed = sferrors.ErrClosed

// Seq represents a lazy, pull-based sequence of elements. No work happens
// when operators are chained; elements are pulled from the source one at a
// time only when a terminal operation drives the chain, and only as many as
// the terminal operation needs.
//
// A sequence is consumed at most once: every terminal operation closes the
// sequence it ran on, and a second terminal call on the same value returns
// ErrClosed. Sequences derived from a shared upstream observe whatever the
// upstream has left; an exhausted upstream yields no further elements.
type Seq[T any] interface {
	// Next pulls the next element from the sequence. It returns the element
	// and true, or the zero value and false once the sequence is exhausted.
	// Callback panics inside the chain surface as a PanicError.
	Next(ctx context.Context) (T, bool, error)

	// Intermediate operations (lazy, return a new Seq)

	// Filter returns a sequence of the elements that match the given predicate.
	Filter(predicate func(T) bool) Seq[T]

	// Map returns a sequence of the results of applying mapper to each element.
	// For type-changing transforms use the package-level Map function.
	Map(mapper func(T) T) Seq[T]

	// FlatMap replaces each element with the contents of the sequence produced
	// by mapper, preserving element order.
	FlatMap(mapper func(T) Seq[T]) Seq[T]

	// Take returns a sequence truncated to at most n elements. Once n elements
	// have been yielded no further upstream pulls occur.
	Take(n int64) Seq[T]

	// Skip returns a sequence with the first n elements discarded.
	Skip(n int64) Seq[T]

	// TakeWhile yields elements while predicate holds, then stops pulling
	// upstream. The first failing element is dropped, not yielded.
	TakeWhile(predicate func(T) bool) Seq[T]

	// SkipWhile discards elements while predicate holds; the first failing
	// element and everything after it are yielded.
	SkipWhile(predicate func(T) bool) Seq[T]

	// Distinct returns a sequence with duplicate elements removed.
	Distinct() Seq[T]

	// Sorted returns a sequence sorted by compare. This buffers the entire
	// upstream on first pull.
	Sorted(compare func(a, b T) int) Seq[T]

	// Peek performs action on each element as it passes through, unchanged.
	Peek(action func(T)) Seq[T]

	// Terminal operations (eager, consume and close the sequence)

	// ForEach performs an action for each element of the sequence.
	ForEach(ctx context.Context, action func(T)) error

	// Reduce folds every element into an accumulator starting from identity.
	Reduce(ctx context.Context, identity T, accumulator func(T, T) T) (T, error)

	// ToSlice returns a slice containing all elements in order.
	ToSlice(ctx context.Context) ([]T, error)

	// Count returns the number of elements.
	Count(ctx context.Context) (int64, error)

	// FindFirst returns the first element, if present, then stops pulling.
	FindFirst(ctx context.Context) (T, bool, error)

	// Find returns the first element matching predicate, then stops pulling.
	Find(ctx context.Context, predicate func(T) bool) (T, bool, error)

	// AnyMatch returns whether any element matches the given predicate.
	AnyMatch(ctx context.Context, predicate func(T) bool) (bool, error)

	// AllMatch returns whether all elements match the given predicate.
	AllMatch(ctx context.Context, predicate func(T) bool) (bool, error)

	// NoneMatch returns whether no elements match the given predicate.
	NoneMatch(ctx context.Context, predicate func(T) bool) (bool, error)

	// Min returns the minimum element according to compare.
	Min(ctx context.Context, compare func(a, b T) int) (T, bool, error)

	// Max returns the maximum element according to compare.
	Max(ctx context.Context, compare func(a, b T) int) (T, bool, error)

	// Sequence control

	// Close closes the sequence and its upstream chain.
	Close() error

	// IsClosed returns true if the sequence is closed.
	IsClosed() bool
}

// Source is a pull-based producer feeding a sequence. Seq itself satisfies
// Source, which is how stages chain.
type Source[T any] interface {
	// Next returns the next element and true, or zero value and false if no
	// more elements.
	Next(ctx context.Context) (T, bool, error)
	// Close closes the source and releases resources.
	Close() error
}

// sequence is the default implementation of Seq.
type sequence[T any] struct {
	source Source[T]
	closed int32 // atomic
}

// New creates a Seq from a Source.
func New[T any](source Source[T]) Seq[T] {
	return &sequence[T]{source: source}
}

// FromSlice creates a Seq over a realized slice. The slice is not copied;
// it must not be mutated while the sequence is being consumed.
func FromSlice[T any](slice []T) Seq[T] {
	return New[T](&sliceSource[T]{slice: slice})
}

// FromChannel creates a Seq draining a channel.
func FromChannel[T any](ch <-chan T) Seq[T] {
	return New[T](&channelSource[T]{ch: ch})
}

// Generate creates an unbounded Seq from a generator function. Bound it with
// Take or TakeWhile before using a terminal operation that consumes to
// exhaustion.
func Generate[T any](generator func() T) Seq[T] {
	return New[T](&generatorSource[T]{generator: generator})
}

// Empty creates an empty Seq.
func Empty[T any]() Seq[T] {
	return New[T](&emptySource[T]{})
}

// derive wraps a stage source into a new sequence value.
func derive[T any](source Source[T]) Seq[T] {
	return &sequence[T]{source: source}
}

func (s *sequence[T]) Filter(predicate func(T) bool) Seq[T] {
	return derive[T](&filterStage[T]{upstream: s.source, predicate: predicate})
}

func (s *sequence[T]) Map(mapper func(T) T) Seq[T] {
	return derive[T](&mapStage[T]{upstream: s.source, mapper: mapper})
}

func (s *sequence[T]) FlatMap(mapper func(T) Seq[T]) Seq[T] {
	return derive[T](&flatMapStage[T, T]{
		upstream: s.source,
		mapper:   func(v T) Source[T] { return mapper(v) },
	})
}

func (s *sequence[T]) Take(n int64) Seq[T] {
	if n < 0 {
		n = 0
	}
	return derive[T](&takeStage[T]{upstream: s.source, limit: n})
}

func (s *sequence[T]) Skip(n int64) Seq[T] {
	if n < 0 {
		n = 0
	}
	return derive[T](&skipStage[T]{upstream: s.source, count: n})
}

func (s *sequence[T]) TakeWhile(predicate func(T) bool) Seq[T] {
	return derive[T](&takeWhileStage[T]{upstream: s.source, predicate: predicate})
}

func (s *sequence[T]) SkipWhile(predicate func(T) bool) Seq[T] {
	return derive[T](&skipWhileStage[T]{upstream: s.source, predicate: predicate, skipping: true})
}

func (s *sequence[T]) Distinct() Seq[T] {
	return derive[T](&distinctStage[T]{upstream: s.source})
}

func (s *sequence[T]) Sorted(compare func(a, b T) int) Seq[T] {
	return derive[T](&sortedStage[T]{upstream: s.source, compare: compare})
}

func (s *sequence[T]) Peek(action func(T)) Seq[T] {
	return derive[T](&peekStage[T]{upstream: s.source, action: action})
}

// Next pulls one element through the stage chain, converting callback panics
// into a PanicError so a misbehaving user function cannot take down the
// consumer.
func (s *sequence[T]) Next(ctx context.Context) (value T, ok bool, err error) {
	var zero T
	if s.IsClosed() {
		return zero, false, ErrClosed
	}

	defer func() {
		if r := recover(); r != nil {
			value, ok, err = zero, false, sferrors.NewPanicError(r)
		}
	}()

	return s.source.Next(ctx)
}

func (s *sequence[T]) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil // Already closed
	}

	if s.source != nil {
		return s.source.Close()
	}
	return nil
}

func (s *sequence[T]) IsClosed() bool {
	return atomic.LoadInt32(&s.closed) != 0
}

package seq

import (
	"context"

	"github.com/vnykmshr/seqflow/pkg/common/validation"
)

// Type-changing operators live at package level because Go methods cannot
// introduce new type parameters.

// Map returns a sequence of the results of applying mapper to each element
// of s, changing the element type.
func Map[In, Out any](s Seq[In], mapper func(In) Out) Seq[Out] {
	return derive[Out](&mappingStage[In, Out]{upstream: s, mapper: mapper})
}

// FlatMap replaces each element of s with the contents of the sequence
// produced by mapper, changing the element type.
func FlatMap[In, Out any](s Seq[In], mapper func(In) Seq[Out]) Seq[Out] {
	return derive[Out](&flatMapStage[In, Out]{
		upstream: s,
		mapper:   func(v In) Source[Out] { return mapper(v) },
	})
}

// Chunk groups the elements of s into slices of the given size; the final
// slice may be shorter. A non-positive size is a configuration error,
// reported before any element is pulled.
func Chunk[T any](s Seq[T], size int) (Seq[[]T], error) {
	if err := validation.ValidatePositive("seq", "size", size); err != nil {
		return nil, err
	}
	return derive[[]T](&chunkStage[T]{upstream: s, size: size}), nil
}

// Number covers the built-in numeric element types.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Sum consumes s and returns the sum of its elements.
func Sum[T Number](ctx context.Context, s Seq[T]) (T, error) {
	var total T
	return s.Reduce(ctx, total, func(acc, v T) T { return acc + v })
}

// mappingStage adapts a Seq[In] into a Source[Out] via a mapper.
type mappingStage[In, Out any] struct {
	upstream Source[In]
	mapper   func(In) Out
}

func (m *mappingStage[In, Out]) Next(ctx context.Context) (Out, bool, error) {
	var zero Out
	value, ok, err := m.upstream.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	return m.mapper(value), true, nil
}

func (m *mappingStage[In, Out]) Close() error {
	return m.upstream.Close()
}

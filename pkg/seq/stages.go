package seq

import (
	"context"
	"sort"
)

// Stages are pull-through sources: each wraps its upstream and applies its
// own logic per pull. Nothing is evaluated until a consumer pulls, stages
// never reorder elements, and a stage that is done stops pulling upstream.

// filterStage discards elements failing the predicate.
type filterStage[T any] struct {
	upstream  Source[T]
	predicate func(T) bool
}

func (f *filterStage[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		value, ok, err := f.upstream.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		if f.predicate(value) {
			return value, true, nil
		}
	}
}

func (f *filterStage[T]) Close() error {
	return f.upstream.Close()
}

// mapStage transforms each element.
type mapStage[T any] struct {
	upstream Source[T]
	mapper   func(T) T
}

func (m *mapStage[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	value, ok, err := m.upstream.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	return m.mapper(value), true, nil
}

func (m *mapStage[T]) Close() error {
	return m.upstream.Close()
}

// flatMapStage substitutes each upstream element with the elements of a
// mapped sub-source, drained in order before the next upstream pull.
type flatMapStage[In, Out any] struct {
	upstream Source[In]
	mapper   func(In) Source[Out]
	inner    Source[Out]
}

func (f *flatMapStage[In, Out]) Next(ctx context.Context) (Out, bool, error) {
	var zero Out
	for {
		if f.inner != nil {
			value, ok, err := f.inner.Next(ctx)
			if err != nil {
				return zero, false, err
			}
			if ok {
				return value, true, nil
			}
			_ = f.inner.Close()
			f.inner = nil
		}

		value, ok, err := f.upstream.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		f.inner = f.mapper(value)
	}
}

func (f *flatMapStage[In, Out]) Close() error {
	if f.inner != nil {
		_ = f.inner.Close()
		f.inner = nil
	}
	return f.upstream.Close()
}

// takeStage yields at most limit elements. After the limit is reached it
// never pulls upstream again, so an n-element bound costs exactly n pulls.
type takeStage[T any] struct {
	upstream Source[T]
	limit    int64
	seen     int64
}

func (t *takeStage[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if t.seen >= t.limit {
		return zero, false, nil
	}

	value, ok, err := t.upstream.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	t.seen++
	return value, true, nil
}

func (t *takeStage[T]) Close() error {
	return t.upstream.Close()
}

// skipStage discards the first count elements before yielding anything.
type skipStage[T any] struct {
	upstream Source[T]
	count    int64
	skipped  bool
}

func (s *skipStage[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if !s.skipped {
		s.skipped = true
		for i := int64(0); i < s.count; i++ {
			_, ok, err := s.upstream.Next(ctx)
			if err != nil || !ok {
				return zero, false, err
			}
		}
	}
	return s.upstream.Next(ctx)
}

func (s *skipStage[T]) Close() error {
	return s.upstream.Close()
}

// takeWhileStage yields elements while the predicate holds. The element that
// fails the predicate is dropped and no further upstream pulls occur.
type takeWhileStage[T any] struct {
	upstream  Source[T]
	predicate func(T) bool
	done      bool
}

func (t *takeWhileStage[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if t.done {
		return zero, false, nil
	}

	value, ok, err := t.upstream.Next(ctx)
	if err != nil || !ok {
		t.done = true
		return zero, false, err
	}
	if !t.predicate(value) {
		t.done = true
		return zero, false, nil
	}
	return value, true, nil
}

func (t *takeWhileStage[T]) Close() error {
	return t.upstream.Close()
}

// skipWhileStage discards elements while the predicate holds; the first
// failing element is yielded, as is everything after it.
type skipWhileStage[T any] struct {
	upstream  Source[T]
	predicate func(T) bool
	skipping  bool
}

func (s *skipWhileStage[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		value, ok, err := s.upstream.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		if s.skipping && s.predicate(value) {
			continue
		}
		s.skipping = false
		return value, true, nil
	}
}

func (s *skipWhileStage[T]) Close() error {
	return s.upstream.Close()
}

// chunkStage groups size upstream elements per yielded slice; the final
// group may be shorter.
type chunkStage[T any] struct {
	upstream Source[T]
	size     int
}

func (c *chunkStage[T]) Next(ctx context.Context) ([]T, bool, error) {
	batch := make([]T, 0, c.size)
	for len(batch) < c.size {
		value, ok, err := c.upstream.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}
		batch = append(batch, value)
	}

	if len(batch) == 0 {
		return nil, false, nil
	}
	return batch, true, nil
}

func (c *chunkStage[T]) Close() error {
	return c.upstream.Close()
}

// distinctStage removes duplicate elements. Element values are used as map
// keys, so element types must be comparable at runtime.
type distinctStage[T any] struct {
	upstream Source[T]
	seen     map[interface{}]bool
}

func (d *distinctStage[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if d.seen == nil {
		d.seen = make(map[interface{}]bool)
	}

	for {
		value, ok, err := d.upstream.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		key := interface{}(value)
		if !d.seen[key] {
			d.seen[key] = true
			return value, true, nil
		}
	}
}

func (d *distinctStage[T]) Close() error {
	return d.upstream.Close()
}

// sortedStage buffers the entire upstream on first pull and serves the
// elements in sorted order.
type sortedStage[T any] struct {
	upstream Source[T]
	compare  func(a, b T) int
	buffered []T
	index    int
	loaded   bool
}

func (s *sortedStage[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if !s.loaded {
		for {
			value, ok, err := s.upstream.Next(ctx)
			if err != nil {
				return zero, false, err
			}
			if !ok {
				break
			}
			s.buffered = append(s.buffered, value)
		}
		sort.SliceStable(s.buffered, func(i, j int) bool {
			return s.compare(s.buffered[i], s.buffered[j]) < 0
		})
		s.loaded = true
	}

	if s.index >= len(s.buffered) {
		return zero, false, nil
	}
	value := s.buffered[s.index]
	s.index++
	return value, true, nil
}

func (s *sortedStage[T]) Close() error {
	s.buffered = nil
	return s.upstream.Close()
}

// peekStage invokes an action on each element without modifying it.
type peekStage[T any] struct {
	upstream Source[T]
	action   func(T)
}

func (p *peekStage[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	value, ok, err := p.upstream.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	p.action(value)
	return value, true, nil
}

func (p *peekStage[T]) Close() error {
	return p.upstream.Close()
}

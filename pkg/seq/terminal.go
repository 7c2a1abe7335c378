package seq

import (
	"context"

	sferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
)

// drive pulls the chain to exhaustion or until visit returns false, then
// closes the sequence. Panics raised by terminal callbacks are converted to
// a PanicError; there is no partial-result recovery, an error mid-stream
// discards whatever a collecting terminal had accumulated.
func (s *sequence[T]) drive(ctx context.Context, visit func(T) bool) (err error) {
	if s.IsClosed() {
		return ErrClosed
	}

	defer func() { _ = s.Close() }()
	defer func() {
		if r := recover(); r != nil {
			err = sferrors.NewPanicError(r)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		value, ok, err := s.source.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if !visit(value) {
			return nil
		}
	}
}

func (s *sequence[T]) ForEach(ctx context.Context, action func(T)) error {
	return s.drive(ctx, func(value T) bool {
		action(value)
		return true
	})
}

func (s *sequence[T]) Reduce(ctx context.Context, identity T, accumulator func(T, T) T) (T, error) {
	result := identity
	err := s.drive(ctx, func(value T) bool {
		result = accumulator(result, value)
		return true
	})
	if err != nil {
		return identity, err
	}
	return result, nil
}

func (s *sequence[T]) ToSlice(ctx context.Context) ([]T, error) {
	var result []T
	err := s.drive(ctx, func(value T) bool {
		result = append(result, value)
		return true
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *sequence[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.drive(ctx, func(T) bool {
		count++
		return true
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *sequence[T]) FindFirst(ctx context.Context) (T, bool, error) {
	return s.Find(ctx, func(T) bool { return true })
}

// Find stops pulling upstream the moment the predicate matches; stages ahead
// of it are not invoked again.
func (s *sequence[T]) Find(ctx context.Context, predicate func(T) bool) (T, bool, error) {
	var (
		zero  T
		match T
		found bool
	)
	err := s.drive(ctx, func(value T) bool {
		if predicate(value) {
			match = value
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return zero, false, err
	}
	return match, found, nil
}

func (s *sequence[T]) AnyMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	_, found, err := s.Find(ctx, predicate)
	return found, err
}

func (s *sequence[T]) AllMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	all := true
	err := s.drive(ctx, func(value T) bool {
		if !predicate(value) {
			all = false
			return false
		}
		return true
	})
	if err != nil {
		return false, err
	}
	return all, nil
}

func (s *sequence[T]) NoneMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	found, err := s.AnyMatch(ctx, predicate)
	return !found, err
}

func (s *sequence[T]) Min(ctx context.Context, compare func(a, b T) int) (T, bool, error) {
	var (
		zero  T
		best  T
		found bool
	)
	err := s.drive(ctx, func(value T) bool {
		if !found || compare(value, best) < 0 {
			best = value
			found = true
		}
		return true
	})
	if err != nil {
		return zero, false, err
	}
	return best, found, nil
}

func (s *sequence[T]) Max(ctx context.Context, compare func(a, b T) int) (T, bool, error) {
	var (
		zero  T
		best  T
		found bool
	)
	err := s.drive(ctx, func(value T) bool {
		if !found || compare(value, best) > 0 {
			best = value
			found = true
		}
		return true
	})
	if err != nil {
		return zero, false, err
	}
	return best, found, nil
}

package seq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vnykmshr/seqflow/internal/testutil"
	sferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
)

// countingSource wraps a slice and records how many times it was pulled,
// for verifying that bounded stages do not over-pull.
type countingSource[T any] struct {
	slice []T
	index int
	pulls int
}

func (c *countingSource[T]) Next(_ context.Context) (T, bool, error) {
	var zero T
	c.pulls++
	if c.index >= len(c.slice) {
		return zero, false, nil
	}
	value := c.slice[c.index]
	c.index++
	return value, true, nil
}

func (c *countingSource[T]) Close() error {
	return nil
}

func TestFromSlice(t *testing.T) {
	s := FromSlice([]int{1, 2, 3, 4, 5})
	defer s.Close()

	result, err := s.ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 5)
	testutil.AssertEqual(t, result[0], 1)
	testutil.AssertEqual(t, result[4], 5)
}

func TestEmpty(t *testing.T) {
	s := Empty[int]()
	defer s.Close()

	result, err := s.ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 0)

	count, err := Empty[string]().Count(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, int64(0))
}

func TestFromChannel(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "hello"
	ch <- "world"
	ch <- "test"
	close(ch)

	s := FromChannel(ch)
	defer s.Close()

	result, err := s.ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 3)
	testutil.AssertEqual(t, result[0], "hello")
	testutil.AssertEqual(t, result[1], "world")
	testutil.AssertEqual(t, result[2], "test")
}

func TestFilter(t *testing.T) {
	s := FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}).
		Filter(func(x int) bool { return x%2 == 0 })
	defer s.Close()

	result, err := s.ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 5)
	testutil.AssertEqual(t, result[0], 2)
	testutil.AssertEqual(t, result[4], 10)
}

func TestMap(t *testing.T) {
	s := FromSlice([]int{1, 2, 3, 4, 5}).
		Map(func(x int) int { return x * 2 })
	defer s.Close()

	result, err := s.ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 5)
	testutil.AssertEqual(t, result[0], 2)
	testutil.AssertEqual(t, result[4], 10)
}

func TestFlatMap(t *testing.T) {
	s := FromSlice([]int{1, 2, 3}).
		FlatMap(func(x int) Seq[int] { return FromSlice([]int{x, x * 10}) })
	defer s.Close()

	result, err := s.ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 6)

	expected := []int{1, 10, 2, 20, 3, 30}
	for i, v := range expected {
		testutil.AssertEqual(t, result[i], v)
	}
}

func TestChainedOperations(t *testing.T) {
	s := FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}).
		Filter(func(x int) bool { return x%2 == 0 }). // 2, 4, 6, 8, 10
		Map(func(x int) int { return x * 3 }).        // 6, 12, 18, 24, 30
		Skip(1).                                      // 12, 18, 24, 30
		Take(2)                                       // 12, 18
	defer s.Close()

	result, err := s.ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 2)
	testutil.AssertEqual(t, result[0], 12)
	testutil.AssertEqual(t, result[1], 18)
}

func TestTakeNoOverPull(t *testing.T) {
	source := &countingSource[int]{slice: []int{1, 2, 3, 4, 5, 6, 7, 8}}
	s := New[int](source).Take(3)
	defer s.Close()

	result, err := s.ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 3)

	// Exactly 3 upstream pulls; the bound is never probed past.
	testutil.AssertEqual(t, source.pulls, 3)
}

func TestTakeZeroAndNegative(t *testing.T) {
	source := &countingSource[int]{slice: []int{1, 2, 3}}
	result, err := New[int](source).Take(0).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 0)
	testutil.AssertEqual(t, source.pulls, 0)

	result, err = FromSlice([]int{1, 2, 3}).Take(-1).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 0)
}

func TestSkip(t *testing.T) {
	result, err := FromSlice([]int{1, 2, 3, 4, 5}).
		Skip(3).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 2)
	testutil.AssertEqual(t, result[0], 4)
	testutil.AssertEqual(t, result[1], 5)
}

func TestSkipPastEnd(t *testing.T) {
	result, err := FromSlice([]int{1, 2}).
		Skip(10).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 0)
}

func TestTakeWhile(t *testing.T) {
	source := &countingSource[int]{slice: []int{1, 2, 3, 10, 4, 5}}
	s := New[int](source).TakeWhile(func(x int) bool { return x < 5 })
	defer s.Close()

	result, err := s.ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 3)
	testutil.AssertEqual(t, result[2], 3)

	// The failing element (10) was pulled and dropped; nothing after it was.
	testutil.AssertEqual(t, source.pulls, 4)
}

func TestSkipWhile(t *testing.T) {
	result, err := FromSlice([]int{1, 2, 3, 10, 4, 5}).
		SkipWhile(func(x int) bool { return x < 5 }).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 3)
	testutil.AssertEqual(t, result[0], 10)
	testutil.AssertEqual(t, result[1], 4)
	testutil.AssertEqual(t, result[2], 5)
}

func TestDistinct(t *testing.T) {
	result, err := FromSlice([]int{1, 2, 2, 3, 3, 3, 4, 4, 5}).
		Distinct().
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 5)

	expected := []int{1, 2, 3, 4, 5}
	for i, v := range expected {
		testutil.AssertEqual(t, result[i], v)
	}
}

func TestSorted(t *testing.T) {
	result, err := FromSlice([]int{5, 2, 8, 1, 9}).
		Sorted(func(a, b int) int { return a - b }).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 5)
	testutil.AssertEqual(t, result[0], 1)
	testutil.AssertEqual(t, result[4], 9)
}

func TestPeek(t *testing.T) {
	var seen []int
	result, err := FromSlice([]int{1, 2, 3}).
		Peek(func(x int) { seen = append(seen, x) }).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 3)
	testutil.AssertEqual(t, len(seen), 3)
	testutil.AssertEqual(t, seen[0], 1)
}

func TestForEach(t *testing.T) {
	var sum int
	err := FromSlice([]int{1, 2, 3, 4}).
		ForEach(context.Background(), func(x int) { sum += x })
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sum, 10)
}

func TestReduce(t *testing.T) {
	total, err := FromSlice([]int{1, 2, 3, 4, 5}).
		Reduce(context.Background(), 0, func(acc, x int) int { return acc + x })
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, total, 15)
}

func TestCount(t *testing.T) {
	count, err := FromSlice([]string{"a", "b", "c"}).
		Count(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, int64(3))
}

func TestFindFirst(t *testing.T) {
	value, found, err := FromSlice([]int{7, 8, 9}).
		FindFirst(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, found, true)
	testutil.AssertEqual(t, value, 7)

	_, found, err = Empty[int]().FindFirst(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, found, false)
}

func TestFindShortCircuit(t *testing.T) {
	// An in-principle unbounded source: Find must stop at the first match.
	n := 0
	s := Generate(func() int { n++; return n })
	defer s.Close()

	value, found, err := s.Find(context.Background(), func(x int) bool { return x%7 == 0 })
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, found, true)
	testutil.AssertEqual(t, value, 7)

	// Pulled only up to and including the first match.
	testutil.AssertEqual(t, n, 7)
}

func TestMatchers(t *testing.T) {
	even := func(x int) bool { return x%2 == 0 }

	any, err := FromSlice([]int{1, 3, 4}).AnyMatch(context.Background(), even)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, any, true)

	all, err := FromSlice([]int{2, 4, 6}).AllMatch(context.Background(), even)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, all, true)

	all, err = FromSlice([]int{2, 3, 6}).AllMatch(context.Background(), even)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, all, false)

	none, err := FromSlice([]int{1, 3, 5}).NoneMatch(context.Background(), even)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, none, true)
}

func TestMinMax(t *testing.T) {
	cmp := func(a, b int) int { return a - b }

	minValue, found, err := FromSlice([]int{5, 2, 8, 1, 9}).Min(context.Background(), cmp)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, found, true)
	testutil.AssertEqual(t, minValue, 1)

	maxValue, found, err := FromSlice([]int{5, 2, 8, 1, 9}).Max(context.Background(), cmp)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, found, true)
	testutil.AssertEqual(t, maxValue, 9)

	_, found, err = Empty[int]().Min(context.Background(), cmp)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, found, false)
}

func TestLazyEagerEquivalence(t *testing.T) {
	input := []int{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}

	// Eager reference: same operators applied directly on the slice.
	var eager []int
	for _, x := range input {
		if x%2 == 1 {
			eager = append(eager, x*x)
		}
	}

	lazy, err := FromSlice(input).
		Filter(func(x int) bool { return x%2 == 1 }).
		Map(func(x int) int { return x * x }).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, len(lazy), len(eager))
	for i := range eager {
		testutil.AssertEqual(t, lazy[i], eager[i])
	}
}

func TestSecondTerminalReturnsClosed(t *testing.T) {
	s := FromSlice([]int{1, 2, 3})

	_, err := s.ToSlice(context.Background())
	testutil.AssertNoError(t, err)

	_, err = s.ToSlice(context.Background())
	testutil.AssertError(t, err)
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	_, err = s.Count(context.Background())
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestCallbackPanicPropagates(t *testing.T) {
	_, err := FromSlice([]int{1, 2, 3}).
		Map(func(x int) int {
			if x == 2 {
				panic("bad element")
			}
			return x
		}).
		ToSlice(context.Background())

	testutil.AssertError(t, err)
	if !sferrors.IsPanic(err) {
		t.Fatalf("expected PanicError, got %v", err)
	}
}

func TestForEachKeepsConsumedElementsOnFailure(t *testing.T) {
	var seen []int
	err := FromSlice([]int{1, 2, 3, 4}).
		ForEach(context.Background(), func(x int) {
			if x == 3 {
				panic("stop here")
			}
			seen = append(seen, x)
		})

	testutil.AssertError(t, err)
	// Elements handed to the action before the failure are not retracted.
	testutil.AssertEqual(t, len(seen), 2)
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FromSlice([]int{1, 2, 3}).ToSlice(ctx)
	testutil.AssertError(t, err)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	s := Generate(func() int {
		time.Sleep(time.Millisecond)
		return 1
	})
	defer s.Close()

	_, err := s.Count(ctx)
	testutil.AssertError(t, err)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

/*
Package seq provides lazy, pull-based sequence pipelines over ordered data.

A Seq represents an ordered sequence of elements. Sequences are:
  - Lazy: chaining operators performs no work; elements are pulled from the
    source only when a terminal operation runs, and only as many as needed
  - Ordered: every stage preserves the relative order of the elements it
    receives from upstream
  - Single-use: a terminal operation consumes and closes the sequence; a
    second terminal call on the same value returns ErrClosed
  - Context-aware: terminal operations respect context cancellation

Basic Usage:

	s := seq.FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	defer s.Close()

	result, err := s.
		Filter(func(x int) bool { return x%2 == 0 }).
		Map(func(x int) int { return x * 2 }).
		Take(3).
		ToSlice(context.Background())

	// result: [4 8 12]

Sequence Creation:

	seq.FromSlice([]string{"a", "b", "c"}) // from a realized slice
	seq.FromChannel(ch)                    // drain a channel
	seq.Generate(next)                     // unbounded generator
	seq.Empty[int]()                       // empty sequence
	seq.New(source)                        // custom Source

Short-circuiting:

Take, TakeWhile, Find, FindFirst, AnyMatch and AllMatch stop pulling upstream
as soon as their contract is satisfied. Take(n) performs exactly n upstream
pulls; it never pulls an element just to discard it. This makes unbounded
Generate sources safe to bound:

	n := 0
	first, _, _ := seq.Generate(func() int { n++; return n }).
		Filter(func(x int) bool { return x%7 == 0 }).
		FindFirst(ctx) // pulls 7 elements, yields 7

Type-changing transforms are package-level functions, since Go methods cannot
introduce type parameters:

	lengths := seq.Map(words, func(w string) int { return len(w) })
	batches, _ := seq.Chunk(records, 100)

Error Handling:

User callbacks that panic are recovered at the pull boundary and surface as a
*errors.PanicError from the terminal operation. A failure mid-stream aborts
the drive: collecting terminals return no partial result, and elements already
handed to a ForEach action are not retracted.

Batch iteration over realized slices is provided by Cursor and Batches for
memory-bounded consumption of large result sets.
*/
package seq

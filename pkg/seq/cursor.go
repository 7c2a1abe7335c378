package seq

import (
	"context"

	"github.com/vnykmshr/seqflow/pkg/common/validation"
)

// Cursor iterates over a realized slice in fixed-size contiguous batches.
// Each batch is computed only when requested, so a large backing slice can
// be consumed with only one batch resident at a time. Batches are sub-slices
// of the backing array and must not be retained past the call that uses them.
type Cursor[T any] struct {
	items  []T
	size   int
	offset int
}

// NewCursor creates a Cursor yielding batches of the given size. A
// non-positive size is a configuration error.
func NewCursor[T any](items []T, size int) (*Cursor[T], error) {
	if err := validation.ValidatePositive("seq", "size", size); err != nil {
		return nil, err
	}
	return &Cursor[T]{items: items, size: size}, nil
}

// Next returns the next batch and true, or nil and false once the cursor is
// exhausted. The final batch may be shorter than the configured size.
func (c *Cursor[T]) Next() ([]T, bool) {
	if c.offset >= len(c.items) {
		return nil, false
	}

	end := c.offset + c.size
	if end > len(c.items) {
		end = len(c.items)
	}
	batch := c.items[c.offset:end:end]
	c.offset = end
	return batch, true
}

// Remaining returns the number of items not yet yielded.
func (c *Cursor[T]) Remaining() int {
	if c.offset >= len(c.items) {
		return 0
	}
	return len(c.items) - c.offset
}

// Reset rewinds the cursor to the start of the backing slice.
func (c *Cursor[T]) Reset() {
	c.offset = 0
}

// Batches adapts cursor iteration into a Seq of batches so batch slices can
// flow through a lazy pipeline.
func Batches[T any](items []T, size int) (Seq[[]T], error) {
	cursor, err := NewCursor(items, size)
	if err != nil {
		return nil, err
	}
	return New[[]T](&cursorSource[T]{cursor: cursor}), nil
}

// cursorSource adapts a Cursor to the Source interface.
type cursorSource[T any] struct {
	cursor *Cursor[T]
}

func (s *cursorSource[T]) Next(ctx context.Context) ([]T, bool, error) {
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	default:
	}

	batch, ok := s.cursor.Next()
	return batch, ok, nil
}

func (s *cursorSource[T]) Close() error {
	return nil
}

package lazyseq

import "iter"

// Cursor is a move-only view onto a cache shared with zero or more other
// cursors. Each cursor has its own read offset; [Cursor.Save] forks a new
// cursor at the current offset without disturbing this one.
//
// Cursor must not be copied. Copying it by value would let two Go values
// mutate the same slot independently, corrupting the cache's slot
// bookkeeping exactly as the source's "non-copyable" requirement warns
// against; Go has no compiler enforcement for this (there is no embedded
// mutex to trip go vet's copylocks check), so treat a Cursor the way you
// would treat a *bufio.Reader wrapping a pipe: pass it by reference,
// close it exactly once, and never duplicate it except via Save.
type Cursor[T any] struct {
	cache *elementCache[T]
	slot  int
}

func (c *Cursor[T]) mustLive(op string) {
	if c.cache == nil {
		fail(op, "cursor already closed", nil)
	}
}

// Empty reports whether there is no next element for this cursor. May
// pull one element from the producer as a side effect: when the cache
// holds nothing at or beyond this cursor's position, answering requires
// pulling the next element.
func (c *Cursor[T]) Empty() bool {
	c.mustLive("Cursor.Empty")

	return c.cache.empty(c.slot)
}

// Front returns the element at this cursor's current position,
// materializing it first if necessary. Panics with a [PreconditionError]
// if the cursor is already past the end of an exhausted producer.
func (c *Cursor[T]) Front() T {
	c.mustLive("Cursor.Front")

	return c.cache.front(c.slot)
}

// TryFront is the non-panicking form of Front: it reports false instead
// of panicking when the cursor is at the end of an exhausted producer.
func (c *Cursor[T]) TryFront() (T, bool) {
	c.mustLive("Cursor.TryFront")

	if c.cache.empty(c.slot) {
		var zero T

		return zero, false
	}

	return c.cache.front(c.slot), true
}

// PopFront advances this cursor past its current element, materializing
// it first if necessary. Panics with a [PreconditionError] if the cursor
// is already past the end of an exhausted producer.
func (c *Cursor[T]) PopFront() {
	c.mustLive("Cursor.PopFront")
	c.cache.popFront(c.slot)
}

// Index returns the element i positions beyond this cursor's current
// position, without advancing it. Panics if i is negative or past the
// end of an exhausted producer.
func (c *Cursor[T]) Index(i int) T {
	c.mustLive("Cursor.Index")

	return c.cache.index(c.slot, i)
}

// Length returns the total number of elements from this cursor's current
// position to the end of the producer's sequence, including elements
// not yet pulled. ok is false if the wrapped producer does not report a
// length.
func (c *Cursor[T]) Length() (n int, ok bool) {
	c.mustLive("Cursor.Length")

	return c.cache.length(c.slot)
}

// Save creates a new cursor at this cursor's current offset. The two
// cursors advance independently from that point on.
func (c *Cursor[T]) Save() *Cursor[T] {
	c.mustLive("Cursor.Save")

	offset := c.cache.offsets[c.slot]
	slot := c.cache.makeSlice(offset)

	return &Cursor[T]{cache: c.cache, slot: slot}
}

// Close detaches this cursor from the shared cache. Using the cursor
// after Close panics.
func (c *Cursor[T]) Close() {
	if c.cache == nil {
		return
	}

	c.cache.closeSlice(c.slot)
	c.cache = nil
}

// Stats returns the cache's current statistics payload.
func (c *Cursor[T]) Stats() Stats {
	c.mustLive("Cursor.Stats")

	return c.cache.snapshotStats()
}

// Compact removes empty heap blocks from the backing chain. It is never
// invoked automatically - only explicit calls trigger it - and returns
// the number of blocks removed.
func (c *Cursor[T]) Compact() int {
	c.mustLive("Cursor.Compact")

	return c.cache.compact()
}

// All returns an iterator over the remaining elements from this cursor's
// current position, consuming the cursor as it goes (equivalent to
// repeated Front/PopFront). It exists because a move-only Cursor cannot
// be copied into a for-range over a value type the way a copyable
// iterable could be.
func (c *Cursor[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for !c.Empty() {
			v := c.Front()
			if !yield(v) {
				return
			}

			c.PopFront()
		}
	}
}

// Enumerate is [Cursor.All] paired with each element's index relative to
// this cursor's position at the start of iteration.
func (c *Cursor[T]) Enumerate() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := 0

		for !c.Empty() {
			v := c.Front()
			if !yield(i, v) {
				return
			}

			c.PopFront()

			i++
		}
	}
}

package lazyseq

const vacant = -1

// elementCache is the shared, pull-on-demand materializer behind every
// [Cursor] cloned from the same root. It owns the producer and the
// backing [blockChain], and is mutated even by read-looking operations
// (front) because satisfying a read may require pulling from the
// producer into the chain.
//
// elementCache is never copied; it is always reached through a pointer
// shared by every live cursor.
type elementCache[T any] struct {
	producer    Producer[T]
	lenProducer LenProducer[T] // non-nil iff producer also implements LenProducer

	chain *blockChain[T]

	offsets []int // per-slot read offset into chain's index space, or vacant
	live    int   // count of non-vacant slots == count of live cursors

	attempts int
	minDrop  int

	stats Stats
}

func newElementCache[T any](p Producer[T], chain *blockChain[T]) *elementCache[T] {
	c := &elementCache[T]{producer: p, chain: chain}

	if lp, ok := p.(LenProducer[T]); ok {
		c.lenProducer = lp
	}

	c.minDrop = chain.heapBlockCapacityHint / defaultMinDropDivisor
	if c.minDrop < 1 {
		c.minDrop = 1
	}

	return c
}

// makeSlice allocates a slot initialized to offset, reusing a vacant slot
// if one exists, and returns its id.
func (c *elementCache[T]) makeSlice(offset int) int {
	for i, o := range c.offsets {
		if o == vacant {
			c.offsets[i] = offset
			c.live++

			return i
		}
	}

	c.offsets = append(c.offsets, offset)
	c.live++

	return len(c.offsets) - 1
}

// closeSlice marks a slot vacant, detaching its cursor from the cache.
func (c *elementCache[T]) closeSlice(s int) {
	c.checkSlot("Cursor.Close", s)
	c.offsets[s] = vacant
	c.live--
}

func (c *elementCache[T]) checkSlot(op string, s int) {
	if s < 0 || s >= len(c.offsets) || c.offsets[s] == vacant {
		fail(op, "invalid or detached cursor slot", s)
	}
}

// pullOne pulls exactly one element from the producer into the chain.
// Returns false if the producer was already exhausted.
func (c *elementCache[T]) pullOne() bool {
	if c.producer.Exhausted() {
		return false
	}

	v := c.producer.Peek()
	c.producer.Advance()
	c.chain.append(v)

	return true
}

// expandAsNeeded pulls from the producer until the chain holds at least
// needed elements beyond offset, or the producer is exhausted. Reports
// whether the requirement was satisfied.
func (c *elementCache[T]) expandAsNeeded(offset, needed int) bool {
	for c.chain.length-offset < needed {
		if !c.pullOne() {
			return false
		}
	}

	return true
}

// empty reports whether slot s has no more elements to observe.
//
// When O[s] already points within the cached window this is a pure read.
// Otherwise it must ask the producer, and - per spec - answering "is
// there a next element for this cursor" requires actually pulling one
// element if the producer isn't already known to be exhausted. This
// means empty can perform exactly one pull as a side effect; that
// asymmetry is intentional and preserved rather than papered over.
func (c *elementCache[T]) empty(s int) bool {
	c.checkSlot("Cursor.Empty", s)

	offset := c.offsets[s]
	if offset < c.chain.length {
		return false
	}

	if c.producer.Exhausted() {
		return true
	}

	return !c.pullOne()
}

// front returns the element at slot s's current offset, materializing it
// first if necessary.
func (c *elementCache[T]) front(s int) T {
	c.checkSlot("Cursor.Front", s)

	offset := c.offsets[s]
	if !c.expandAsNeeded(offset, 1) {
		fail("Cursor.Front", "cursor is past the end of an exhausted producer", offset)
	}

	return c.chain.index(offset)
}

// popFront advances slot s past its current element, materializing that
// element first if necessary, and runs the drop-leading heuristic.
func (c *elementCache[T]) popFront(s int) {
	c.checkSlot("Cursor.PopFront", s)

	if !c.expandAsNeeded(c.offsets[s], 1) {
		fail("Cursor.PopFront", "cursor is past the end of an exhausted producer", c.offsets[s])
	}

	c.offsets[s]++

	if c.offsets[s] >= c.minDrop {
		c.maybeDropLeading()
	}
}

// index returns the element i positions beyond slot s's current offset.
func (c *elementCache[T]) index(s, i int) T {
	c.checkSlot("Cursor.Index", s)

	if i < 0 {
		fail("Cursor.Index", "negative index", i)
	}

	offset := c.offsets[s]
	if !c.expandAsNeeded(offset, i+1) {
		fail("Cursor.Index", "index past the end of an exhausted producer", i)
	}

	return c.chain.index(offset + i)
}

// length returns the total number of elements ever produced that lie at
// or beyond slot s's offset, including ones the producer hasn't yielded
// yet. Only meaningful when the wrapped producer reports its own length.
func (c *elementCache[T]) length(s int) (int, bool) {
	c.checkSlot("Cursor.Length", s)

	if c.lenProducer == nil {
		return 0, false
	}

	return c.lenProducer.Len() + c.chain.length - c.offsets[s], true
}

// maybeDropLeading implements the drop-leading heuristic: with multiple
// live cursors, a single straggler suffices to pin the front, so this
// only actually scans and drops once attempts have accumulated to the
// number of live cursors - scanning every pop would be wasted work.
func (c *elementCache[T]) maybeDropLeading() {
	c.attempts++

	if c.attempts < c.live {
		return
	}

	c.attempts = 0

	m := -1

	for _, o := range c.offsets {
		if o == vacant {
			continue
		}

		if m == -1 || o < m {
			m = o
		}
	}

	if m <= 0 {
		return
	}

	c.chain.removeFrontN(m)

	for i, o := range c.offsets {
		if o != vacant {
			c.offsets[i] = o - m
		}
	}

	c.stats.LeadingDropRuns++
	c.stats.DroppedElements += m
}

// compact removes empty heap blocks from the chain. It is never called
// automatically; callers invoke it explicitly.
func (c *elementCache[T]) compact() int {
	removed := c.chain.compact()
	c.stats.CompactionRuns++
	c.stats.RemovedBlocks += removed

	return removed
}

func (c *elementCache[T]) snapshotStats() Stats {
	s := c.stats
	s.HeapAllocations = c.chain.heapAllocations

	return s
}

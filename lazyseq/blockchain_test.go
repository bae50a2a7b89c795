package lazyseq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func chainCollect[T any](c *blockChain[T]) []T {
	out := make([]T, 0, c.length)
	for i := range c.length {
		out = append(out, c.index(i))
	}

	return out
}

func TestBlockChain_AppendAllocatesHeapBlocksOnDemand(t *testing.T) {
	t.Parallel()

	c := newBlockChain[int](2, false)
	for i := range 5 {
		c.append(i)
	}

	require.Equal(t, 5, c.length)
	require.Equal(t, []int{0, 1, 2, 3, 4}, chainCollect(c))
	// ceil(5/2) = 3 blocks.
	require.Equal(t, 3, c.heapAllocations)
}

func TestBlockChain_IndexAgreesWithIteration(t *testing.T) {
	t.Parallel()

	c := newBlockChain[int](3, false)
	for i := range 10 {
		c.append(i)
	}

	c.removeFrontN(4)
	for i := 10; i < 14; i++ {
		c.append(i)
	}

	var want []int
	for _, b := range c.blocks {
		want = append(want, b.slice(0, b.length())...)
	}

	for i := range c.length {
		require.Equal(t, want[i], c.index(i))
	}
}

func TestBlockChain_RemoveFrontNTooManyPanics(t *testing.T) {
	t.Parallel()

	c := newBlockChain[int](4, false)
	c.append(1)

	require.Panics(t, func() { c.removeFrontN(2) })
}

func TestBlockChain_EmptyBlockReuseNoHeapAllocation(t *testing.T) {
	t.Parallel()

	buf1 := make([]int, 0, 25)
	buf2 := make([]int, 0, 25)

	c := newBlockChainWithBuffers[int]([][]int{buf1, buf2}, false)
	require.Equal(t, 50, c.capacity)

	for i := range 50 {
		c.append(i)
	}

	c.removeFrontN(50)
	require.Equal(t, 0, c.length)

	for i := range 50 {
		c.append(100 + i)
	}

	require.Equal(t, 0, c.heapAllocations)

	want := make([]int, 50)
	for i := range want {
		want[i] = 100 + i
	}

	require.Equal(t, want, chainCollect(c))
}

func TestBlockChain_SlidingWindowNoHeapAllocation(t *testing.T) {
	t.Parallel()

	// 64 bytes / 4-byte element = 16 elements per buffer.
	buf1 := make([]int32, 0, 16)
	buf2 := make([]int32, 0, 16)

	c := newBlockChainWithBuffers[int32]([][]int32{buf1, buf2}, false)

	for i := range 16 {
		c.append(int32(i))
	}

	for round := range 117 {
		window := c.capacity - c.length
		for i := range window {
			c.append(int32(1000 + round*100 + i))
		}

		c.removeFrontN(window)
	}

	total, _ := c.heapBlockOccupancy()
	require.Equal(t, 0, total)
	require.Equal(t, 0, c.heapAllocations)
}

func TestBlockChain_CapacityMonotoneExceptAfterCompact(t *testing.T) {
	t.Parallel()

	c := newBlockChain[int](4, false)
	last := c.capacity

	for i := range 40 {
		c.append(i)
		require.GreaterOrEqual(t, c.capacity, last)

		last = c.capacity

		if i%7 == 0 && c.length > 3 {
			c.removeFrontN(3)
		}
	}

	require.GreaterOrEqual(t, c.capacity, c.length)
}

func TestBlockChain_CompactRemovesOnlyEmptyHeapBlocks(t *testing.T) {
	t.Parallel()

	c := newBlockChain[int](3, false)
	for i := range 9 {
		c.append(i)
	}

	c.removeFrontN(6) // drains two of the three 3-capacity blocks
	removed := c.compact()

	require.Equal(t, 2, removed)
	require.Equal(t, 3, c.length)
	require.Equal(t, []int{6, 7, 8}, chainCollect(c))
}

func TestBlockChain_CompactNeverRemovesUserBlocks(t *testing.T) {
	t.Parallel()

	buf := make([]int, 0, 4)
	c := newBlockChainWithBuffers[int]([][]int{buf}, false)

	for i := range 4 {
		c.append(i)
	}

	c.removeFrontN(4)
	removed := c.compact()

	require.Equal(t, 0, removed)
	require.Len(t, c.blocks, 1)
}

func TestBlockChain_CompactIsIdempotent(t *testing.T) {
	t.Parallel()

	c := newBlockChain[int](2, false)
	for i := range 6 {
		c.append(i)
	}

	c.removeFrontN(6)
	first := c.compact()
	second := c.compact()

	require.Positive(t, first)
	require.Equal(t, 0, second)
}

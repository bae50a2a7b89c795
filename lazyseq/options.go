package lazyseq

// Option configures a cache constructed by [Cached] or
// [CachedWithBuffers].
type Option func(*cacheConfig)

type cacheConfig struct {
	heapBlockCapacity int
	zeroOnDrop        bool
}

// WithHeapBlockCapacity sizes each heap block the cache allocates. It has
// no effect on [CachedWithBuffers]'s caller-supplied buffers, only on any
// heap block later allocated once those buffers are exhausted. Omitting
// it (or passing n <= 0) keeps the default: a page-size-based capacity
// for [Cached] (see pagesize.go), the largest buffer's capacity for
// [CachedWithBuffers].
func WithHeapBlockCapacity(n int) Option {
	return func(cfg *cacheConfig) {
		cfg.heapBlockCapacity = n
	}
}

// WithZeroOnDrop overwrites each element with T's zero value the moment
// it is dropped from the front of a block, rather than leaving it live
// in the backing array until the array is reused or freed. This is the
// Go rendering of spec.md's run-destructors-on-drop resource discipline:
// enable it when T holds references (pointers, slices, maps, or an
// io.Closer-like handle) that would otherwise be kept alive by a block's
// capacity until the cell is overwritten by a later append.
func WithZeroOnDrop() Option {
	return func(cfg *cacheConfig) {
		cfg.zeroOnDrop = true
	}
}

func resolveOptions(opts []Option) cacheConfig {
	var cfg cacheConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// Cached adapts a producer into a cursor over a newly materialized
// cache. All backing memory is heap-allocated; use [WithHeapBlockCapacity]
// to size each block, and [WithZeroOnDrop] to opt into the run-
// destructors-on-drop resource discipline.
//
// The returned cursor owns the cache; further cursors are created with
// [Cursor.Save].
func Cached[T any](p Producer[T], opts ...Option) *Cursor[T] {
	cfg := resolveOptions(opts)

	hint := cfg.heapBlockCapacity
	if hint <= 0 {
		hint = defaultHeapBlockCapacity()
	}

	chain := newBlockChain[T](hint, cfg.zeroOnDrop)
	cache := newElementCache[T](p, chain)
	slot := cache.makeSlice(0)

	return &Cursor[T]{cache: cache, slot: slot}
}

// CachedWithBuffers adapts a producer into a cursor backed initially by
// one or more caller-supplied buffers, each of which must have length 0
// and a positive capacity. Heap allocation only occurs once elements
// outlive the buffers' joint capacity; the heap-block capacity hint used
// for any later heap blocks defaults to the largest buffer's capacity,
// overridable with [WithHeapBlockCapacity]. [WithZeroOnDrop] applies to
// the caller-supplied buffers too.
func CachedWithBuffers[T any](p Producer[T], buffers [][]T, opts ...Option) *Cursor[T] {
	cfg := resolveOptions(opts)

	chain := newBlockChainWithBuffers[T](buffers, cfg.zeroOnDrop)

	if cfg.heapBlockCapacity > 0 {
		chain.heapBlockCapacityHint = cfg.heapBlockCapacity
	}

	cache := newElementCache[T](p, chain)
	slot := cache.makeSlice(0)

	return &Cursor[T]{cache: cache, slot: slot}
}

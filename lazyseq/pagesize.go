package lazyseq

import "golang.org/x/sys/unix"

// fallbackHeapBlockCapacity is used if the OS page size heuristic below
// ever yields something nonsensical.
const fallbackHeapBlockCapacity = 4096

// pageSize is queried once at package init, mirroring the teacher's own
// pkg/slotcache package-level pageSize variable.
var pageSize = unix.Getpagesize()

// defaultHeapBlockCapacity is the page-based default spec.md §4.4 calls
// for when a caller omits (or passes zero for) the heap-block capacity
// hint to [Cached]. It returns the OS page size in bytes, used directly
// as an element count: a block holds that many elements whatever the
// size of T, so its memory footprint grows with the size of T.
func defaultHeapBlockCapacity() int {
	if pageSize <= 0 {
		return fallbackHeapBlockCapacity
	}

	return pageSize
}

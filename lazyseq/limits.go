package lazyseq

// Hardcoded implementation limits.
//
// These exist to keep arithmetic away from overflow boundaries and to
// give a sane, non-zero default when a caller doesn't supply one. They
// are not contracts a caller can tune around; see DESIGN.md for the
// rationale carried over from the teacher's pkg/slotcache limits.go.
const (
	// minHeapBlockCapacity is the smallest heap-block capacity lazyseq
	// will ever use, even if a caller or the page-size heuristic would
	// otherwise produce something smaller.
	minHeapBlockCapacity = 1

	// defaultMinDropDivisor seeds minDrop (the drop-leading heuristic
	// threshold) as heapBlockCapacityHint / defaultMinDropDivisor,
	// floored at 1. See cache.go.
	defaultMinDropDivisor = 1

	// compactOccupancyThreshold is an occupied/total heap-block ratio for
	// an optional compaction policy. No code path reads it: compaction
	// happens only through explicit [Cursor.Compact] calls, which compact
	// unconditionally.
	compactOccupancyThreshold = 0.25
)

package lazyseq_test

import (
	"testing"

	"github.com/tbrandt/lazyseq/internal/opstream"
	"github.com/tbrandt/lazyseq/lazyseq"
)

// fuzzOpProducer is a LenProducer over a fixed, known sequence, used so
// fuzzed operation schedules can always check the element returned at a
// given logical offset against an independently-computed expectation.
type fuzzOpProducer struct {
	n   int
	pos int
}

func (p *fuzzOpProducer) Exhausted() bool { return p.pos >= p.n }
func (p *fuzzOpProducer) Peek() int       { return p.pos }
func (p *fuzzOpProducer) Advance()        { p.pos++ }
func (p *fuzzOpProducer) Len() int        { return p.n - p.pos }

// FuzzCursorSchedule drives a pseudo-random schedule of cursor operations
// derived from raw fuzz bytes and asserts the core invariants from
// spec.md §8 never break: observed values match the expected logical
// offset, and nothing panics outside of the documented precondition-violation paths.
func FuzzCursorSchedule(f *testing.F) {
	f.Add([]byte{0, 1, 2, 3, 4, 5, 6, 7})
	f.Add([]byte{3, 3, 3, 3, 2, 2, 2, 1, 1})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		stream := opstream.New(data)

		const n = 200

		producer := &fuzzOpProducer{n: n}
		hint := 1 + stream.NextInt(8)
		root := lazyseq.Cached[int](producer, lazyseq.WithHeapBlockCapacity(hint))

		type cursorState struct {
			cur    *lazyseq.Cursor[int]
			offset int
			closed bool
		}

		cursors := []*cursorState{{cur: root}}

		steps := 0
		for stream.HasMore() && steps < 500 {
			steps++

			live := make([]*cursorState, 0, len(cursors))

			for _, cs := range cursors {
				if !cs.closed {
					live = append(live, cs)
				}
			}

			if len(live) == 0 {
				break
			}

			cs := live[stream.NextInt(len(live))]

			switch stream.NextInt(5) {
			case 0:
				if cs.offset < n {
					v := cs.cur.Front()
					if v != cs.offset {
						t.Fatalf("Front() = %d, want %d", v, cs.offset)
					}

					cs.cur.PopFront()
					cs.offset++
				}
			case 1:
				if cs.offset < n {
					i := stream.NextInt(n - cs.offset)

					v := cs.cur.Index(i)
					if v != cs.offset+i {
						t.Fatalf("Index(%d) = %d, want %d", i, v, cs.offset+i)
					}
				}
			case 2:
				if len(cursors) < 12 {
					forked := cs.cur.Save()
					cursors = append(cursors, &cursorState{cur: forked, offset: cs.offset})
				}
			case 3:
				if len(live) > 1 {
					cs.cur.Close()
					cs.closed = true
				}
			case 4:
				_, _ = cs.cur.Length()
			}
		}

		for _, cs := range cursors {
			if !cs.closed {
				cs.cur.Close()
			}
		}
	})
}

// Package heap implements the frontier: a binary min-heap of search
// entries ordered by score, wrapping the standard library's
// container/heap.
//
// This plays the role of the original C heap.c/heap.h fixed-capacity
// array heap (add/pop/top/empty, geometric growth, abort on allocation
// exhaustion), but container/heap on a Go slice grows without an
// explicit capacity ceiling, so there is no add-failure case to report:
// the only way insertion "fails" here is the same way any Go allocation
// fails, which aborts the whole process rather than one worker.
package heap

import (
	stdheap "container/heap"

	"hdastar/grid"
	"hdastar/handle"
)

// Entry is a frontier entry: a discovered-but-not-yet-closed node,
// keyed by Score for ordering.
type Entry struct {
	Pos    grid.Position
	Cost   float64
	Score  float64
	Parent handle.Handle
}

// Frontier is a min-heap of Entry ordered by Score. The zero value is an
// empty, ready-to-use frontier.
type Frontier struct {
	entries entrySlice
}

type entrySlice []Entry

func (s entrySlice) Len() int           { return len(s) }
func (s entrySlice) Less(i, j int) bool { return s[i].Score < s[j].Score }
func (s entrySlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s *entrySlice) Push(x any)        { *s = append(*s, x.(Entry)) }
func (s *entrySlice) Pop() any {
	old := *s
	n := len(old)
	e := old[n-1]
	*s = old[:n-1]
	return e
}

// Add inserts e into the frontier. Amortized O(log n).
func (f *Frontier) Add(e Entry) {
	stdheap.Push(&f.entries, e)
}

// Pop removes and returns the entry with the smallest score. O(log n).
// Pop must not be called on an empty frontier; callers check Empty
// first.
func (f *Frontier) Pop() Entry {
	return stdheap.Pop(&f.entries).(Entry)
}

// Top returns the entry with the smallest score without removing it.
func (f *Frontier) Top() Entry {
	return f.entries[0]
}

// Empty reports whether the frontier holds no entries.
func (f *Frontier) Empty() bool {
	return len(f.entries) == 0
}

// Len returns the number of entries currently held.
func (f *Frontier) Len() int {
	return len(f.entries)
}

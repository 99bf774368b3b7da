// Package handle implements the cross-worker parent reference scheme:
// a tagged handle {owner, index} identifying a node globally, and the
// per-worker append-only window buffer (arena) that handles index into.
//
// Parent chains form a forest embedded in the union of per-worker
// arenas; the forest is acyclic by construction because a parent is
// always appended to its arena before any of its children are issued a
// handle referencing it.
package handle

import "hdastar/grid"

// Handle identifies a closed node globally: the rank of the worker that
// closed it, and that worker's local arena index for it.
type Handle struct {
	Owner int
	Index int
}

// Root is the handle of the search root, which has no parent.
var Root = Handle{Owner: -1, Index: -1}

// Node is a closed search node, as retained in a window buffer. It
// mirrors the wire Node record but stays in-process (no wire.Node
// round-trip needed for a worker's own closed nodes).
type Node struct {
	Pos    grid.Position
	Cost   float64
	Score  float64
	Parent Handle
}

// WindowBuffer is a per-worker append-only sequence of closed nodes.
// Entries are never mutated after Append, so handles into a WindowBuffer
// remain stable for the lifetime of a run.
type WindowBuffer struct {
	entries []Node
}

// Append adds n to the buffer and returns the handle that now
// identifies it. Handles issued by a single WindowBuffer are strictly
// increasing.
func (w *WindowBuffer) Append(owner int, n Node) Handle {
	h := Handle{Owner: owner, Index: len(w.entries)}
	w.entries = append(w.entries, n)
	return h
}

// At returns the node at local index i. i must have been returned by a
// prior Append on this buffer.
func (w *WindowBuffer) At(i int) Node {
	return w.entries[i]
}

// Len returns the number of closed nodes appended so far.
func (w *WindowBuffer) Len() int {
	return len(w.entries)
}

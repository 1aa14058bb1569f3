// Package history implements a bounded, linear undo/redo stack.
//
// A [Manager] stores snapshots in a fixed-capacity ring buffer with a
// cursor. Pushing while the cursor is not at the tail discards the redo
// branch; pushing past capacity discards the oldest snapshot. Snapshots are
// deep-copied on the way in and on the way out, so callers never share
// mutable state with the stack.
//
// A Manager is not safe for concurrent use; callers must synchronize.
package history

// DefaultCapacity is the capacity used when New is given a non-positive one.
const DefaultCapacity = 20

// Manager is a fixed-capacity undo/redo stack of snapshots of type T.
//
// Once non-empty, the cursor always points at a valid index in
// [0, Len()-1].
type Manager[T any] struct {
	data   []T
	head   int // physical index of the oldest entry
	count  int
	cursor int // logical index of the current entry, -1 when empty
	clone  func(T) T
}

// New creates a Manager holding at most capacity snapshots. clone produces
// a deep copy of a snapshot; a nil clone copies by assignment, which is only
// correct for value types without references.
func New[T any](capacity int, clone func(T) T) *Manager[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Manager[T]{
		data:   make([]T, capacity),
		cursor: -1,
		clone:  clone,
	}
}

// slot maps a logical index (0 = oldest) to its position in data.
func (h *Manager[T]) slot(i int) int {
	return (h.head + i) % len(h.data)
}

// Push records a snapshot. Entries after the cursor are dropped first; when
// the stack is full the oldest entry is evicted. The cursor ends on the new
// entry. Push never fails.
func (h *Manager[T]) Push(v T) {
	var zero T
	for i := h.cursor + 1; i < h.count; i++ {
		h.data[h.slot(i)] = zero
	}
	h.count = h.cursor + 1

	if h.count == len(h.data) {
		h.data[h.head] = zero
		h.head = (h.head + 1) % len(h.data)
		h.count--
	}

	h.data[h.slot(h.count)] = h.clone(v)
	h.count++
	h.cursor = h.count - 1
}

// Undo moves the cursor back one entry and returns a copy of the entry now
// current. It returns false, leaving the cursor alone, when the cursor is
// already at the oldest entry or the stack is empty.
func (h *Manager[T]) Undo() (T, bool) {
	if !h.CanUndo() {
		var zero T
		return zero, false
	}
	h.cursor--
	return h.clone(h.data[h.slot(h.cursor)]), true
}

// Redo moves the cursor forward one entry and returns a copy of it. It
// returns false when the cursor is already at the newest entry.
func (h *Manager[T]) Redo() (T, bool) {
	if !h.CanRedo() {
		var zero T
		return zero, false
	}
	h.cursor++
	return h.clone(h.data[h.slot(h.cursor)]), true
}

// Current returns a copy of the entry under the cursor.
func (h *Manager[T]) Current() (T, bool) {
	if h.count == 0 {
		var zero T
		return zero, false
	}
	return h.clone(h.data[h.slot(h.cursor)]), true
}

// CanUndo reports whether Undo would move the cursor.
func (h *Manager[T]) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *Manager[T]) CanRedo() bool { return h.cursor >= 0 && h.cursor < h.count-1 }

// Len returns the number of stored entries.
func (h *Manager[T]) Len() int { return h.count }

// Cap returns the maximum number of entries.
func (h *Manager[T]) Cap() int { return len(h.data) }

// Cursor returns the logical index of the current entry, or -1 when empty.
func (h *Manager[T]) Cursor() int { return h.cursor }

// Entries returns copies of every entry from oldest to newest.
func (h *Manager[T]) Entries() []T {
	out := make([]T, h.count)
	for i := range out {
		out[i] = h.clone(h.data[h.slot(i)])
	}
	return out
}

// Clear removes every entry.
func (h *Manager[T]) Clear() {
	var zero T
	for i := range h.data {
		h.data[i] = zero
	}
	h.head = 0
	h.count = 0
	h.cursor = -1
}

package data_structures

import "fmt"

// Handle addresses a slot of an ArenaList. It stays valid until the slot is removed.
type Handle int

const NilHandle Handle = -1

type arenaNode[T any] struct {
	val  T
	prev Handle
	next Handle
	used bool
}

// ArenaList is a doubly linked list whose nodes live in one slice and link to
// each other by index. Removed slots go to a free stack and are reused by the
// next PushFront, so a list that never exceeds its initial capacity never
// allocates after construction. ArenaList is not safe for concurrent use.
type ArenaList[T any] struct {
	nodes []arenaNode[T]
	free  []Handle
	head  Handle
	tail  Handle
	size  int
}

func NewArenaList[T any](capacity int) *ArenaList[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &ArenaList[T]{
		nodes: make([]arenaNode[T], 0, capacity),
		free:  make([]Handle, 0, capacity),
		head:  NilHandle,
		tail:  NilHandle,
	}
}

func (l *ArenaList[T]) Size() int {
	return l.size
}

func (l *ArenaList[T]) node(h Handle) *arenaNode[T] {
	if h < 0 || int(h) >= len(l.nodes) || !l.nodes[h].used {
		panic(fmt.Sprintf("arena list: invalid handle %d", h))
	}
	return &l.nodes[h]
}

// Get returns a pointer to the value in slot h. The pointer must not be kept
// across PushFront, which may grow the backing slice.
func (l *ArenaList[T]) Get(h Handle) *T {
	return &l.node(h).val
}

func (l *ArenaList[T]) Front() (Handle, bool) {
	return l.head, l.head != NilHandle
}

func (l *ArenaList[T]) Back() (Handle, bool) {
	return l.tail, l.tail != NilHandle
}

func (l *ArenaList[T]) Next(h Handle) (Handle, bool) {
	next := l.node(h).next
	return next, next != NilHandle
}

func (l *ArenaList[T]) Prev(h Handle) (Handle, bool) {
	prev := l.node(h).prev
	return prev, prev != NilHandle
}

func (l *ArenaList[T]) allocate(v T) Handle {
	if n := len(l.free); n > 0 {
		h := l.free[n-1]
		l.free = l.free[:n-1]
		l.nodes[h] = arenaNode[T]{val: v, used: true}
		return h
	}
	l.nodes = append(l.nodes, arenaNode[T]{val: v, used: true})
	return Handle(len(l.nodes) - 1)
}

func (l *ArenaList[T]) linkFront(h Handle) {
	n := &l.nodes[h]
	n.prev = NilHandle
	n.next = l.head
	if l.head != NilHandle {
		l.nodes[l.head].prev = h
	}
	l.head = h
	if l.tail == NilHandle {
		l.tail = h
	}
}

func (l *ArenaList[T]) unlink(h Handle) {
	n := &l.nodes[h]
	if n.prev != NilHandle {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != NilHandle {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = NilHandle, NilHandle
}

func (l *ArenaList[T]) PushFront(v T) Handle {
	h := l.allocate(v)
	l.linkFront(h)
	l.size++
	return h
}

func (l *ArenaList[T]) MoveToFront(h Handle) {
	l.node(h)
	if l.head == h {
		return
	}
	l.unlink(h)
	l.linkFront(h)
}

// Remove unlinks slot h, releases it and returns the value it held.
func (l *ArenaList[T]) Remove(h Handle) T {
	n := l.node(h)
	val := n.val
	l.unlink(h)
	var zero T
	n.val = zero
	n.used = false
	l.free = append(l.free, h)
	l.size--
	return val
}

// Clear drops every element but keeps the allocated slots for reuse.
func (l *ArenaList[T]) Clear() {
	var zero T
	l.free = l.free[:0]
	for i := len(l.nodes) - 1; i >= 0; i-- {
		l.nodes[i] = arenaNode[T]{val: zero, prev: NilHandle, next: NilHandle}
		l.free = append(l.free, Handle(i))
	}
	l.head, l.tail = NilHandle, NilHandle
	l.size = 0
}

// Iterator walks the list from front to back exactly once. Removing the
// element last returned by Next is allowed; any other mutation invalidates it.
type Iterator[T any] struct {
	list *ArenaList[T]
	next Handle
}

func (l *ArenaList[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{list: l, next: l.head}
}

func (it *Iterator[T]) Next() (Handle, bool) {
	if it.next == NilHandle {
		return NilHandle, false
	}
	h := it.next
	it.next = it.list.nodes[h].next
	return h, true
}

// ForEach visits values front to back until cb returns false.
func (l *ArenaList[T]) ForEach(cb func(h Handle, val *T) bool) {
	for it := l.Iterator(); ; {
		h, ok := it.Next()
		if !ok || !cb(h, &l.nodes[h].val) {
			return
		}
	}
}

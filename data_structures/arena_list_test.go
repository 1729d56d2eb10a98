package data_structures

import (
	"testing"

	"github.com/dlshle/lrucache/test_utils"
)

func values[T any](l *ArenaList[T]) []T {
	res := make([]T, 0, l.Size())
	l.ForEach(func(_ Handle, val *T) bool {
		res = append(res, *val)
		return true
	})
	return res
}

func backwards[T any](l *ArenaList[T]) []T {
	res := make([]T, 0, l.Size())
	for h, ok := l.Back(); ok; h, ok = l.Prev(h) {
		res = append(res, *l.Get(h))
	}
	return res
}

func TestArenaList(t *testing.T) {
	var (
		l          *ArenaList[string]
		a, b, c, d Handle
	)
	test_utils.NewGroup("arena list", "arena backed doubly linked list").Cases(
		test_utils.New("push front", func() {
			l = NewArenaList[string](3)
			a = l.PushFront("a")
			b = l.PushFront("b")
			c = l.PushFront("c")
			test_utils.AssertEquals(l.Size(), 3)
			test_utils.AssertSlicesEqual(values(l), []string{"c", "b", "a"})
			test_utils.AssertSlicesEqual(backwards(l), []string{"a", "b", "c"})
			back, ok := l.Back()
			test_utils.AssertTrue(ok)
			test_utils.AssertEquals(back, a)
		}),
		test_utils.New("move to front", func() {
			l.MoveToFront(a)
			test_utils.AssertSlicesEqual(values(l), []string{"a", "c", "b"})
			l.MoveToFront(a)
			test_utils.AssertSlicesEqual(values(l), []string{"a", "c", "b"})
			l.MoveToFront(c)
			test_utils.AssertSlicesEqual(values(l), []string{"c", "a", "b"})
			test_utils.AssertSlicesEqual(backwards(l), []string{"b", "a", "c"})
		}),
		test_utils.New("remove middle and reuse slot", func() {
			test_utils.AssertEquals(l.Remove(a), "a")
			test_utils.AssertSlicesEqual(values(l), []string{"c", "b"})
			d = l.PushFront("d")
			test_utils.AssertEquals(d, a)
			test_utils.AssertEquals(len(l.nodes), 3)
			test_utils.AssertSlicesEqual(values(l), []string{"d", "c", "b"})
		}),
		test_utils.New("remove head and tail", func() {
			l.Remove(d)
			l.Remove(b)
			test_utils.AssertSlicesEqual(values(l), []string{"c"})
			front, _ := l.Front()
			back, _ := l.Back()
			test_utils.AssertEquals(front, c)
			test_utils.AssertEquals(back, c)
			l.Remove(c)
			_, ok := l.Front()
			test_utils.AssertFalse(ok)
			_, ok = l.Back()
			test_utils.AssertFalse(ok)
			test_utils.AssertEquals(l.Size(), 0)
		}),
		test_utils.New("stale handles panic", func() {
			test_utils.AssertPanic(func() { l.Get(c) })
			test_utils.AssertPanic(func() { l.MoveToFront(Handle(42)) })
			test_utils.AssertPanic(func() { l.Remove(NilHandle) })
		}),
	).Do(t)
}

func TestArenaListIteratorAllowsRemovingCurrent(t *testing.T) {
	l := NewArenaList[int](8)
	for i := 0; i < 8; i++ {
		l.PushFront(i)
	}
	it := l.Iterator()
	for h, ok := it.Next(); ok; h, ok = it.Next() {
		if *l.Get(h)%2 == 0 {
			l.Remove(h)
		}
	}
	test_utils.AssertSlicesEqual(values(l), []int{7, 5, 3, 1})
	// exhausted iterators stay exhausted, a new one starts over
	_, ok := it.Next()
	test_utils.AssertFalse(ok)
	count := 0
	for it = l.Iterator(); ; count++ {
		if _, ok := it.Next(); !ok {
			break
		}
	}
	test_utils.AssertEquals(count, 4)
}

func TestArenaListClear(t *testing.T) {
	l := NewArenaList[int](2)
	l.PushFront(1)
	l.PushFront(2)
	l.PushFront(3)
	l.Clear()
	test_utils.AssertEquals(l.Size(), 0)
	test_utils.AssertEquals(len(values(l)), 0)
	l.PushFront(4)
	test_utils.AssertEquals(len(l.nodes), 3)
	test_utils.AssertSlicesEqual(values(l), []int{4})
}

// Package ring is an index-based adaption of `container/ring` for the buffer
// cache's bucket lists.
//
// An [Arena] holds the links for a fixed set of nodes, addressed by index.
// Some nodes are used as sentinels: a sentinel and the nodes linked to it form
// one circular doubly linked list, where the element after the sentinel is the
// front (most recently used) and the element before it is the back (least
// recently used). No node ever holds a pointer to another, so nodes can be
// moved between lists without touching the values they describe.
//
// An Arena does no locking; callers serialize access per list.
package ring

import "iter"

// Arena stores next/prev links for nodes [0, Len()).
type Arena struct {
	next, prev []int
}

// New creates an arena of n nodes. Every node starts as a
// one-element ring (linked to itself).
func New(n int) *Arena {
	a := &Arena{
		next: make([]int, n),
		prev: make([]int, n),
	}
	for i := range n {
		a.init(i)
	}
	return a
}

func (a *Arena) init(i int) {
	a.next[i] = i
	a.prev[i] = i
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int { return len(a.next) }

// Next returns the element after i.
func (a *Arena) Next(i int) int { return a.next[i] }

// Prev returns the element before i.
func (a *Arena) Prev(i int) int { return a.prev[i] }

// Link inserts the lone node s directly after r.
// s must not currently be linked into another ring.
func (a *Arena) Link(r, s int) {
	n := a.next[r]
	a.next[r] = s
	a.prev[s] = r
	a.next[s] = n
	a.prev[n] = s
}

// Unlink removes i from whatever ring it is in,
// leaving it as a one-element ring.
func (a *Arena) Unlink(i int) {
	p, n := a.prev[i], a.next[i]
	a.next[p] = n
	a.prev[n] = p
	a.init(i)
}

// Linked reports whether i is part of a ring with other elements.
func (a *Arena) Linked(i int) bool { return a.next[i] != i }

// PushFront links i directly after the sentinel head.
func (a *Arena) PushFront(head, i int) { a.Link(head, i) }

// PushBack links i directly before the sentinel head.
func (a *Arena) PushBack(head, i int) { a.Link(a.prev[head], i) }

// MoveToFront relinks i directly after the sentinel head.
func (a *Arena) MoveToFront(head, i int) {
	if a.next[head] == i {
		return
	}
	a.Unlink(i)
	a.Link(head, i)
}

// Count returns the number of elements in the ring of head,
// not counting head itself.
// It executes in time proportional to the number of elements.
func (a *Arena) Count(head int) int {
	n := 0
	for p := a.next[head]; p != head; p = a.next[p] {
		n++
	}
	return n
}

// Forward yields the elements of head's ring front to back.
// The ring must not be modified during iteration.
func (a *Arena) Forward(head int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for p := a.next[head]; p != head; p = a.next[p] {
			if !yield(p) {
				return
			}
		}
	}
}

// Backward yields the elements of head's ring back to front.
// The ring must not be modified during iteration.
func (a *Arena) Backward(head int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for p := a.prev[head]; p != head; p = a.prev[p] {
			if !yield(p) {
				return
			}
		}
	}
}

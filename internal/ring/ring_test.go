package ring_test

import (
	"slices"
	"testing"

	"github.com/djdv/go-kcore/internal/ring"
	"github.com/stretchr/testify/require"
)

// Nodes [0, nodes) are elements, the rest are sentinels.
const (
	nodes = 6
	headA = nodes
	headB = nodes + 1
)

func TestArena(t *testing.T) {
	t.Run("empty", empty)
	t.Run("push order", pushOrder)
	t.Run("move to front", moveToFront)
	t.Run("move between rings", moveBetweenRings)
	t.Run("early stop", earlyStop)
}

func newArena() *ring.Arena { return ring.New(nodes + 2) }

func empty(t *testing.T) {
	t.Parallel()
	a := newArena()
	require.Equal(t, nodes+2, a.Len())
	require.Zero(t, a.Count(headA))
	require.Empty(t, slices.Collect(a.Forward(headA)))
	require.False(t, a.Linked(0))
}

func pushOrder(t *testing.T) {
	t.Parallel()
	a := newArena()
	for i := range 3 {
		a.PushFront(headA, i)
	}
	a.PushBack(headA, 3)
	require.Equal(t, []int{2, 1, 0, 3}, slices.Collect(a.Forward(headA)))
	require.Equal(t, []int{3, 0, 1, 2}, slices.Collect(a.Backward(headA)))
	require.Equal(t, 4, a.Count(headA))
	require.Equal(t, 2, a.Next(headA))
	require.Equal(t, 3, a.Prev(headA))
}

func moveToFront(t *testing.T) {
	t.Parallel()
	a := newArena()
	for i := range 4 {
		a.PushFront(headA, i)
	}
	a.MoveToFront(headA, 0)
	require.Equal(t, []int{0, 3, 2, 1}, slices.Collect(a.Forward(headA)))
	a.MoveToFront(headA, 0) // Already at the front.
	require.Equal(t, []int{0, 3, 2, 1}, slices.Collect(a.Forward(headA)))
}

func moveBetweenRings(t *testing.T) {
	t.Parallel()
	a := newArena()
	for i := range 3 {
		a.PushFront(headA, i)
	}
	a.Unlink(1)
	require.False(t, a.Linked(1))
	a.PushFront(headB, 1)
	require.Equal(t, []int{2, 0}, slices.Collect(a.Forward(headA)))
	require.Equal(t, []int{1}, slices.Collect(a.Forward(headB)))
	require.Equal(t, 3, a.Count(headA)+a.Count(headB))
}

func earlyStop(t *testing.T) {
	t.Parallel()
	a := newArena()
	for i := range nodes {
		a.PushBack(headA, i)
	}
	var got []int
	for i := range a.Backward(headA) {
		got = append(got, i)
		if len(got) == 2 {
			break
		}
	}
	require.Equal(t, []int{5, 4}, got)
}

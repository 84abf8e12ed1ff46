// Package spinlock provides the short-held metadata lock used for buffer cache
// buckets and allocator partitions. Waiters busy-wait instead of sleeping, so
// a Lock must never be held across a blocking operation.
package spinlock

import (
	"runtime"
	"sync/atomic"

	"github.com/djdv/go-kcore/fault"
)

type (
	// Lock is a test-and-set spin lock.
	// The zero value is an unlocked, unnamed lock.
	Lock struct {
		name     string
		locked   atomic.Bool
		acquires atomic.Uint64
		spins    atomic.Uint64
	}
	// Stats reports how often a lock was taken and
	// how many failed test-and-set attempts waiters made.
	Stats struct {
		Name     string
		Acquires uint64
		Spins    uint64
	}
)

// Init names the lock. It must be called before the lock is shared.
func (l *Lock) Init(name string) { l.name = name }

// Name returns the name given to [Lock.Init].
func (l *Lock) Name() string { return l.name }

// Acquire spins until the lock is held.
func (l *Lock) Acquire() {
	l.acquires.Add(1)
	for !l.locked.CompareAndSwap(false, true) {
		l.spins.Add(1)
		runtime.Gosched()
	}
}

// Release unlocks l. Releasing an unlocked lock is a contract violation.
func (l *Lock) Release() {
	if !l.locked.CompareAndSwap(true, false) {
		fault.Violation("release", "spinlock %q is not held", l.name)
	}
}

// Locked reports whether some goroutine holds l.
// Spin locks do not record their owner.
func (l *Lock) Locked() bool { return l.locked.Load() }

// Stats returns a snapshot of the contention counters.
func (l *Lock) Stats() Stats {
	return Stats{
		Name:     l.name,
		Acquires: l.acquires.Load(),
		Spins:    l.spins.Load(),
	}
}

// Package sleeplock provides the long-held content lock of a buffer slot.
// Unlike a spin lock, waiters block, so the holder may keep it across a
// device transfer. The lock records an owner token so that release and
// write paths can verify the caller really holds it.
package sleeplock

import (
	"sync"

	"github.com/djdv/go-kcore/fault"
)

// Owner identifies one acquisition of a [Lock].
// The zero Owner never holds a lock.
type Owner uint64

// Lock is a blocking exclusive lock.
// It must be initialized with [Lock.Init] before use.
type Lock struct {
	mu     sync.Mutex
	cond   *sync.Cond
	locked bool
	owner  Owner
	name   string
}

// Init prepares l for use. It must be called before the lock is shared.
func (l *Lock) Init(name string) {
	l.name = name
	l.cond = sync.NewCond(&l.mu)
}

// Acquire blocks until l is free, then takes it on behalf of owner.
func (l *Lock) Acquire(owner Owner) {
	if owner == 0 {
		fault.Violation("acquiresleep", "%s: zero owner", l.name)
	}
	l.mu.Lock()
	for l.locked {
		l.cond.Wait()
	}
	l.locked = true
	l.owner = owner
	l.mu.Unlock()
}

// Release gives up l. Releasing a lock owner does not hold
// is a contract violation.
func (l *Lock) Release(owner Owner) {
	l.mu.Lock()
	if !l.locked || l.owner != owner {
		l.mu.Unlock()
		fault.Violation("releasesleep", "%s: not held by owner %d", l.name, owner)
	}
	l.locked = false
	l.owner = 0
	l.mu.Unlock()
	l.cond.Signal()
}

// Holding reports whether owner currently holds l.
func (l *Lock) Holding(owner Owner) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked && owner != 0 && l.owner == owner
}

// Locked reports whether anyone holds l.
func (l *Lock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}

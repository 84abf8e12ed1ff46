package bcache

import (
	"github.com/djdv/go-kcore/disk"
	"github.com/djdv/go-kcore/fault"
	"github.com/djdv/go-kcore/internal/sleeplock"
)

type (
	// Buf is one slot of the buffer pool.
	// Slots are owned by the [Cache] and never freed;
	// only their identity changes when they are recycled.
	Buf struct {
		// Guarded by the lock of the bucket the slot is linked into.
		addr     disk.Addr
		assigned bool
		refcnt   int

		// Guarded by lock.
		valid bool
		data  []byte

		lock  sleeplock.Lock
		index int // Node in the cache's ring arena.
	}
	// Handle is a locked buffer, as returned by [Cache.Read].
	// Only the goroutine holding a Handle may access the block's bytes,
	// and only until the handle is passed to [Cache.Release].
	Handle struct {
		buf   *Buf
		owner sleeplock.Owner
	}
)

func (b *Buf) claim(addr disk.Addr) {
	b.addr = addr
	b.assigned = true
	b.valid = false
	b.refcnt = 1
}

func (b *Buf) matches(addr disk.Addr) bool {
	return b.assigned && b.addr == addr
}

// Data returns the block's bytes. Modifications reach the device
// only through [Cache.Write].
func (h *Handle) Data() []byte { return h.held("data").data }

// Addr returns the device and block number the handle refers to.
func (h *Handle) Addr() disk.Addr { return h.held("addr").addr }

// Buf returns the slot behind the handle, for use with
// [Cache.Pin] and [Cache.Unpin].
func (h *Handle) Buf() *Buf { return h.held("buf") }

func (h *Handle) held(op string) *Buf {
	if h == nil || h.buf == nil {
		fault.Violation(op, "use of a released buffer handle")
	}
	if !h.buf.lock.Holding(h.owner) {
		fault.Violation(op, "buffer %s is not held by this handle", h.buf.addr)
	}
	return h.buf
}

package bcache

import (
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/djdv/go-kcore/disk"
	"github.com/djdv/go-kcore/fault"
	"github.com/djdv/go-kcore/internal/invariant"
	"github.com/djdv/go-kcore/internal/ring"
	"github.com/djdv/go-kcore/internal/sleeplock"
	"github.com/djdv/go-kcore/internal/spinlock"
	"github.com/djdv/go-kcore/klog"
	"golang.org/x/sys/cpu"
)

type (
	// Cache is a fixed pool of block buffers spread across hash buckets.
	// Constructed by [New].
	Cache struct {
		driver    disk.Driver
		blockSize int
		bufs      []Buf
		links     *ring.Arena
		buckets   []bucket
		owners    atomic.Uint64
		counters
	}
	// bucket heads a most-recently-released-first list of slots.
	// lock guards the list and the identity and refcnt of its members.
	bucket struct {
		lock spinlock.Lock
		head int
		_    cpu.CacheLinePad
	}
	counters struct {
		hits, misses,
		recycled, steals,
		raced, exhausted atomic.Uint64
	}
)

// New creates a [Cache] whose misses are served by driver.
func New(driver disk.Driver, cfg Config) (*Cache, error) {
	if driver == nil {
		return nil, fmt.Errorf("%w: nil driver", ErrInvalidConfig)
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	var (
		slots = cfg.Buffers
		c     = &Cache{
			driver:    driver,
			blockSize: cfg.BlockSize,
			bufs:      make([]Buf, slots),
			links:     ring.New(slots + cfg.Buckets),
			buckets:   make([]bucket, cfg.Buckets),
		}
		data = make([]byte, slots*cfg.BlockSize)
	)
	for i := range c.buckets {
		bkt := &c.buckets[i]
		bkt.lock.Init(fmt.Sprintf("bcache%d", i))
		bkt.head = slots + i // Sentinels follow the slots in the arena.
	}
	for i := range c.bufs {
		var (
			b     = &c.bufs[i]
			start = i * cfg.BlockSize
			end   = start + cfg.BlockSize
		)
		b.lock.Init("buffer")
		b.index = i
		b.data = data[start:end:end]
		c.links.PushFront(c.buckets[i%cfg.Buckets].head, i)
	}
	klog.Debug("bcache: %d buffers of %d bytes in %d buckets",
		slots, cfg.BlockSize, cfg.Buckets)
	return c, nil
}

// BlockSize returns the number of bytes in each buffer.
func (c *Cache) BlockSize() int { return c.blockSize }

// Read returns a locked buffer holding the contents of the block.
// If every buffer is referenced, Read raises a fatal fault
// wrapping [ErrNoBuffers]; see [Cache.TryRead].
func (c *Cache) Read(dev, block uint32) *Handle {
	h, err := c.TryRead(dev, block)
	if err != nil {
		fault.Raise("bread", err)
	}
	return h
}

// TryRead is like [Cache.Read] but reports a fully
// referenced pool as [ErrNoBuffers] instead of faulting.
func (c *Cache) TryRead(dev, block uint32) (*Handle, error) {
	b, err := c.get(disk.Addr{Dev: dev, Block: block})
	if err != nil {
		return nil, err
	}
	owner := sleeplock.Owner(c.owners.Add(1))
	b.lock.Acquire(owner)
	if !b.valid {
		c.transfer("bread", b, false)
		b.valid = true
	}
	return &Handle{buf: b, owner: owner}, nil
}

// Write writes the buffer's contents to the device.
// The caller must hold h.
func (c *Cache) Write(h *Handle) {
	c.transfer("bwrite", h.held("bwrite"), true)
}

// Release unlocks the buffer and drops the caller's reference.
// h must not be used afterwards.
func (c *Cache) Release(h *Handle) {
	b := h.held("brelse")
	h.buf = nil
	b.lock.Release(h.owner)

	bkt := c.bucketOf(b.addr)
	bkt.lock.Acquire()
	c.decrefLocked(bkt, b, "brelse")
	if b.refcnt == 0 {
		// No one is waiting for it.
		c.links.MoveToFront(bkt.head, b.index)
	}
	bkt.lock.Release()
}

// Pin adds a reference that keeps b cached across
// unrelated Read/Release cycles. The caller must already
// hold a reference to b (usually through a [Handle]).
func (c *Cache) Pin(b *Buf) {
	bkt := c.bucketOf(b.addr)
	bkt.lock.Acquire()
	if b.refcnt == 0 {
		bkt.lock.Release()
		fault.Violation("bpin", "buffer %s is not referenced", b.addr)
	}
	b.refcnt++
	bkt.lock.Release()
}

// Unpin drops a reference added by [Cache.Pin].
func (c *Cache) Unpin(b *Buf) {
	bkt := c.bucketOf(b.addr)
	bkt.lock.Acquire()
	c.decrefLocked(bkt, b, "bunpin")
	bkt.lock.Release()
}

func (c *Cache) decrefLocked(bkt *bucket, b *Buf, op string) {
	if b.refcnt == 0 {
		bkt.lock.Release()
		fault.Violation(op, "buffer %s refcount underflow", b.addr)
	}
	b.refcnt--
}

func (c *Cache) bucketOf(addr disk.Addr) *bucket {
	return &c.buckets[c.hash(addr)]
}

func (c *Cache) hash(addr disk.Addr) int {
	return int(addr.Block % uint32(len(c.buckets)))
}

// get looks through the cache for addr and returns
// its slot with a new reference, recycling the least
// recently used unreferenced slot on a miss.
func (c *Cache) get(addr disk.Addr) (*Buf, error) {
	var (
		home = c.hash(addr)
		bkt  = &c.buckets[home]
	)
	bkt.lock.Acquire()
	// Is the block already cached?
	if b := c.lookupLocked(bkt, addr); b != nil {
		b.refcnt++
		bkt.lock.Release()
		c.hits.Add(1)
		return b, nil
	}
	c.misses.Add(1)
	// Not cached; recycle from this bucket if possible.
	if b := c.reclaimableLocked(bkt); b != nil {
		b.claim(addr)
		bkt.lock.Release()
		c.recycled.Add(1)
		return b, nil
	}
	bkt.lock.Release()
	return c.steal(home, addr)
}

// steal takes an unreferenced slot from another bucket.
// At most one bucket lock is held at any time.
func (c *Cache) steal(home int, addr disk.Addr) (*Buf, error) {
	for i := range c.buckets {
		if i == home {
			continue
		}
		victim := &c.buckets[i]
		victim.lock.Acquire()
		b := c.reclaimableLocked(victim)
		if b == nil {
			victim.lock.Release()
			continue
		}
		c.links.Unlink(b.index)
		b.assigned = false
		b.valid = false
		victim.lock.Release()
		klog.Debug("bcache: %s took a buffer from %s",
			c.buckets[home].lock.Name(), victim.lock.Name())
		return c.adopt(home, b, addr), nil
	}
	c.exhausted.Add(1)
	return nil, fmt.Errorf(
		"%w: all %d buffers are referenced, wanted block %s",
		ErrNoBuffers, len(c.bufs), addr)
}

// adopt links the unlinked slot b into the home bucket and claims it for
// addr, unless another goroutine cached addr while no lock was held;
// then b is kept as a spare and the existing slot is referenced instead.
func (c *Cache) adopt(home int, b *Buf, addr disk.Addr) *Buf {
	bkt := &c.buckets[home]
	bkt.lock.Acquire()
	defer bkt.lock.Release()
	invariant.Assert(!c.links.Linked(b.index),
		"bget", "adopted buffer is still linked")
	if existing := c.lookupLocked(bkt, addr); existing != nil {
		c.links.PushBack(bkt.head, b.index)
		existing.refcnt++
		c.raced.Add(1)
		return existing
	}
	c.links.PushFront(bkt.head, b.index)
	b.claim(addr)
	c.steals.Add(1)
	return b
}

func (c *Cache) lookupLocked(bkt *bucket, addr disk.Addr) *Buf {
	for i := range c.links.Forward(bkt.head) {
		if b := &c.bufs[i]; b.matches(addr) {
			return b
		}
	}
	return nil
}

// reclaimableLocked scans from the least recently used end.
func (c *Cache) reclaimableLocked(bkt *bucket) *Buf {
	for i := range c.links.Backward(bkt.head) {
		if b := &c.bufs[i]; b.refcnt == 0 {
			invariant.Assert(!b.lock.Locked(),
				"bget", "unreferenced buffer is locked")
			return b
		}
	}
	return nil
}

func (c *Cache) transfer(op string, b *Buf, write bool) {
	if err := c.driver.Transfer(b.addr, b.data, write); err != nil {
		fault.Raise(op, err)
	}
}

// Contains reports whether the block currently has a slot,
// without taking a reference or changing its recency.
func (c *Cache) Contains(dev, block uint32) bool {
	var (
		addr = disk.Addr{Dev: dev, Block: block}
		bkt  = c.bucketOf(addr)
	)
	bkt.lock.Acquire()
	defer bkt.lock.Release()
	return c.lookupLocked(bkt, addr) != nil
}

// Len returns the number of slots that hold a block.
func (c *Cache) Len() int {
	var n int
	for i := range c.buckets {
		bkt := &c.buckets[i]
		bkt.lock.Acquire()
		for j := range c.links.Forward(bkt.head) {
			if c.bufs[j].assigned {
				n++
			}
		}
		bkt.lock.Release()
	}
	return n
}

// Keys returns an iterator over the (unordered) blocks held by slots.
// Each bucket is sampled under its own lock, so the result
// is only exact while the cache is quiescent.
func (c *Cache) Keys() iter.Seq[disk.Addr] {
	return func(yield func(disk.Addr) bool) {
		var addrs []disk.Addr
		for i := range c.buckets {
			addrs = c.appendKeys(addrs[:0], &c.buckets[i])
			for _, addr := range addrs {
				if !yield(addr) {
					return
				}
			}
		}
	}
}

func (c *Cache) appendKeys(addrs []disk.Addr, bkt *bucket) []disk.Addr {
	bkt.lock.Acquire()
	defer bkt.lock.Release()
	for i := range c.links.Forward(bkt.head) {
		if b := &c.bufs[i]; b.assigned {
			addrs = append(addrs, b.addr)
		}
	}
	return addrs
}

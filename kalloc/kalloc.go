// Package kalloc manages a simulated range of physical memory in
// whole pages. Each processor has its own free list; when it runs dry
// an allocation takes a page from the first other list that has one.
//
// Pages are filled with [AllocJunk] when handed out and [FreeJunk] when
// returned, so stale references read obviously wrong data.
package kalloc

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/djdv/go-kcore/fault"
	"github.com/djdv/go-kcore/internal/invariant"
	"github.com/djdv/go-kcore/internal/spinlock"
	"github.com/djdv/go-kcore/klog"
	"github.com/dustin/go-humanize"
	"golang.org/x/sys/cpu"
)

const (
	// AllocJunk fills every frame returned by [Allocator.Alloc].
	AllocJunk = 5
	// FreeJunk fills every frame passed to [Allocator.Free].
	FreeJunk = 1
)

type (
	// Frame is the physical address of a page.
	// The zero Frame is never a valid page.
	Frame uint64

	// Allocator hands out whole pages from per-processor free lists,
	// taking from other processors' lists when its own is empty.
	// Constructed by [New].
	Allocator struct {
		mem         []byte
		unmap       func([]byte) error
		closeOnce   sync.Once
		closeErr    error
		start, stop Frame
		partitions  []partition
	}
	// partition is one processor's free list. The list is threaded
	// through the free frames themselves: the first 8 bytes of each
	// free frame hold the address of the next one.
	partition struct {
		lock  spinlock.Lock
		head  Frame
		free  int
		stats partitionCounters
		_     cpu.CacheLinePad
	}
)

func (f Frame) String() string { return fmt.Sprintf("%#x", uint64(f)) }

// New maps the configured range and seeds it, one page
// at a time, onto the boot processor's free list.
func New(cfg Config) (*Allocator, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	var (
		start = cfg.Base + Frame(roundUp(cfg.Reserved))
		stop  = cfg.Base + Frame(cfg.Size)
	)
	mem, unmap, err := mapArena(int(stop - start))
	if err != nil {
		return nil, fmt.Errorf("mapping %s of memory: %w",
			humanize.IBytes(uint64(stop-start)), err)
	}
	a := &Allocator{
		mem:        mem,
		unmap:      unmap,
		start:      start,
		stop:       stop,
		partitions: make([]partition, cfg.CPUs),
	}
	for i := range a.partitions {
		a.partitions[i].lock.Init(fmt.Sprintf("kmem%d", i))
	}
	a.freeRange(start, stop, cfg.BootCPU)
	klog.Info("kalloc: %s free in %d pages [%s, %s) across %d partitions",
		humanize.IBytes(uint64(stop-start)), a.Total(), start, stop, cfg.CPUs)
	return a, nil
}

func (a *Allocator) freeRange(start, stop Frame, id int) {
	for f := start; f+PageSize <= stop; f += PageSize {
		a.push(f, a.pageOf("kfree", f), id)
	}
}

// Alloc returns a page filled with [AllocJunk], or [ErrNoMemory].
// The list of processor id is tried first, then every other list in order.
func (a *Allocator) Alloc(id int) (Frame, error) {
	a.checkCPU("kalloc", id)
	local := &a.partitions[id]
	f := a.pop(local)
	if f == 0 {
		f = a.steal(id)
	}
	if f == 0 {
		return 0, fmt.Errorf("%w: %d pages are all allocated",
			ErrNoMemory, a.Total())
	}
	local.stats.allocs.Add(1)
	fill(a.page(f), AllocJunk)
	return f, nil
}

func (a *Allocator) steal(id int) Frame {
	for i := range a.partitions {
		if i == id {
			continue
		}
		victim := &a.partitions[i]
		if f := a.pop(victim); f != 0 {
			a.partitions[id].stats.steals.Add(1)
			victim.stats.stolen.Add(1)
			klog.Debug("kalloc: cpu %d took %s from %s", id, f, victim.lock.Name())
			return f
		}
	}
	return 0
}

func (a *Allocator) pop(p *partition) Frame {
	p.lock.Acquire()
	defer p.lock.Release()
	f := p.head
	if f != 0 {
		p.head = Frame(binary.LittleEndian.Uint64(a.page(f)))
		p.free--
	}
	return f
}

// Free returns f to the list of processor id after filling it
// with [FreeJunk]. f must be a page previously returned by
// [Allocator.Alloc]; anything unaligned or outside the managed
// range is a fatal fault.
func (a *Allocator) Free(f Frame, id int) {
	a.checkCPU("kfree", id)
	page := a.pageOf("kfree", f)
	if invariant.Enabled && a.isFree(f) {
		fault.Violation("kfree", "frame %s is already free", f)
	}
	a.push(f, page, id)
}

func (a *Allocator) push(f Frame, page []byte, id int) {
	// Fill with junk to catch dangling refs.
	fill(page, FreeJunk)
	p := &a.partitions[id]
	p.lock.Acquire()
	binary.LittleEndian.PutUint64(page, uint64(p.head))
	p.head = f
	p.free++
	p.lock.Release()
	p.stats.frees.Add(1)
}

// isFree walks every list looking for f.
func (a *Allocator) isFree(f Frame) bool {
	for i := range a.partitions {
		p := &a.partitions[i]
		p.lock.Acquire()
		for next := p.head; next != 0; next = Frame(binary.LittleEndian.Uint64(a.page(next))) {
			if next == f {
				p.lock.Release()
				return true
			}
		}
		p.lock.Release()
	}
	return false
}

// Bytes returns the contents of f. The slice aliases the
// frame and must not be used after f is freed.
func (a *Allocator) Bytes(f Frame) []byte { return a.pageOf("kbytes", f) }

func (a *Allocator) pageOf(op string, f Frame) []byte {
	if f%PageSize != 0 || f < a.start || f >= a.stop {
		fault.Violation(op, "frame %s is not a page in [%s, %s)", f, a.start, a.stop)
	}
	return a.page(f)
}

func (a *Allocator) page(f Frame) []byte {
	offset := int(f - a.start)
	return a.mem[offset : offset+PageSize : offset+PageSize]
}

func (a *Allocator) checkCPU(op string, id int) {
	if id < 0 || id >= len(a.partitions) {
		fault.Violation(op, "cpu %d is not in [0, %d)", id, len(a.partitions))
	}
}

// CPUs returns the number of partitions.
func (a *Allocator) CPUs() int { return len(a.partitions) }

// Total returns the number of pages the allocator manages.
func (a *Allocator) Total() int { return int(a.stop-a.start) / PageSize }

// FreeCount returns the length of the free list of processor id.
func (a *Allocator) FreeCount(id int) int {
	a.checkCPU("kfreecount", id)
	p := &a.partitions[id]
	p.lock.Acquire()
	defer p.lock.Release()
	return p.free
}

// Close unmaps the managed range. Frames and slices obtained
// from the allocator must not be used afterwards.
func (a *Allocator) Close() error {
	a.closeOnce.Do(func() {
		a.closeErr = a.unmap(a.mem)
		a.mem = nil
	})
	return a.closeErr
}

func fill(page []byte, junk byte) {
	for i := range page {
		page[i] = junk
	}
}

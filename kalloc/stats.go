package kalloc

import (
	"sync/atomic"

	"github.com/djdv/go-kcore/internal/spinlock"
)

type (
	partitionCounters struct {
		allocs, frees,
		steals, stolen atomic.Uint64
	}
	// PartitionStats is a snapshot of one processor's free list.
	PartitionStats struct {
		// Free is the length of the list.
		Free int
		// Allocs counts pages returned to this processor.
		Allocs uint64
		// Frees counts pages pushed onto this list,
		// including boot seeding.
		Frees uint64
		// Steals counts allocations this processor
		// served from another list.
		Steals uint64
		// Stolen counts pages other processors took from this list.
		Stolen uint64
		Lock   spinlock.Stats
	}
)

// Stats returns a snapshot of every partition, indexed by processor.
func (a *Allocator) Stats() []PartitionStats {
	stats := make([]PartitionStats, len(a.partitions))
	for i := range a.partitions {
		p := &a.partitions[i]
		p.lock.Acquire()
		free := p.free
		p.lock.Release()
		stats[i] = PartitionStats{
			Free:   free,
			Allocs: p.stats.allocs.Load(),
			Frees:  p.stats.frees.Load(),
			Steals: p.stats.steals.Load(),
			Stolen: p.stats.stolen.Load(),
			Lock:   p.lock.Stats(),
		}
	}
	return stats
}
